package tree

import "fmt"

/*
Question represents a yes/no question held by the internal nodes of a
decision tree.

Implementations should be immutable values comparable with ==, as
questions are compared by value when trees are copied and crossed.
*/
type Question interface {
	fmt.Stringer
}

/*
Status represents the outcome held by the leaves of a decision tree.

Implementations should be immutable values comparable with ==.
*/
type Status interface {
	fmt.Stringer
}

/*
Answerer is something that can answer questions, usually an agent
consulting its own state. It may be asked several different questions
during a single traversal of a tree.
*/
type Answerer interface {
	Answer(Question) bool
}

// AnswererFunc adapts a function to the Answerer interface
type AnswererFunc func(Question) bool

// Answer calls f(q)
func (f AnswererFunc) Answer(q Question) bool {
	return f(q)
}
