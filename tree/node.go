package tree

import (
	"fmt"
)

// Kind identifies the role a Node plays in a tree
type Kind int

const (
	// PlainNode is a structural node holding neither a question nor a status
	PlainNode Kind = iota
	// QuestionNode is an internal node routing traversals with a question
	QuestionNode
	// RootNode is the question node at the top of a tree, it never has a father
	RootNode
	// OutcomeNode is a leaf holding a status, it never has children
	OutcomeNode
)

func (k Kind) String() string {
	switch k {
	case PlainNode:
		return "plain"
	case QuestionNode:
		return "question"
	case RootNode:
		return "root question"
	case OutcomeNode:
		return "outcome"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// topology is shared by a tree and the nodes it indexed, every change
// of links on those nodes bumps its version.
type topology struct {
	version uint64
}

/*
Node is a vertex of a binary decision tree.

A node owns its left and right sons and keeps a reference to its father.
Links are kept consistent in both directions: assigning a node as son of
another detaches it first from its previous father, and the node
previously in the slot loses its father.

Question and root nodes hold a question and route traversals to one of
their sons according to the answer to it: a false answer leads to the
left son and a true answer to the right son. Outcome nodes hold a status
and end traversals.

Nodes are not safe for concurrent mutation.
*/
type Node struct {
	kind     Kind
	question Question
	status   Status
	father   *Node
	leftSon  *Node
	rightSon *Node
	topology *topology
}

// NewNode returns a detached plain node without sons
func NewNode() *Node {
	return &Node{kind: PlainNode}
}

// NewQuestionNode returns a detached question node without sons or question
func NewQuestionNode() *Node {
	return &Node{kind: QuestionNode}
}

// NewRootQuestionNode returns a root question node without sons or question
func NewRootQuestionNode() *Node {
	return &Node{kind: RootNode}
}

// NewOutcomeNode returns a detached outcome node without status
func NewOutcomeNode() *Node {
	return &Node{kind: OutcomeNode}
}

// Kind returns the kind of the node
func (n *Node) Kind() Kind {
	return n.kind
}

// Father returns the node owning this one, or nil if it is detached
func (n *Node) Father() *Node {
	return n.father
}

// LeftSon returns the son for false answers, or nil
func (n *Node) LeftSon() *Node {
	return n.leftSon
}

// RightSon returns the son for true answers, or nil
func (n *Node) RightSon() *Node {
	return n.rightSon
}

// Question returns the question of the node, or nil if it is not set
func (n *Node) Question() Question {
	return n.question
}

// Status returns the status of the node, or nil if it is not set
func (n *Node) Status() Status {
	return n.status
}

func (n *Node) routes() bool {
	return n.kind == QuestionNode || n.kind == RootNode
}

/*
SetQuestion takes a question and sets it on the node without altering its
links. It returns an error wrapping ErrInvalidArgument if the question is
nil, or ErrInvalidState if the node is not a question node.
*/
func (n *Node) SetQuestion(q Question) error {
	if !n.routes() {
		return fmt.Errorf("%w: %v nodes hold no question", ErrInvalidState, n.kind)
	}
	if q == nil {
		return fmt.Errorf("%w: question cannot be nil", ErrInvalidArgument)
	}
	n.question = q
	return nil
}

/*
SetStatus takes a status and sets it on the node. It returns an error
wrapping ErrInvalidArgument if the status is nil, or ErrInvalidState if
the node is not an outcome node.
*/
func (n *Node) SetStatus(s Status) error {
	if n.kind != OutcomeNode {
		return fmt.Errorf("%w: %v nodes hold no status", ErrInvalidState, n.kind)
	}
	if s == nil {
		return fmt.Errorf("%w: status cannot be nil", ErrInvalidArgument)
	}
	n.status = s
	return nil
}

/*
SetLeftSon takes a node and makes it the left son of this one, or clears
the slot if it is nil. The node previously in the slot is left without
father and the given node is detached from its previous father first.
Setting the node already in the slot does nothing.

It returns an error wrapping ErrInvalidArgument if this is an outcome node,
the son is a root node, or the son is this node or one of its ancestors.
*/
func (n *Node) SetLeftSon(son *Node) error {
	if err := n.canAdopt(son); err != nil {
		return fmt.Errorf("setting left son: %w", err)
	}
	n.link(true, son)
	return nil
}

// SetRightSon behaves like SetLeftSon for the right slot
func (n *Node) SetRightSon(son *Node) error {
	if err := n.canAdopt(son); err != nil {
		return fmt.Errorf("setting right son: %w", err)
	}
	n.link(false, son)
	return nil
}

func (n *Node) canAdopt(son *Node) error {
	if son == nil {
		return nil
	}
	if n.kind == OutcomeNode {
		return fmt.Errorf("%w: outcome nodes cannot have sons", ErrInvalidArgument)
	}
	if son.kind == RootNode {
		return fmt.Errorf("%w: root nodes cannot have a father", ErrInvalidArgument)
	}
	for a := n; a != nil; a = a.father {
		if a == son {
			return fmt.Errorf("%w: a node cannot descend from itself", ErrInvalidArgument)
		}
	}
	return nil
}

func (n *Node) link(left bool, son *Node) {
	slot := &n.rightSon
	if left {
		slot = &n.leftSon
	}
	if *slot == son {
		return
	}
	if old := *slot; old != nil {
		old.father = nil
	}
	if son != nil {
		son.detach()
		son.father = n
	}
	*slot = son
	n.touch()
}

func (n *Node) detach() {
	f := n.father
	if f == nil {
		return
	}
	if f.leftSon == n {
		f.leftSon = nil
	}
	if f.rightSon == n {
		f.rightSon = nil
	}
	n.father = nil
	f.touch()
}

func (n *Node) touch() {
	if n.topology != nil {
		n.topology.version++
	}
}

// Traverse returns the left son if goLeft is true and the right son
// otherwise. The returned node is nil if the slot is empty.
func (n *Node) Traverse(goLeft bool) *Node {
	if goLeft {
		return n.leftSon
	}
	return n.rightSon
}

/*
Next takes an answerer and returns the node a traversal continues on.
For question nodes it is the left son if the answerer answers the node
question with false and the right son if it answers true. For outcome
nodes it is always nil, as traversals end on them.

It returns an error wrapping ErrInvalidState if the question is not set
or the node is a plain node, and ErrInvalidArgument if the answerer is nil.
*/
func (n *Node) Next(a Answerer) (*Node, error) {
	switch {
	case n.kind == OutcomeNode:
		return nil, nil
	case !n.routes():
		return nil, fmt.Errorf("%w: %v nodes cannot route traversals", ErrInvalidState, n.kind)
	case n.question == nil:
		return nil, fmt.Errorf("%w: question node has no question", ErrInvalidState)
	case a == nil:
		return nil, fmt.Errorf("%w: answerer cannot be nil", ErrInvalidArgument)
	}
	return n.Traverse(!a.Answer(n.question)), nil
}

/*
IsInitialized returns whether the node has every link and value its kind
requires:
  - plain nodes: a father and both sons
  - question nodes: a father, both sons and a question
  - root nodes: both sons and a question
  - outcome nodes: a father and a status
*/
func (n *Node) IsInitialized() bool {
	sons := n.leftSon != nil && n.rightSon != nil
	switch n.kind {
	case QuestionNode:
		return n.father != nil && sons && n.question != nil
	case RootNode:
		return sons && n.question != nil
	case OutcomeNode:
		return n.father != nil && n.status != nil
	}
	return n.father != nil && sons
}

/*
Copy returns a deep copy of the subtree under the node. Every node of the
copy is new, has the kind of the node in the same position and holds the
same question or status value. The copy has no father.
*/
func (n *Node) Copy() *Node {
	c := &Node{kind: n.kind, question: n.question, status: n.status}
	if n.leftSon != nil {
		c.link(true, n.leftSon.Copy())
	}
	if n.rightSon != nil {
		c.link(false, n.rightSon.Copy())
	}
	return c
}

func (n *Node) String() string {
	switch {
	case n.routes() && n.question != nil:
		return n.question.String()
	case n.kind == OutcomeNode && n.status != nil:
		return n.status.String()
	}
	return fmt.Sprintf("<%v>", n.kind)
}
