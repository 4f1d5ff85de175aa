/*
Package brain provides decision tree brains: decision trees that agents
consult to decide their status, along with the genetic operators to create
them at random and cross them.
*/
package brain

import (
	"fmt"
	"math/rand"

	"github.com/pbanos/evolution/tree"
)

/*
Brain is the decision procedure of an agent. Its Decide method takes
an answerer, usually the agent itself, and returns the status the agent
should take or an error.
*/
type Brain interface {
	Decide(tree.Answerer) (tree.Status, error)
}

/*
DecisionTreeBrain is a Brain backed by a decision tree
*/
type DecisionTreeBrain struct {
	*tree.DecisionTree
}

/*
New takes a depth and returns a brain on a tree of that depth with no
questions or statuses set, or an error wrapping tree.ErrInvalidArgument
if the depth is not valid.
*/
func New(depth int) (*DecisionTreeBrain, error) {
	t, err := tree.New(depth)
	if err != nil {
		return nil, err
	}
	return &DecisionTreeBrain{t}, nil
}

/*
NewWithRoot takes a depth and a root node and returns a brain on a tree
with that root. See tree.NewWithRoot for the requirements on the root.
*/
func NewWithRoot(depth int, root *tree.Node) (*DecisionTreeBrain, error) {
	t, err := tree.NewWithRoot(depth, root)
	if err != nil {
		return nil, err
	}
	return &DecisionTreeBrain{t}, nil
}

// Decide applies the brain tree with the given answerer
func (b *DecisionTreeBrain) Decide(a tree.Answerer) (tree.Status, error) {
	return b.Apply(a)
}

/*
Generator creates and crosses brains drawing random numbers from its
source. A Generator is safe for concurrent use only if its source is.
*/
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator takes a rand.Source and returns a Generator using it
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// CreateRandom calls CreateRandom on a default Generator that is safe for
// concurrent use
func CreateRandom(depth int, questions []tree.Question, statuses []tree.Status) (*DecisionTreeBrain, error) {
	return defaultGenerator.CreateRandom(depth, questions, statuses)
}

// Cross calls Cross on a default Generator that is safe for concurrent use
func Cross(b1, b2 *DecisionTreeBrain) (*DecisionTreeBrain, error) {
	return defaultGenerator.Cross(b1, b2)
}

/*
CreateRandom takes a depth, a slice of questions and a slice of statuses and
returns a brain of that depth with a question picked uniformly at random from
the questions on every question node and a status picked the same way from
the statuses on every outcome node. The index of the returned brain is valid.

It returns an error wrapping tree.ErrInvalidArgument if the depth is not
valid or any of the slices is empty or contains nil values.
*/
func (g *Generator) CreateRandom(depth int, questions []tree.Question, statuses []tree.Status) (*DecisionTreeBrain, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: questions must not be empty", tree.ErrInvalidArgument)
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("%w: statuses must not be empty", tree.ErrInvalidArgument)
	}
	for i, q := range questions {
		if q == nil {
			return nil, fmt.Errorf("%w: question %d is nil", tree.ErrInvalidArgument, i)
		}
	}
	for i, s := range statuses {
		if s == nil {
			return nil, fmt.Errorf("%w: status %d is nil", tree.ErrInvalidArgument, i)
		}
	}
	b, err := New(depth)
	if err != nil {
		return nil, err
	}
	b.RebuildIndex()
	nodeNumber := b.NodeNumber()
	statusNumber := b.StatusNumber()
	for i := 1; i <= nodeNumber; i++ {
		n, err := b.NodeByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("creating random brain: %w", err)
		}
		if n == nil {
			return nil, fmt.Errorf("creating random brain: %w: no node at index %d", tree.ErrCorruptTree, i)
		}
		if i > nodeNumber-statusNumber {
			err = n.SetStatus(statuses[g.rnd.Intn(len(statuses))])
		} else {
			err = n.SetQuestion(questions[g.rnd.Intn(len(questions))])
		}
		if err != nil {
			return nil, fmt.Errorf("creating random brain: node %d: %w", i, err)
		}
	}
	return b, nil
}

/*
Cross takes two brains of the same depth and returns an offspring of
them: a copy of the first brain where the subtree under a random node has
been replaced with a copy of a subtree of the second brain on the same
level. The cut level is picked uniformly between 1 and the depth.

Neither brain is modified. The first one must have every question and
status set. Cross returns an error wrapping tree.ErrInvalidArgument if any
brain is nil, their depths differ or the first brain is not fully set,
and tree.ErrCorruptTree if the second brain is not a full tree.
*/
func (g *Generator) Cross(b1, b2 *DecisionTreeBrain) (*DecisionTreeBrain, error) {
	if b1 == nil || b1.DecisionTree == nil || b2 == nil || b2.DecisionTree == nil {
		return nil, fmt.Errorf("%w: brains to cross must not be nil", tree.ErrInvalidArgument)
	}
	depth := b1.Depth()
	if depth != b2.Depth() {
		return nil, fmt.Errorf("%w: brains to cross must have the same depth, got %d and %d", tree.ErrInvalidArgument, depth, b2.Depth())
	}
	offspring, err := NewWithRoot(depth, b1.Root().Copy())
	if err != nil {
		return nil, fmt.Errorf("crossing brains: copying first brain: %w", err)
	}
	offspring.RebuildIndex()

	level := 1 + g.rnd.Intn(depth)
	current := offspring.Root()
	donorFather := b2.Root()
	for i := 1; i < level; i++ {
		current = current.Traverse(g.coin())
		donorFather = donorFather.Traverse(g.coin())
		if current == nil || donorFather == nil {
			return nil, fmt.Errorf("crossing brains: %w: tree incomplete on level %d", tree.ErrCorruptTree, i)
		}
	}
	donor := donorFather.Traverse(g.coin())
	if donor == nil {
		return nil, fmt.Errorf("crossing brains: %w: tree incomplete on level %d", tree.ErrCorruptTree, level)
	}
	donor = donor.Copy()
	if g.coin() {
		err = current.SetLeftSon(donor)
	} else {
		err = current.SetRightSon(donor)
	}
	if err != nil {
		return nil, fmt.Errorf("crossing brains: grafting subtree on level %d: %w", level, err)
	}
	offspring.RebuildIndex()
	return offspring, nil
}

func (g *Generator) coin() bool {
	return g.rnd.Intn(2) == 0
}
