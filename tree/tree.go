package tree

import (
	"fmt"
	"strings"
)

// MaxDepth is the deepest tree that can be built
const MaxDepth = 30

/*
DecisionTree represents a full binary decision tree of uniform depth: the
nodes on levels 0 to depth-1 are question nodes (the one on level 0 being
the root) and the nodes on level depth are outcome nodes.

The tree can keep an index of its nodes by level-order position, starting
at 1 for the root, where the sons of the node at position i are at 2i and
2i+1. The index is built by RebuildIndex and becomes stale as soon as the
links of any indexed node change; lookups on a stale index fail until it
is rebuilt.

A DecisionTree is not safe for concurrent mutation. Concurrent reads, such
as applying it or crossing it, are safe while nothing mutates it.
*/
type DecisionTree struct {
	root       *Node
	depth      int
	index      []*Node
	indexValid bool
	indexedAt  uint64
	topology   *topology
}

/*
New takes a depth and returns a tree of that depth with all its nodes
in place but no questions or statuses set. It returns an error wrapping
ErrInvalidArgument if the depth is not between 1 and MaxDepth.
*/
func New(depth int) (*DecisionTree, error) {
	if err := validDepth(depth); err != nil {
		return nil, err
	}
	root := NewRootQuestionNode()
	root.link(true, generate(1, depth))
	root.link(false, generate(1, depth))
	return newTree(depth, root), nil
}

func generate(level, depth int) *Node {
	if level == depth {
		return NewOutcomeNode()
	}
	n := NewQuestionNode()
	n.link(true, generate(level+1, depth))
	n.link(false, generate(level+1, depth))
	return n
}

/*
NewWithRoot takes a depth and a root node and returns a tree of the given
depth on that root. The root must be a detached root node on a full tree of
exactly that depth with every question and status set, otherwise an error
wrapping ErrInvalidArgument is returned. A root already held by another tree
is rejected too: pass root.Copy() to build a tree on the same decisions.
*/
func NewWithRoot(depth int, root *Node) (*DecisionTree, error) {
	if err := validDepth(depth); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("%w: root cannot be nil", ErrInvalidArgument)
	}
	if root.kind != RootNode {
		return nil, fmt.Errorf("%w: expected a root node, got a %v node", ErrInvalidArgument, root.kind)
	}
	if root.topology != nil {
		return nil, fmt.Errorf("%w: root belongs to another tree", ErrInvalidArgument)
	}
	if err := checkShape(root, 0, depth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return newTree(depth, root), nil
}

func newTree(depth int, root *Node) *DecisionTree {
	t := &DecisionTree{root: root, depth: depth, topology: &topology{}}
	t.Traverse(false, func(n *Node) error {
		n.topology = t.topology
		return nil
	})
	return t
}

func validDepth(depth int) error {
	if depth <= 0 {
		return fmt.Errorf("%w: depth must be greater than 0, got %d", ErrInvalidArgument, depth)
	}
	if depth > MaxDepth {
		return fmt.Errorf("%w: depth must not exceed %d, got %d", ErrInvalidArgument, MaxDepth, depth)
	}
	return nil
}

func checkShape(n *Node, level, depth int) error {
	if level == depth {
		if n.kind != OutcomeNode {
			return fmt.Errorf("expected an outcome node on level %d, got a %v node", level, n.kind)
		}
		if n.status == nil {
			return fmt.Errorf("outcome node on level %d has no status", level)
		}
		return nil
	}
	if !n.routes() || (level > 0 && n.kind == RootNode) {
		return fmt.Errorf("expected a question node on level %d, got a %v node", level, n.kind)
	}
	if !n.IsInitialized() {
		return fmt.Errorf("question node on level %d is not initialized", level)
	}
	if err := checkShape(n.leftSon, level+1, depth); err != nil {
		return err
	}
	return checkShape(n.rightSon, level+1, depth)
}

// Root returns the root node of the tree
func (t *DecisionTree) Root() *Node {
	return t.root
}

// Depth returns the number of levels under the root
func (t *DecisionTree) Depth() int {
	return t.depth
}

// NodeNumber returns the number of nodes in the tree, 2^(depth+1)-1
func (t *DecisionTree) NodeNumber() int {
	return 1<<(t.depth+1) - 1
}

// StatusNumber returns the number of outcome nodes in the tree, 2^depth
func (t *DecisionTree) StatusNumber() int {
	return 1 << t.depth
}

/*
RebuildIndex goes through the tree breadth-first and indexes every node
under its level-order position. Slots for missing nodes are left empty.
After it the index is valid until the links of an indexed node change.
*/
func (t *DecisionTree) RebuildIndex() {
	type entry struct {
		n   *Node
		pos int
	}
	size := t.NodeNumber()
	index := make([]*Node, size+1)
	queue := []entry{{t.root, 1}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.n == nil || e.pos > size {
			continue
		}
		index[e.pos] = e.n
		e.n.topology = t.topology
		queue = append(queue, entry{e.n.leftSon, 2 * e.pos}, entry{e.n.rightSon, 2*e.pos + 1})
	}
	t.index = index
	t.indexedAt = t.topology.version
	t.indexValid = true
}

// IndexValid returns whether the index has been built and no link of an
// indexed node has changed since.
func (t *DecisionTree) IndexValid() bool {
	return t.indexValid && t.indexedAt == t.topology.version
}

/*
NodeByIndex takes a level-order position and returns the node on it. It
returns nil if the position is beyond the last node of the tree, an error
wrapping ErrInvalidArgument if it is lower than 1 and an error wrapping
ErrInvalidState if the index is not valid.
*/
func (t *DecisionTree) NodeByIndex(i int) (*Node, error) {
	if i < 1 {
		return nil, fmt.Errorf("%w: node index must be at least 1, got %d", ErrInvalidArgument, i)
	}
	if !t.IndexValid() {
		return nil, fmt.Errorf("%w: tree index must be rebuilt", ErrInvalidState)
	}
	if i >= len(t.index) {
		return nil, nil
	}
	return t.index[i], nil
}

/*
IsInitialized returns whether every node of the tree is initialized, or an
error wrapping ErrInvalidState if the index is not valid.
*/
func (t *DecisionTree) IsInitialized() (bool, error) {
	if !t.IndexValid() {
		return false, fmt.Errorf("%w: tree index must be rebuilt", ErrInvalidState)
	}
	for i := 1; i <= t.NodeNumber(); i++ {
		n := t.index[i]
		if n == nil || !n.IsInitialized() {
			return false, nil
		}
	}
	return true, nil
}

/*
Apply takes an answerer and walks the tree from the root, asking the
answerer the question of every node on the way, until it reaches an
outcome node. It returns the status on that node.

It returns an error wrapping ErrInvalidArgument if the answerer is nil,
ErrInvalidState if a question or the reached status is not set and
ErrCorruptTree if the walk reaches a plain node, ends before an outcome
node or goes deeper than the tree depth.
*/
func (t *DecisionTree) Apply(a Answerer) (Status, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: answerer cannot be nil", ErrInvalidArgument)
	}
	n := t.root
	for level := 0; ; level++ {
		if n.kind == OutcomeNode {
			if n.status == nil {
				return nil, fmt.Errorf("%w: outcome node on level %d has no status", ErrInvalidState, level)
			}
			return n.status, nil
		}
		if n.kind == PlainNode {
			return nil, fmt.Errorf("%w: plain node on level %d", ErrCorruptTree, level)
		}
		if level == t.depth {
			return nil, fmt.Errorf("%w: no outcome node on level %d", ErrCorruptTree, level)
		}
		next, err := n.Next(a)
		if err != nil {
			return nil, fmt.Errorf("applying tree on level %d: %w", level, err)
		}
		if next == nil {
			return nil, fmt.Errorf("%w: dead end on level %d", ErrCorruptTree, level)
		}
		n = next
	}
}

// Traverse takes a bottomup boolean and an error-returning function
// and goes through the tree calling the function with every node.
// Traverse will call the function with a parent node before
// calling it for its sons if bottomup is false, and after them
// if it is true. If the function returns an error, the traversing
// is aborted and the error is returned.
func (t *DecisionTree) Traverse(bottomup bool, f func(*Node) error) error {
	return traverse(t.root, bottomup, f)
}

func traverse(n *Node, bottomup bool, f func(*Node) error) error {
	if n == nil {
		return nil
	}
	if !bottomup {
		if err := f(n); err != nil {
			return err
		}
	}
	if err := traverse(n.leftSon, bottomup, f); err != nil {
		return err
	}
	if err := traverse(n.rightSon, bottomup, f); err != nil {
		return err
	}
	if bottomup {
		return f(n)
	}
	return nil
}

func (t *DecisionTree) String() string {
	return subtreeString(t.root, 1)
}

func subtreeString(n *Node, pos int) string {
	result := fmt.Sprintf("[%d] %v\n", pos, n)
	var sons []*Node
	var positions []int
	for i, s := range []*Node{n.leftSon, n.rightSon} {
		if s != nil {
			sons = append(sons, s)
			positions = append(positions, 2*pos+i)
		}
	}
	for i, s := range sons {
		branch := "no"
		if positions[i]%2 == 1 {
			branch = "yes"
		}
		for j, line := range strings.Split(subtreeString(s, positions[i]), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s: %s\n", result, branch, line)
			case i == len(sons)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
