package brain

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/pbanos/evolution/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type question string

func (q question) String() string { return string(q) }

type status string

func (s status) String() string { return string(s) }

var _ Brain = &DecisionTreeBrain{}

func questions(qs ...string) []tree.Question {
	result := make([]tree.Question, len(qs))
	for i, q := range qs {
		result[i] = question(q)
	}
	return result
}

func statuses(ss ...string) []tree.Status {
	result := make([]tree.Status, len(ss))
	for i, s := range ss {
		result[i] = status(s)
	}
	return result
}

func seeded(seed int64) *Generator {
	return NewGenerator(rand.NewSource(seed))
}

type snapshot struct {
	node                      *tree.Node
	father, leftSon, rightSon *tree.Node
	question                  tree.Question
	status                    tree.Status
}

func takeSnapshot(t *testing.T, b *DecisionTreeBrain) []snapshot {
	var result []snapshot
	require.NoError(t, b.Traverse(false, func(n *tree.Node) error {
		result = append(result, snapshot{n, n.Father(), n.LeftSon(), n.RightSon(), n.Question(), n.Status()})
		return nil
	}))
	return result
}

func nodeSet(t *testing.T, b *DecisionTreeBrain) map[*tree.Node]bool {
	result := make(map[*tree.Node]bool)
	require.NoError(t, b.Traverse(false, func(n *tree.Node) error {
		result[n] = true
		return nil
	}))
	return result
}

func TestDecideAppliesTree(t *testing.T) {
	b, err := New(1)
	require.NoError(t, err)
	require.NoError(t, b.Root().SetQuestion(question("Q0")))
	require.NoError(t, b.Root().LeftSon().SetStatus(status("S_false")))
	require.NoError(t, b.Root().RightSon().SetStatus(status("S_true")))

	s, err := b.Decide(tree.AnswererFunc(func(tree.Question) bool { return false }))
	require.NoError(t, err)
	assert.Equal(t, status("S_false"), s)
	s, err = b.Decide(tree.AnswererFunc(func(tree.Question) bool { return true }))
	require.NoError(t, err)
	assert.Equal(t, status("S_true"), s)
	_, err = b.Decide(nil)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
}

func TestCreateRandomRejectsInvalidArguments(t *testing.T) {
	g := seeded(1)
	qs, ss := questions("a"), statuses("x")
	cases := map[string]func() error{
		"zero depth":      func() error { _, err := g.CreateRandom(0, qs, ss); return err },
		"negative depth":  func() error { _, err := g.CreateRandom(-2, qs, ss); return err },
		"nil questions":   func() error { _, err := g.CreateRandom(2, nil, ss); return err },
		"empty statuses":  func() error { _, err := g.CreateRandom(2, qs, []tree.Status{}); return err },
		"nil question":    func() error { _, err := g.CreateRandom(2, []tree.Question{question("a"), nil}, ss); return err },
		"nil status":      func() error { _, err := g.CreateRandom(2, qs, []tree.Status{nil}); return err },
		"package default": func() error { _, err := CreateRandom(0, qs, ss); return err },
	}
	for name, f := range cases {
		assert.ErrorIs(t, f(), tree.ErrInvalidArgument, name)
	}
}

func TestCreateRandomDrawsFromGivenValues(t *testing.T) {
	qs, ss := questions("a", "b", "c"), statuses("x", "y")
	for depth := 1; depth <= 5; depth++ {
		b, err := seeded(int64(depth)).CreateRandom(depth, qs, ss)
		require.NoError(t, err)
		require.True(t, b.IndexValid())
		ok, err := b.IsInitialized()
		require.NoError(t, err)
		assert.True(t, ok)

		for i := 1; i <= b.NodeNumber(); i++ {
			n, err := b.NodeByIndex(i)
			require.NoError(t, err)
			if i > b.NodeNumber()-b.StatusNumber() {
				assert.Equal(t, tree.OutcomeNode, n.Kind())
				assert.Contains(t, ss, n.Status())
			} else {
				assert.Contains(t, qs, n.Question())
			}
		}
	}
}

func TestCreateRandomCoversEveryValue(t *testing.T) {
	qs, ss := questions("a", "b", "c"), statuses("x", "y", "z")
	g := seeded(42)
	for _, depth := range []int{1, 2, 3} {
		seenQ := map[tree.Question]bool{}
		seenS := map[tree.Status]bool{}
		for run := 0; run < 200; run++ {
			b, err := g.CreateRandom(depth, qs, ss)
			require.NoError(t, err)
			require.NoError(t, b.Traverse(false, func(n *tree.Node) error {
				if n.Kind() == tree.OutcomeNode {
					seenS[n.Status()] = true
				} else {
					seenQ[n.Question()] = true
				}
				return nil
			}))
		}
		assert.Len(t, seenQ, len(qs), "depth %d", depth)
		assert.Len(t, seenS, len(ss), "depth %d", depth)
	}
}

func TestCreateRandomIsDeterministicForASource(t *testing.T) {
	qs, ss := questions("a", "b", "c", "d"), statuses("x", "y", "z")
	b1, err := seeded(7).CreateRandom(4, qs, ss)
	require.NoError(t, err)
	b2, err := seeded(7).CreateRandom(4, qs, ss)
	require.NoError(t, err)
	assert.Equal(t, b1.String(), b2.String())
}

func TestCrossRejectsInvalidArguments(t *testing.T) {
	g := seeded(3)
	b2, err := g.CreateRandom(2, questions("a"), statuses("x"))
	require.NoError(t, err)
	b3, err := g.CreateRandom(3, questions("a"), statuses("x"))
	require.NoError(t, err)
	empty, err := New(2)
	require.NoError(t, err)

	_, err = g.Cross(nil, b2)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
	_, err = g.Cross(b2, nil)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
	_, err = g.Cross(b2, &DecisionTreeBrain{})
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
	_, err = g.Cross(b2, b3)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
	_, err = g.Cross(empty, b2)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
}

func TestCrossKeepsShapeAndParents(t *testing.T) {
	g := seeded(11)
	for depth := 1; depth <= 6; depth++ {
		b1, err := g.CreateRandom(depth, questions("a1", "b1"), statuses("x1", "y1"))
		require.NoError(t, err)
		b2, err := g.CreateRandom(depth, questions("a2", "b2"), statuses("x2", "y2"))
		require.NoError(t, err)
		before1, before2 := takeSnapshot(t, b1), takeSnapshot(t, b2)

		for run := 0; run < 20; run++ {
			offspring, err := g.Cross(b1, b2)
			require.NoError(t, err)
			assert.Equal(t, depth, offspring.Depth())
			assert.Equal(t, b1.NodeNumber(), offspring.NodeNumber())
			require.True(t, offspring.IndexValid())
			ok, err := offspring.IsInitialized()
			require.NoError(t, err)
			assert.True(t, ok)
			_, err = tree.NewWithRoot(depth, offspring.Root().Copy())
			assert.NoError(t, err)

			nodes1, nodes2 := nodeSet(t, b1), nodeSet(t, b2)
			require.NoError(t, offspring.Traverse(false, func(n *tree.Node) error {
				assert.False(t, nodes1[n])
				assert.False(t, nodes2[n])
				return nil
			}))
		}
		assert.Equal(t, before1, takeSnapshot(t, b1))
		assert.Equal(t, before2, takeSnapshot(t, b2))
	}
}

func TestCrossGraftsSubtreeOfSecondBrain(t *testing.T) {
	g := seeded(5)
	b1, err := g.CreateRandom(1, questions("first"), statuses("first"))
	require.NoError(t, err)
	b2, err := g.CreateRandom(1, questions("second"), statuses("second"))
	require.NoError(t, err)

	for run := 0; run < 20; run++ {
		offspring, err := g.Cross(b1, b2)
		require.NoError(t, err)
		assert.Equal(t, question("first"), offspring.Root().Question())
		leaves := []tree.Status{offspring.Root().LeftSon().Status(), offspring.Root().RightSon().Status()}
		assert.ElementsMatch(t, statuses("first", "second"), leaves)
	}
}

func TestCrossMixesBrains(t *testing.T) {
	g := seeded(9)
	b1, err := g.CreateRandom(4, questions("first"), statuses("first"))
	require.NoError(t, err)
	b2, err := g.CreateRandom(4, questions("second"), statuses("second"))
	require.NoError(t, err)

	for run := 0; run < 50; run++ {
		offspring, err := g.Cross(b1, b2)
		require.NoError(t, err)
		assert.Equal(t, question("first"), offspring.Root().Question())

		// exactly one subtree comes from the second brain
		var graftRoots int
		require.NoError(t, offspring.Traverse(false, func(n *tree.Node) error {
			fromSecond := n.Question() == question("second") || n.Status() == status("second")
			fatherFromFirst := n.Father() != nil && n.Father().Question() == question("first")
			if fromSecond && fatherFromFirst {
				graftRoots++
			}
			return nil
		}))
		assert.Equal(t, 1, graftRoots)
	}
}

func TestConcurrentCrossesOfSharedParents(t *testing.T) {
	b1, err := CreateRandom(5, questions("a", "b"), statuses("x", "y"))
	require.NoError(t, err)
	b2, err := CreateRandom(5, questions("c", "d"), statuses("z"))
	require.NoError(t, err)
	before1, before2 := takeSnapshot(t, b1), takeSnapshot(t, b2)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Cross(b1, b2)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, before1, takeSnapshot(t, b1))
	assert.Equal(t, before2, takeSnapshot(t, b2))
}
