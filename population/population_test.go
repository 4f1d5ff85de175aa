package population

import (
	"context"
	"errors"
	"testing"

	"github.com/pbanos/evolution/brain"
	"github.com/pbanos/evolution/catalog"
	"github.com/pbanos/evolution/tree"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	energy    = catalog.ThresholdQuestion{Property: "energy", Threshold: 0.5}
	questions = []tree.Question{energy, catalog.EqualityQuestion{Property: "mood", Value: "calm"}}
	statuses  = []tree.Status{catalog.NamedStatus("eat"), catalog.NamedStatus("rest")}
	// rest when energy is above 0.5, eat otherwise
	cases = []catalog.Case{
		{Sample: catalog.Sample{"energy": 0.1, "mood": "calm"}, Expected: catalog.NamedStatus("eat")},
		{Sample: catalog.Sample{"energy": 0.3}, Expected: catalog.NamedStatus("eat")},
		{Sample: catalog.Sample{"energy": 0.7}, Expected: catalog.NamedStatus("rest")},
		{Sample: catalog.Sample{"energy": 0.9, "mood": "calm"}, Expected: catalog.NamedStatus("rest")},
	}
)

func successRate(b *brain.DecisionTreeBrain) (float64, error) {
	return catalog.SuccessRate(b, cases)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Size: 1, Depth: 2}, questions, statuses)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
	_, err = New(Config{Size: 4, Depth: 0}, questions, statuses)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
	_, err = New(Config{Size: 4, Depth: 2}, nil, statuses)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)
}

func TestNewCreatesRandomBrains(t *testing.T) {
	p, err := New(Config{Size: 6, Depth: 3, Seed: 1}, questions, statuses)
	require.NoError(t, err)
	require.Len(t, p.Brains(), 6)
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, 0, p.Generation())
	for _, b := range p.Brains() {
		assert.Equal(t, 3, b.Depth())
		ok, err := b.IsInitialized()
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestEvolveKeepsBestHalf(t *testing.T) {
	p, err := New(Config{Size: 7, Depth: 2, Workers: 3, Seed: 2}, questions, statuses)
	require.NoError(t, err)
	before := p.Brains()
	scores := make(map[*brain.DecisionTreeBrain]float64)
	for i, b := range before {
		scores[b] = float64(i)
	}

	gen, err := p.Evolve(context.Background(), func(b *brain.DecisionTreeBrain) (float64, error) {
		return scores[b], nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, gen.Number)
	assert.Same(t, before[6], gen.Best)
	assert.Equal(t, 6.0, gen.BestScore)
	assert.InDelta(t, 3.0, gen.MeanScore, 1e-9)
	assert.Equal(t, 1, p.Generation())

	after := p.Brains()
	require.Len(t, after, 7)
	for i := 0; i < 4; i++ {
		assert.Same(t, before[6-i], after[i])
	}
	for _, b := range after[4:] {
		_, known := scores[b]
		assert.False(t, known)
		assert.Equal(t, 2, b.Depth())
		assert.True(t, b.IndexValid())
	}
}

func TestEvolveErrors(t *testing.T) {
	p, err := New(Config{Size: 4, Depth: 2, Seed: 3}, questions, statuses)
	require.NoError(t, err)
	before := p.Brains()

	_, err = p.Evolve(context.Background(), nil)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)

	failure := errors.New("cannot score")
	_, err = p.Evolve(context.Background(), func(*brain.DecisionTreeBrain) (float64, error) {
		return 0, failure
	})
	assert.ErrorIs(t, err, failure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Evolve(ctx, successRate)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, before, p.Brains())
	assert.Equal(t, 0, p.Generation())
}

func TestRun(t *testing.T) {
	p, err := New(Config{Size: 30, Depth: 1, Seed: 4}, questions, statuses)
	require.NoError(t, err)

	var best float64
	for i := 0; i < 20; i++ {
		gen, err := p.Evolve(context.Background(), successRate)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, gen.BestScore, best)
		best = gen.BestScore
	}
	assert.Equal(t, 1.0, best)

	gen, err := p.Run(context.Background(), successRate, 3)
	require.NoError(t, err)
	assert.Equal(t, 22, gen.Number)
	assert.Equal(t, 1.0, gen.BestScore)
	assert.Equal(t, 23, p.Generation())
}

func TestRunErrors(t *testing.T) {
	p, err := New(Config{Size: 4, Depth: 2, Seed: 5}, questions, statuses)
	require.NoError(t, err)
	_, err = p.Run(context.Background(), successRate, 0)
	assert.ErrorIs(t, err, tree.ErrInvalidArgument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, successRate, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunIsDeterministicForASeed(t *testing.T) {
	run := func() string {
		p, err := New(Config{Size: 10, Depth: 3, Workers: 4, Seed: 6}, questions, statuses)
		require.NoError(t, err)
		gen, err := p.Run(context.Background(), successRate, 5)
		require.NoError(t, err)
		return gen.Best.String()
	}
	assert.Equal(t, run(), run())
}

func TestLogsProgress(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	p, err := New(Config{Size: 4, Depth: 2, Seed: 7}, questions, statuses, WithLogger(logger))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), successRate, 2)
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, "population created", entries[0].Message)
	assert.Equal(t, 1, entries[2].Data["generation"])
	assert.Equal(t, "evolution finished", hook.LastEntry().Message)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}
