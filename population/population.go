/*
Package population evolves a population of decision tree brains: every
generation brains are scored with a fitness function, the best half
survives and the rest is replaced by offspring of the survivors.
*/
package population

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/pbanos/evolution/brain"
	"github.com/pbanos/evolution/tree"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

/*
Fitness scores a brain, higher scores being better. It is called
concurrently from several goroutines and must not modify the brain.
*/
type Fitness func(*brain.DecisionTreeBrain) (float64, error)

// Config holds the parameters of a population
type Config struct {
	// Size is the number of brains, at least 2
	Size int
	// Depth is the depth of every brain tree
	Depth int
	// Workers limits the goroutines scoring and breeding brains,
	// one per CPU if not positive
	Workers int
	// Seed for the random choices of the population, taken from the
	// clock if 0
	Seed int64
}

// Option configures a Population
type Option func(*Population)

// WithLogger sets the logger a population reports its progress to
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Population) {
		p.log = l
	}
}

/*
Population is a set of brains of the same depth evolving together.
A Population is not safe for concurrent use.
*/
type Population struct {
	brains     []*brain.DecisionTreeBrain
	depth      int
	workers    int
	generation int
	rnd        *rand.Rand
	log        logrus.FieldLogger
}

/*
Generation summarizes the scoring of a generation of a population
*/
type Generation struct {
	Number    int
	Best      *brain.DecisionTreeBrain
	BestScore float64
	MeanScore float64
}

/*
New takes a Config, a slice of questions and a slice of statuses and returns
a population of random brains built from them, or an error wrapping
tree.ErrInvalidArgument if the config or the slices are not valid.
*/
func New(config Config, questions []tree.Question, statuses []tree.Status, opts ...Option) (*Population, error) {
	if config.Size < 2 {
		return nil, fmt.Errorf("%w: population size must be at least 2, got %d", tree.ErrInvalidArgument, config.Size)
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	discard := logrus.New()
	discard.Out = io.Discard
	p := &Population{
		depth:   config.Depth,
		workers: workers,
		rnd:     rand.New(rand.NewSource(seed)),
		log:     discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	g := brain.NewGenerator(rand.NewSource(p.rnd.Int63()))
	for i := 0; i < config.Size; i++ {
		b, err := g.CreateRandom(config.Depth, questions, statuses)
		if err != nil {
			return nil, fmt.Errorf("creating population brain %d: %w", i, err)
		}
		p.brains = append(p.brains, b)
	}
	p.log.WithFields(logrus.Fields{"size": config.Size, "depth": config.Depth, "seed": seed}).Debug("population created")
	return p, nil
}

// Brains returns the current brains of the population
func (p *Population) Brains() []*brain.DecisionTreeBrain {
	result := make([]*brain.DecisionTreeBrain, len(p.brains))
	copy(result, p.brains)
	return result
}

// Generation returns the number of generations evolved so far
func (p *Population) Generation() int {
	return p.generation
}

// Depth returns the depth of the brains of the population
func (p *Population) Depth() int {
	return p.depth
}

/*
Evolve takes a context and a fitness function and evolves the population one
generation: it scores every brain, keeps the best half and fills the other
half with offspring of random pairs of survivors. It returns the summary of
the scored generation.

If the context is cancelled or the fitness function fails, an error is
returned and the population is left unchanged.
*/
func (p *Population) Evolve(ctx context.Context, fitness Fitness) (*Generation, error) {
	if fitness == nil {
		return nil, fmt.Errorf("%w: fitness cannot be nil", tree.ErrInvalidArgument)
	}
	scores, err := p.score(ctx, fitness)
	if err != nil {
		return nil, fmt.Errorf("scoring generation %d: %w", p.generation, err)
	}
	ranking := make([]int, len(p.brains))
	var total float64
	for i := range ranking {
		ranking[i] = i
		total += scores[i]
	}
	sort.SliceStable(ranking, func(a, b int) bool {
		return scores[ranking[a]] > scores[ranking[b]]
	})
	gen := &Generation{
		Number:    p.generation,
		Best:      p.brains[ranking[0]],
		BestScore: scores[ranking[0]],
		MeanScore: total / float64(len(scores)),
	}

	survivors := (len(p.brains) + 1) / 2
	next := make([]*brain.DecisionTreeBrain, len(p.brains))
	for i := 0; i < survivors; i++ {
		next[i] = p.brains[ranking[i]]
	}
	if err = p.breed(ctx, next[:survivors], next[survivors:]); err != nil {
		return nil, fmt.Errorf("breeding generation %d: %w", p.generation, err)
	}
	p.brains = next
	p.generation++
	p.log.WithFields(logrus.Fields{
		"generation": gen.Number,
		"best":       gen.BestScore,
		"mean":       gen.MeanScore,
	}).Debug("generation evolved")
	return gen, nil
}

/*
Run takes a context, a fitness function and a number of generations and
evolves the population that many generations, returning the summary of the
last one. The context is checked between generations.
*/
func (p *Population) Run(ctx context.Context, fitness Fitness, generations int) (*Generation, error) {
	if generations < 1 {
		return nil, fmt.Errorf("%w: generations must be at least 1, got %d", tree.ErrInvalidArgument, generations)
	}
	var last *Generation
	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gen, err := p.Evolve(ctx, fitness)
		if err != nil {
			return nil, err
		}
		last = gen
	}
	p.log.WithFields(logrus.Fields{
		"generations": generations,
		"best":        last.BestScore,
		"mean":        last.MeanScore,
	}).Info("evolution finished")
	return last, nil
}

func (p *Population) score(ctx context.Context, fitness Fitness) ([]float64, error) {
	scores := make([]float64, len(p.brains))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, b := range p.brains {
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := fitness(b)
			if err != nil {
				return fmt.Errorf("brain %d: %w", i, err)
			}
			scores[i] = s
			return nil
		})
	}
	return scores, g.Wait()
}

// breed fills offspring with crosses of random pairs of parents. Parents
// are shared read-only between workers, every worker has its own
// generator seeded from the population.
func (p *Population) breed(ctx context.Context, parents, offspring []*brain.DecisionTreeBrain) error {
	seeds := make([]int64, len(offspring))
	for i := range seeds {
		seeds[i] = p.rnd.Int63()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rnd := rand.New(rand.NewSource(seed))
			b1 := parents[rnd.Intn(len(parents))]
			b2 := parents[rnd.Intn(len(parents))]
			child, err := brain.NewGenerator(rand.NewSource(rnd.Int63())).Cross(b1, b2)
			if err != nil {
				return fmt.Errorf("offspring %d: %w", i, err)
			}
			offspring[i] = child
			return nil
		})
	}
	return g.Wait()
}
