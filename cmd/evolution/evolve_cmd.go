package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pbanos/evolution/brain"
	"github.com/pbanos/evolution/catalog"
	"github.com/pbanos/evolution/population"
	"github.com/spf13/cobra"
)

type evolveCmdConfig struct {
	catalogCmdConfig
	size        int
	generations int
	workers     int
	sample      []string
}

func evolveCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &evolveCmdConfig{catalogCmdConfig: catalogCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Evolve a population of brains against the cases of a catalog",
		Long:  `Evolve a population of random brains for some generations, scoring them by the share of the catalog cases they decide as expected, and print the best brain`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.load(cmd)
			if err == nil {
				err = config.Validate()
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			c, err := config.readCatalog()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if len(c.Cases) == 0 {
				fmt.Fprintf(os.Stderr, "catalog %s has no cases to evolve against\n", config.catalogInput)
				os.Exit(2)
			}
			sample, err := parseSample(config.sample)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			gen, err := config.evolve(ctx, c)
			if err != nil {
				fmt.Fprintf(os.Stderr, "evolving brains: %v\n", err)
				os.Exit(3)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Best brain of generation %d scored %.4f (mean %.4f)\n%v", gen.Number, gen.BestScore, gen.MeanScore, gen.Best)
			if sample != nil {
				s, err := gen.Best.Decide(sample)
				if err != nil {
					fmt.Fprintf(os.Stderr, "deciding for sample %v: %v\n", sample, err)
					os.Exit(4)
				}
				fmt.Fprintf(out, "Decision for sample %v: %v\n", sample, s)
			}
		},
	}
	config.addFlags(cmd)
	cmd.Flags().IntVarP(&(config.size), "size", "n", 50, "number of brains in the population")
	cmd.Flags().IntVarP(&(config.generations), "generations", "g", 100, "number of generations to evolve")
	cmd.Flags().IntVarP(&(config.workers), "workers", "w", 0, "limit to goroutines scoring and breeding brains (defaults to 0: one per CPU)")
	cmd.Flags().StringSliceVarP(&(config.sample), "sample", "s", nil, "property=value pairs of a sample for the best brain to decide on, numeric values are parsed as numbers")
	return cmd
}

func (ecc *evolveCmdConfig) load(cmd *cobra.Command) error {
	if err := ecc.catalogCmdConfig.load(cmd); err != nil {
		return err
	}
	ecc.size = ecc.v.GetInt("size")
	ecc.generations = ecc.v.GetInt("generations")
	ecc.workers = ecc.v.GetInt("workers")
	ecc.sample = nil
	// values from the environment arrive as one comma separated string
	for _, pairs := range ecc.v.GetStringSlice("sample") {
		for _, pair := range strings.Split(pairs, ",") {
			if pair = strings.TrimSpace(pair); pair != "" {
				ecc.sample = append(ecc.sample, pair)
			}
		}
	}
	return nil
}

func (ecc *evolveCmdConfig) Validate() error {
	if err := ecc.catalogCmdConfig.Validate(); err != nil {
		return err
	}
	if ecc.size < 2 {
		return fmt.Errorf("size must be at least 2, got %d", ecc.size)
	}
	if ecc.generations < 1 {
		return fmt.Errorf("generations must be at least 1, got %d", ecc.generations)
	}
	return nil
}

func (ecc *evolveCmdConfig) evolve(ctx context.Context, c *catalog.Catalog) (*population.Generation, error) {
	p, err := population.New(population.Config{
		Size:    ecc.size,
		Depth:   ecc.depth,
		Workers: ecc.workers,
		Seed:    ecc.randomSeed(),
	}, c.Questions, c.Statuses, population.WithLogger(ecc.logger()))
	if err != nil {
		return nil, err
	}
	ecc.Logf("Evolving %d brains of depth %d for %d generations...", ecc.size, ecc.depth, ecc.generations)
	return p.Run(ctx, func(b *brain.DecisionTreeBrain) (float64, error) {
		return catalog.SuccessRate(b, c.Cases)
	}, ecc.generations)
}

// parseSample takes property=value pairs and returns a sample with them,
// or nil if there are none
func parseSample(pairs []string) (catalog.Sample, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("invalid sample value %q, expected property=value", pair)
		}
		if f, err := strconv.ParseFloat(kv[1], 64); err == nil {
			values[kv[0]] = f
		} else {
			values[kv[0]] = kv[1]
		}
	}
	return catalog.NewSample(values)
}
