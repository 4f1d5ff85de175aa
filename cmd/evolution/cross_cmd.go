package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func crossCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &catalogCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "cross",
		Short: "Cross two random brains",
		Long:  `Create two brains at random with the questions and statuses of a catalog, cross them and print the parents and their offspring`,
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
			g := config.generator()
			config.Logf("Creating random parents of depth %d...", config.depth)
			p1, err := g.CreateRandom(config.depth, c.Questions, c.Statuses)
			if err != nil {
				fmt.Fprintf(os.Stderr, "creating first parent: %v\n", err)
				os.Exit(3)
			}
			p2, err := g.CreateRandom(config.depth, c.Questions, c.Statuses)
			if err != nil {
				fmt.Fprintf(os.Stderr, "creating second parent: %v\n", err)
				os.Exit(3)
			}
			config.Logf("Crossing parents...")
			offspring, err := g.Cross(p1, p2)
			if err != nil {
				fmt.Fprintf(os.Stderr, "crossing brains: %v\n", err)
				os.Exit(4)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parent 1:\n%v\nParent 2:\n%v\nOffspring:\n%v", p1, p2, offspring)
		},
	}
	config.addFlags(cmd)
	return cmd
}
