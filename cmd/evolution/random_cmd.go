package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func randomCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &catalogCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random brain",
		Long:  `Create a brain at random with the questions and statuses of a catalog and print it`,
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
			config.Logf("Creating random brain of depth %d...", config.depth)
			b, err := config.generator().CreateRandom(config.depth, c.Questions, c.Statuses)
			if err != nil {
				fmt.Fprintf(os.Stderr, "creating random brain: %v\n", err)
				os.Exit(3)
			}
			fmt.Fprint(cmd.OutOrStdout(), b)
		},
	}
	config.addFlags(cmd)
	return cmd
}
