package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evolution",
		Short: "evolution is a tool to grow decision tree brains",
		Long:  `A tool to create decision tree brains at random, cross them and evolve them against the cases of a catalog`,
	}
	config := &rootCmdConfig{v: viper.New()}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YML, JSON or TOML file with values for any flag")
	rootCmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for random choices (defaults to 0: taken from the clock)")
	rootCmd.AddCommand(versionCmd(), randomCmd(config), crossCmd(config), evolveCmd(config))
	return rootCmd
}
