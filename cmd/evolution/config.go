package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pbanos/evolution/brain"
	"github.com/pbanos/evolution/catalog"
	"github.com/pbanos/evolution/catalog/yaml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "EVOLUTION"

type rootCmdConfig struct {
	verbose    bool
	configFile string
	seed       int64
	v          *viper.Viper
	log        *logrus.Logger
}

// load binds the flags of the running command to viper, along with the
// environment and the config file if any, and reads the root values back.
func (rcc *rootCmdConfig) load(cmd *cobra.Command) error {
	if err := rcc.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %v", err)
	}
	rcc.v.SetEnvPrefix(envPrefix)
	rcc.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	rcc.v.AutomaticEnv()
	if rcc.configFile != "" {
		rcc.v.SetConfigFile(rcc.configFile)
		if err := rcc.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %v", rcc.configFile, err)
		}
	}
	rcc.verbose = rcc.v.GetBool("verbose")
	rcc.seed = rcc.v.GetInt64("seed")
	rcc.log = newLogger(rcc.verbose)
	return nil
}

func (rcc *rootCmdConfig) logger() *logrus.Logger {
	if rcc.log == nil {
		rcc.log = newLogger(rcc.verbose)
	}
	return rcc.log
}

func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	rcc.logger().Debugf(format, a...)
}

// randomSeed returns the configured seed, or one taken from the clock
func (rcc *rootCmdConfig) randomSeed() int64 {
	if rcc.seed != 0 {
		return rcc.seed
	}
	rcc.seed = time.Now().UnixNano()
	rcc.Logf("Using random seed %d", rcc.seed)
	return rcc.seed
}

func (rcc *rootCmdConfig) generator() *brain.Generator {
	return brain.NewGenerator(rand.NewSource(rcc.randomSeed()))
}

// catalogCmdConfig holds the flags shared by commands building brains
// from a catalog
type catalogCmdConfig struct {
	*rootCmdConfig
	catalogInput string
	depth        int
}

func (ccc *catalogCmdConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&(ccc.catalogInput), "catalog", "c", "", "path to a YML file with the questions, statuses and cases brains are built from and evaluated against (required)")
	cmd.Flags().IntVarP(&(ccc.depth), "depth", "d", 3, "depth of the brain trees")
}

func (ccc *catalogCmdConfig) load(cmd *cobra.Command) error {
	if err := ccc.rootCmdConfig.load(cmd); err != nil {
		return err
	}
	ccc.catalogInput = ccc.v.GetString("catalog")
	ccc.depth = ccc.v.GetInt("depth")
	return nil
}

func (ccc *catalogCmdConfig) Validate() error {
	if ccc.catalogInput == "" {
		return fmt.Errorf("required catalog flag was not set")
	}
	if ccc.depth <= 0 {
		return fmt.Errorf("depth must be greater than 0, got %d", ccc.depth)
	}
	return nil
}

func (ccc *catalogCmdConfig) readCatalog() (*catalog.Catalog, error) {
	ccc.Logf("Reading catalog from %s...", ccc.catalogInput)
	c, err := yaml.ReadCatalogFromFile(ccc.catalogInput)
	if err != nil {
		return nil, err
	}
	ccc.Logf("Catalog read: %d questions, %d statuses and %d cases", len(c.Questions), len(c.Statuses), len(c.Cases))
	return c, nil
}
