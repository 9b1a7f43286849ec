package main

import (
	"github.com/charmbracelet/log"
	"github.com/duck-darkIRK/notepad-advise/pkg/config"
	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOpts holds the flags shared by every command
type globalOpts struct {
	verbose    bool
	configPath string
}

func newRootCmd() *cobra.Command {
	globals := &globalOpts{}

	root := &cobra.Command{
		Use:          "notepad-advise",
		Short:        "Plan the phases in which the remaining subjects of a curriculum can be taken",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if globals.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "enable verbose logging, including the search engine's")
	root.PersistentFlags().StringVarP(&globals.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(newGenerateCmd(globals))
	root.AddCommand(newBatchCmd(globals))
	root.AddCommand(newCheckCmd())

	return root
}

// searchFlags are the config values a command line may override
type searchFlags struct {
	minWeight       uint64
	maxWeight       uint64
	includeOptional bool
	policy          string
	fallback        string
	seed            uint64
}

func addSearchFlags(cmd *cobra.Command, flags *searchFlags) {
	defaults := config.Default()
	cmd.Flags().Uint64Var(&flags.minWeight, "min", defaults.MinWeight, "minimum credits of a phase")
	cmd.Flags().Uint64Var(&flags.maxWeight, "max", defaults.MaxWeight, "maximum credits of a phase")
	cmd.Flags().BoolVar(&flags.includeOptional, "include-optional", defaults.IncludeOptional, "plan optional subjects too")
	cmd.Flags().StringVar(&flags.policy, "policy", defaults.Policy, `selection policy: "random" (one path) or "exhaustive" (every path)`)
	cmd.Flags().StringVar(&flags.fallback, "fallback", defaults.Fallback, `what to do when no grouping fits the range: "take-remaining" or "fail"`)
	cmd.Flags().Uint64Var(&flags.seed, "seed", defaults.Seed, "seed of the random policy, 0 picks a new one on every run")
}

// loadConfig reads the config file and applies the flags that were explicitly set
func loadConfig(cmd *cobra.Command, globals *globalOpts, flags *searchFlags) (config.Config, error) {
	cfg, err := config.Load(globals.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("min") {
		cfg.MinWeight = flags.minWeight
	}
	if changed("max") {
		cfg.MaxWeight = flags.maxWeight
	}
	if changed("include-optional") {
		cfg.IncludeOptional = flags.includeOptional
	}
	if changed("policy") {
		cfg.Policy = flags.policy
	}
	if changed("fallback") {
		cfg.Fallback = flags.fallback
	}
	if changed("seed") {
		cfg.Seed = flags.seed
	}

	return cfg, cfg.Validate()
}

// newPathfinder builds the pathfinder described by the config
func newPathfinder(cfg config.Config, verbose bool) (model.Pathfinder, *zap.Logger, error) {
	policy, err := cfg.SelectionPolicy()
	if err != nil {
		return nil, nil, err
	}

	engineLogger := newEngineLogger(verbose)
	options, err := cfg.Options(engineLogger)
	if err != nil {
		return nil, nil, err
	}
	return model.NewPathfinder(policy, options...), engineLogger, nil
}
