package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/llama-csr/internal/logging"
	"github.com/katalvlaran/llama-csr/llamagraph"
)

// newCLILogger wires internal/logging.New the same way llamagraph.Graph
// itself would, at the given level, writing to stderr.
func newCLILogger(level zerolog.Level) zerolog.Logger {
	return logging.New(nil, level, "llamactl", "cli")
}

// openFunc opens the database directory selected by root's persistent
// flags, returning a ready-to-query Graph and the logger it was built
// with. Each subcommand receives one from rootCmd's closure instead of
// reaching for package-level flag variables.
type openFunc func() (*llamagraph.Graph, zerolog.Logger, error)

// rootCmd builds the command tree fresh on every call, rather than relying
// on package-level cobra.Command variables mutated from init() the way
// junjiewwang-perf-analysis/cmd/cli/cmd does — this keeps llamactl free of
// the package-scoped mutable state the rest of this module avoids too.
func rootCmd() *cobra.Command {
	var cfgFile, dbDir, logLevel string

	root := &cobra.Command{
		Use:   "llamactl",
		Short: "Inspect a persisted llama-csr graph database",
		Long: `llamactl opens a database directory written by llamagraph.Graph.Save
and prints what is there: level sizes, degree of a given node, and the
registered property columns. It never writes to the directory it opens.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a llamactl.yaml config file")
	root.PersistentFlags().StringVar(&dbDir, "db", "", "database directory to open (overrides the config file's db_dir)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "zerolog level: debug, info, warn, error (overrides the config file's log_level)")

	open := openFunc(func() (*llamagraph.Graph, zerolog.Logger, error) {
		cfg, err := loadCLIConfig(cfgFile)
		if err != nil {
			return nil, zerolog.Logger{}, err
		}
		if dbDir != "" {
			cfg.DBDir = dbDir
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, zerolog.Logger{}, fmt.Errorf("llamactl: invalid log level %q: %w", cfg.LogLevel, err)
		}
		log := newCLILogger(level)

		g, err := llamagraph.Open(cfg.DBDir, llamagraph.WithLogger(log))
		if err != nil {
			return nil, zerolog.Logger{}, fmt.Errorf("llamactl: open %s: %w", cfg.DBDir, err)
		}
		return g, log, nil
	})

	root.AddCommand(statCmd(open))
	root.AddCommand(levelsCmd(open))
	root.AddCommand(degreeCmd(open))
	root.AddCommand(propertiesCmd(open))

	return root
}
