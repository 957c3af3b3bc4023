package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitree/pkg/log"
)

type rootCmdConfig struct {
	verbose  bool
	logLevel string
	pretty   bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "scitree",
		Short: "scitree grows decision trees from tabular data",
		Long:  `A tool to grow classification and regression trees from CSV files and inspect what they learned`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setupLogging(cmd)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log training progress and every grown node")
	rootCmd.PersistentFlags().StringVar(&(config.logLevel), "log-level", "warn", "minimum level of log records written to STDERR: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&(config.pretty), "pretty", false, "write human readable log records instead of JSON")
	rootCmd.AddCommand(versionCmd(), fitCmd(config), importanceCmd(config))
	return rootCmd
}

// setupLogging installs the zerolog provider on the command's error stream.
// --verbose lowers the level to debug so node events are visible.
func (rc *rootCmdConfig) setupLogging(cmd *cobra.Command) error {
	level := rc.logLevel
	if rc.verbose {
		level = "debug"
	}
	return log.SetupLogger(level, cmd.ErrOrStderr(), rc.pretty)
}
