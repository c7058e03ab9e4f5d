// Package cmd implements the verifier command-line interface.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug forces debug logging and gin debug mode.
	debug bool
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// NewRootCommand builds the verifier command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "verifier",
		Short:         "Source verification and reliability scoring",
		Long:          `Scores news and transfer claims for source reliability and tracks publisher history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	root.AddCommand(newServeCommand(), newCheckCommand(), newVersionCommand())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
