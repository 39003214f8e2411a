package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Logger  *slog.Logger
}

// NewRootCommand creates the root command for the dtobind CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dtobind",
		Short: "dtobind - bind JSON to constructor-built records",
		Long: `Tools for dtobind schemas.

gen writes schema declarations for capability interfaces and their records,
snake shows how the default naming policy renders member names.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewSnakeCommand(opts))

	return cmd
}

// logger returns the configured logger, or the default one when a
// subcommand runs without the root's pre-run hook.
func (o *RootOptions) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
