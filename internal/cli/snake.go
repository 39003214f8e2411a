package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/dtobind/naming"
)

// SnakeOptions holds flags for the snake command.
type SnakeOptions struct {
	*RootOptions
	Upper bool
	Kebab bool
}

// NewSnakeCommand creates the snake command.
func NewSnakeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnakeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "snake <name>...",
		Short:         "Print member names as the naming policy writes them",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p naming.Policy = naming.SnakeCase{Upper: opts.Upper}
			if opts.Kebab {
				p = naming.KebabCase{Upper: opts.Upper}
			}
			for _, a := range args {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a, p.ConvertName(a)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Upper, "upper", false, "upper-case the result")
	cmd.Flags().BoolVar(&opts.Kebab, "kebab", false, "separate words with '-' instead of '_'")

	return cmd
}
