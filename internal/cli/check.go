package cli

import (
	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "check [ROOT]",
		Short: "Report permissions that differ from the policy",
		Long:  "Run a dry-run below ROOT and fail if any permission would change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dryRun = true
			rep, err := runFix(cmd.Context(), cmd.OutOrStdout(), rootArg(args), opts)
			if err != nil {
				return err
			}
			if n := rep.Fixed(); n > 0 {
				return errors.ErrChangesPendingWithCount(n)
			}
			return nil
		},
	}

	addRunFlags(cmd, &opts)

	return cmd
}
