package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/glorpus-work/permfix/internal/logger"
	"github.com/glorpus-work/permfix/pkg/config"
	"github.com/glorpus-work/permfix/pkg/fixer"
	"github.com/glorpus-work/permfix/pkg/owner"
	"github.com/glorpus-work/permfix/pkg/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// runOptions are the flags shared by fix and check.
type runOptions struct {
	dryRun    bool
	owner     string
	excludes  []string
	patterns  []string
	matchMode string
	prune     bool
}

// NewFixCmd creates the fix command.
func NewFixCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "fix [ROOT]",
		Short: "Normalize permissions below ROOT",
		Long: `Walk ROOT and set directories to 0755 and files to 0644.
wp-config.php at the top level is restricted to 0600. Symbolic links and
excluded directories (.git, node_modules, ...) are left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runFix(cmd.Context(), cmd.OutOrStdout(), rootArg(args), opts)
			return err
		},
	}

	addRunFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would change without modifying anything")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "Also change ownership, as user[:group]")

	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringArrayVar(&opts.excludes, "exclude", nil, "Additional name to exclude (repeatable)")
	cmd.Flags().StringArrayVar(&opts.patterns, "exclude-pattern", nil, "Glob of root-relative paths to exclude (repeatable)")
	cmd.Flags().StringVar(&opts.matchMode, "match-mode", "", "Exclusion rule: segment or ancestor")
	cmd.Flags().BoolVar(&opts.prune, "prune-excluded", false, "Do not descend into excluded directories")
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultRoot
}

// runFix performs one run and renders its report to out. The returned
// error is non-nil only for fatal preconditions or interruption; per-item
// failures are part of the report.
func runFix(ctx context.Context, out io.Writer, root string, opts runOptions) (*report.Report, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	applyRunFlags(cfg, opts)

	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}
	logger.Debug("Using exclusion rules", logger.Fields{
		"names":      cfg.Exclusions.Names,
		"patterns":   cfg.Exclusions.Patterns,
		"match_mode": string(classifier.Mode()),
	})
	presenter, err := newPresenter(cfg, out)
	if err != nil {
		return nil, err
	}

	ownerValue := opts.owner
	if ownerValue == "" {
		ownerValue = cfg.Settings.Owner
	}
	ids, err := resolveOwner(ownerValue)
	if err != nil {
		return nil, err
	}

	f := &fixer.Fixer{
		Fs:         afero.NewOsFs(),
		Classifier: classifier,
		Chowner:    fixer.LchownChowner{},
		Hooks:      fixer.Hooks{OnEvent: logEvent},
	}

	rep, runErr := f.Run(ctx, root, fixer.Options{
		DryRun:        opts.dryRun,
		PruneExcluded: cfg.Exclusions.Prune,
		Owner:         ids,
	})
	if rep == nil || (runErr != nil && ctx.Err() == nil) {
		// Invalid root: nothing ran, nothing to summarize.
		return rep, runErr
	}

	if err := presenter.Render(out, root, rep); err != nil {
		return rep, fmt.Errorf("failed to render report: %w", err)
	}
	if runErr != nil {
		return rep, fmt.Errorf("run interrupted: %w", runErr)
	}
	return rep, nil
}

func applyRunFlags(cfg *config.Config, opts runOptions) {
	cfg.Exclusions.Names = append(cfg.Exclusions.Names, opts.excludes...)
	cfg.Exclusions.Patterns = append(cfg.Exclusions.Patterns, opts.patterns...)
	if opts.matchMode != "" {
		cfg.Exclusions.MatchMode = opts.matchMode
	}
	if opts.prune {
		cfg.Exclusions.Prune = true
	}
}

// resolveOwner returns nil when no ownership change was requested.
func resolveOwner(value string) (*owner.IDs, error) {
	spec, err := owner.Parse(value)
	if err != nil {
		return nil, err
	}
	if spec.IsZero() {
		return nil, nil
	}
	ids, err := owner.Resolve(spec, owner.SystemResolver{})
	if err != nil {
		return nil, err
	}
	return &ids, nil
}

func logEvent(e fixer.Event) {
	fields := logger.Fields{"phase": e.Phase, "path": e.Path}
	if e.Msg != "" {
		fields["detail"] = e.Msg
	}
	switch e.Phase {
	case fixer.PhaseError:
		logger.Warn("Operation failed", fields)
	case fixer.PhaseStart, fixer.PhaseDone:
		logger.Info("Permission run", fields)
	default:
		logger.Debug("Permission run", fields)
	}
}
