package cli

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prunekit/prunekit/internal/adapters/out/filesystem"
	"github.com/prunekit/prunekit/internal/adapters/out/sqlite"
	"github.com/prunekit/prunekit/internal/boundaries/out"
	"github.com/prunekit/prunekit/internal/config"
	"github.com/prunekit/prunekit/internal/domain"
	"github.com/prunekit/prunekit/internal/logging"
	"github.com/prunekit/prunekit/internal/usecase/prune"
)

type pruneOptions struct {
	configPath string
	verbosity  int
	daily      int
	weekly     int
	monthly    int
	yearly     int
	limit      int
	folders    bool
	dryRun     bool
	yes        bool
}

// newPruneCmd creates the prune command.
func newPruneCmd() *cobra.Command {
	opts := &pruneOptions{}

	cmd := &cobra.Command{
		Use:   "prune <backup-path> [extension...]",
		Short: "Prune dated backup artifacts",
		Long: `Prune dated backup artifacts under the given path.

Tiered mode (the default) expects daily/, weekly/, monthly/ and yearly/
subdirectories and cascades overflowing artifacts between them.
Flat mode (--limit) keeps only the newest N artifacts directly in the
backup path and never promotes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().IntVarP(&opts.verbosity, "verbosity", "v", 1, "Output detail, 0 (quiet) to 3 (per-artifact)")
	cmd.Flags().IntVar(&opts.daily, "daily", 14, "Daily backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.weekly, "weekly", 6, "Weekly backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.monthly, "monthly", 6, "Monthly backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.yearly, "yearly", 6, "Yearly backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Keep only the newest N artifacts (flat mode, no tiers)")
	cmd.Flags().BoolVar(&opts.folders, "folders", false, "Prune dated folders instead of files")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report decisions without touching the filesystem")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string, opts *pruneOptions) error {
	run, cfg, log, err := prepareRun(cmd, args, opts)
	if err != nil {
		return err
	}

	store, history, closeHistory, err := openStores(run, cfg, log)
	if err != nil {
		return err
	}
	defer closeHistory()

	svc := prune.NewService(store, history, log)
	ctx := cmd.Context()

	if !run.DryRun && !opts.yes {
		confirmed, err := confirmPrune(ctx, prune.NewService(store, nil, log), run)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("operation cancelled by user")
		}
	}

	report, err := svc.Run(ctx, run)
	if report != nil && opts.verbosity >= 1 {
		printReport(cmd.OutOrStdout(), report)
	}
	return err
}

// prepareRun assembles the prune run, loads the configuration, and
// builds the logger. Config values back any tier flag the user did not
// set explicitly.
func prepareRun(cmd *cobra.Command, args []string, opts *pruneOptions) (domain.PruneRun, *config.Config, zerolog.Logger, error) {
	run, err := buildRun(cmd, args, opts)
	if err != nil {
		return run, nil, zerolog.Nop(), err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return run, nil, zerolog.Nop(), err
	}
	log := logging.New(opts.verbosity, cfg.Logging)

	if !cmd.Flags().Changed("daily") {
		run.Policy.Daily = cfg.Retention.Daily
	}
	if !cmd.Flags().Changed("weekly") {
		run.Policy.Weekly = cfg.Retention.Weekly
	}
	if !cmd.Flags().Changed("monthly") {
		run.Policy.Monthly = cfg.Retention.Monthly
	}
	if !cmd.Flags().Changed("yearly") {
		run.Policy.Yearly = cfg.Retention.Yearly
	}

	return run, cfg, log, nil
}

// openStores wires the filesystem artifact store and, when enabled, the
// run history store. A history store that cannot be opened downgrades
// to a warning.
func openStores(run domain.PruneRun, cfg *config.Config, log zerolog.Logger) (out.ArtifactStore, out.RunStore, func(), error) {
	store, err := filesystem.NewArtifactStore(run.BackupPath, log)
	if err != nil {
		return nil, nil, nil, err
	}

	closeHistory := func() {}
	var history out.RunStore
	if cfg.History.Enabled {
		h, err := sqlite.NewRunStore(cfg.History.Path, log)
		if err != nil {
			log.Warn().Err(err).Msg("run history unavailable, continuing without it")
		} else {
			history = h
			closeHistory = func() { _ = h.Close() }
		}
	}
	return store, history, closeHistory, nil
}

// buildRun assembles the prune run from arguments and flags. Tier flags
// and --limit are mutually exclusive because flat mode has no tiers.
func buildRun(cmd *cobra.Command, args []string, opts *pruneOptions) (domain.PruneRun, error) {
	run := domain.PruneRun{
		BackupPath: args[0],
		Extensions: args[1:],
		Policy: domain.RetentionPolicy{
			Daily:   opts.daily,
			Weekly:  opts.weekly,
			Monthly: opts.monthly,
			Yearly:  opts.yearly,
		},
		DryRun: opts.dryRun,
	}
	if opts.folders {
		run.Kind = domain.KindDirectory
	}

	if cmd.Flags().Changed("limit") {
		for _, tierFlag := range []string{"daily", "weekly", "monthly", "yearly"} {
			if cmd.Flags().Changed(tierFlag) {
				return run, fmt.Errorf("--limit cannot be combined with --%s: %w",
					tierFlag, domain.ErrConflictingModes)
			}
		}
		limit := opts.limit
		run.Limit = &limit
	}

	return run, nil
}

// confirmPrune dry-runs the prune and asks the user to approve the
// resulting deletions. Runs with nothing to delete need no approval.
func confirmPrune(ctx context.Context, svc *prune.Service, run domain.PruneRun) (bool, error) {
	preview := run
	preview.DryRun = true
	report, err := svc.Run(ctx, preview)
	if err != nil {
		return false, err
	}

	_, _, promoted, deleted, _ := report.Totals()
	if deleted == 0 && promoted == 0 {
		return true, nil
	}

	var proceed bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("This run will promote %d and permanently delete %d artifact(s). Continue?",
			promoted, deleted),
		Default: true,
	}
	if err := survey.AskOne(prompt, &proceed); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return proceed, nil
}
