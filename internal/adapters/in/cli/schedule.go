package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prunekit/prunekit/internal/usecase/prune"
)

// newScheduleCmd creates the schedule command, a foreground daemon that
// prunes on a cron schedule.
func newScheduleCmd() *cobra.Command {
	opts := &pruneOptions{}
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule <backup-path> [extension...]",
		Short: "Prune on a cron schedule",
		Long: `Run in the foreground and prune the backup path on a cron schedule.
Stops cleanly on SIGINT or SIGTERM, waiting for an in-flight prune to
finish first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, args, opts, cronSpec)
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "0 3 * * *", "Cron schedule (standard five-field syntax)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().IntVarP(&opts.verbosity, "verbosity", "v", 1, "Output detail, 0 (quiet) to 3 (per-artifact)")
	cmd.Flags().IntVar(&opts.daily, "daily", 14, "Daily backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.weekly, "weekly", 6, "Weekly backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.monthly, "monthly", 6, "Monthly backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.yearly, "yearly", 6, "Yearly backups to keep (0 disables the tier)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Keep only the newest N artifacts (flat mode, no tiers)")
	cmd.Flags().BoolVar(&opts.folders, "folders", false, "Prune dated folders instead of files")

	return cmd
}

func runSchedule(cmd *cobra.Command, args []string, opts *pruneOptions, cronSpec string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := prune.NewScheduler(svc, run, cronSpec, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	if next := sched.NextRun(); next != nil {
		log.Info().Time("next_run", *next).Msg("waiting for next scheduled prune")
	}

	<-ctx.Done()
	sched.Stop()
	return nil
}
