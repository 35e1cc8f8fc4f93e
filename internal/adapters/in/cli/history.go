package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prunekit/prunekit/internal/adapters/out/sqlite"
	"github.com/prunekit/prunekit/internal/config"
)

// newHistoryCmd creates the history command.
func newHistoryCmd() *cobra.Command {
	var configPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent prune runs",
		Long:  `List the most recent prune runs recorded in the history database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, configPath, limit)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func runHistory(cmd *cobra.Command, configPath string, limit int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("run history is disabled in the configuration")
	}

	store, err := sqlite.NewRunStore(cfg.History.Path, zerolog.Nop())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No prune runs recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tMODE\tDRY\tCONSIDERED\tKEPT\tPROMOTED\tDELETED\tFAILED\tPATH")
	for _, r := range records {
		dry := ""
		if r.DryRun {
			dry = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Mode, dry,
			r.Considered, r.Kept, r.Promoted, r.Deleted, r.Failed, r.BackupPath)
	}
	return tw.Flush()
}
