package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/prunekit/prunekit/internal/domain"
)

// printReport renders the per-tier table and the run totals.
func printReport(w io.Writer, report *domain.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tEXTENSION\tCONSIDERED\tKEPT\tPROMOTED\tDELETED\tFAILED")
	for _, tr := range report.Tiers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			tierLabel(tr.Tier), extensionLabel(tr.Extension),
			tr.Considered, tr.Kept, tr.Promoted, tr.Deleted, tr.Failed)
	}
	tw.Flush()

	considered, kept, promoted, deleted, failed := report.Totals()
	summary := fmt.Sprintf("considered %d, kept %d, promoted %d, deleted %d, failed %d",
		considered, kept, promoted, deleted, failed)
	if report.DryRun {
		summary = "dry-run: " + summary
	}

	switch {
	case failed > 0:
		color.New(color.FgRed).Fprintln(w, summary)
	case report.DryRun:
		color.New(color.FgYellow).Fprintln(w, summary)
	default:
		color.New(color.FgGreen).Fprintln(w, summary)
	}
}

func tierLabel(tier domain.TierName) string {
	if tier == "" {
		return "(flat)"
	}
	return string(tier)
}

func extensionLabel(ext string) string {
	if ext == "" {
		return "(folders)"
	}
	return ext
}
