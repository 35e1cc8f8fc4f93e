package domain

import "time"

// DecisionAction is the outcome chosen for one overflow artifact.
type DecisionAction string

const (
	ActionPromote DecisionAction = "promote"
	ActionDelete  DecisionAction = "delete"
)

// Decision records what the engine decided for a single artifact.
// Under dry-run the decision is computed but nothing is mutated.
type Decision struct {
	Tier       TierName // source tier; empty in flat mode
	Extension  string
	Identifier string
	Action     DecisionAction
	Target     TierName // destination tier for promotions
	Err        string   // non-empty when the move/delete failed
}

// TierReport aggregates the outcome of pruning one tier for one
// extension. In flat mode Tier is empty.
type TierReport struct {
	Tier       TierName
	Extension  string
	Considered int
	Kept       int
	Promoted   int
	Deleted    int
	Failed     int
}

// Report is the full outcome of one prune run. Dry-run reports are
// identical to real ones apart from the DryRun marker.
type Report struct {
	BackupPath string
	FlatMode   bool
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Tiers      []TierReport
	Decisions  []Decision
}

// Totals sums the per-tier counters across the whole run.
func (r *Report) Totals() (considered, kept, promoted, deleted, failed int) {
	for _, t := range r.Tiers {
		considered += t.Considered
		kept += t.Kept
		promoted += t.Promoted
		deleted += t.Deleted
		failed += t.Failed
	}
	return
}

// Mode names the retention mode of the run.
func (r *Report) Mode() string {
	if r.FlatMode {
		return "flat"
	}
	return "tiered"
}

// RunRecord is the persisted summary of one prune run.
type RunRecord struct {
	ID         string
	BackupPath string
	Mode       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Considered int
	Kept       int
	Promoted   int
	Deleted    int
	Failed     int
}

// NewRunRecord condenses a report into its persisted form. The caller
// assigns the ID.
func NewRunRecord(report *Report) RunRecord {
	considered, kept, promoted, deleted, failed := report.Totals()
	return RunRecord{
		BackupPath: report.BackupPath,
		Mode:       report.Mode(),
		DryRun:     report.DryRun,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Considered: considered,
		Kept:       kept,
		Promoted:   promoted,
		Deleted:    deleted,
		Failed:     failed,
	}
}
