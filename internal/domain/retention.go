package domain

import (
	"path/filepath"
	"strings"
)

// TierName identifies a retention tier.
type TierName string

const (
	TierDaily   TierName = "daily"
	TierWeekly  TierName = "weekly"
	TierMonthly TierName = "monthly"
	TierYearly  TierName = "yearly"
)

// TierOrder is the fixed finest-to-coarsest processing order. Promotion
// only ever moves forward through this sequence.
var TierOrder = []TierName{TierDaily, TierWeekly, TierMonthly, TierYearly}

// Tier is one retention bucket: a capacity and the directory backing it.
type Tier struct {
	Name     TierName
	Capacity int
	Path     string
}

// RetentionPolicy holds how many artifacts each tier keeps.
// A zero capacity disables the tier entirely.
type RetentionPolicy struct {
	Daily   int
	Weekly  int
	Monthly int
	Yearly  int
}

// DefaultRetentionPolicy returns the default keep counts.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{
		Daily:   14,
		Weekly:  6,
		Monthly: 6,
		Yearly:  6,
	}
}

// Capacity returns the keep count for the named tier.
func (p RetentionPolicy) Capacity(name TierName) int {
	switch name {
	case TierDaily:
		return p.Daily
	case TierWeekly:
		return p.Weekly
	case TierMonthly:
		return p.Monthly
	case TierYearly:
		return p.Yearly
	default:
		return 0
	}
}

// ActiveTiers builds the ordered tier sequence for one run, rooted at
// backupPath. Disabled tiers (capacity 0) are excluded from the sequence
// entirely, both as eviction subjects and as promotion targets.
func ActiveTiers(backupPath string, policy RetentionPolicy) []Tier {
	tiers := make([]Tier, 0, len(TierOrder))
	for _, name := range TierOrder {
		capacity := policy.Capacity(name)
		if capacity <= 0 {
			continue
		}
		tiers = append(tiers, Tier{
			Name:     name,
			Capacity: capacity,
			Path:     filepath.Join(backupPath, string(name)),
		})
	}
	return tiers
}

// ArtifactKind distinguishes file artifacts from directory artifacts.
// The set is closed; anything else is rejected with ErrUnsupportedKind.
type ArtifactKind string

const (
	KindFile      ArtifactKind = "file"
	KindDirectory ArtifactKind = "directory"
)

// Valid reports whether the kind is one of the supported values.
func (k ArtifactKind) Valid() bool {
	return k == KindFile || k == KindDirectory
}

// PruneRun holds the per-invocation parameters of one pruning run.
type PruneRun struct {
	BackupPath string
	Extensions []string
	Policy     RetentionPolicy
	// Limit switches the run to flat mode: keep the newest Limit
	// artifacts in BackupPath itself, never promote. Mutually exclusive
	// with tier capacities.
	Limit  *int
	Kind   ArtifactKind
	DryRun bool
}

// Normalize trims extension tokens and strips a leading dot, drops empty
// tokens, and defaults the kind. Folder runs without extensions get the
// single empty token so the scan loop still executes once.
func (r *PruneRun) Normalize() {
	if r.Kind == "" {
		r.Kind = KindFile
	}
	normalized := make([]string, 0, len(r.Extensions))
	for _, ext := range r.Extensions {
		ext = NormalizeExtension(ext)
		if ext == "" {
			continue
		}
		normalized = append(normalized, ext)
	}
	r.Extensions = normalized
	if r.Kind == KindDirectory && len(r.Extensions) == 0 {
		r.Extensions = []string{""}
	}
}

// Validate checks the run parameters after normalization.
func (r *PruneRun) Validate() error {
	if r.BackupPath == "" {
		return ErrNoBackupPath
	}
	if !r.Kind.Valid() {
		return ErrUnsupportedKind
	}
	if len(r.Extensions) == 0 {
		return ErrNoExtensions
	}
	if r.Limit != nil && *r.Limit < 0 {
		return ErrNegativeLimit
	}
	if r.Policy.Daily < 0 || r.Policy.Weekly < 0 || r.Policy.Monthly < 0 || r.Policy.Yearly < 0 {
		return ErrNegativeCapacity
	}
	return nil
}

// NormalizeExtension trims whitespace and a single leading dot from an
// extension token.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	return strings.TrimPrefix(ext, ".")
}
