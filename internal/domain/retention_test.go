package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveTiers_Default(t *testing.T) {
	tiers := ActiveTiers("/backups", DefaultRetentionPolicy())
	require.Len(t, tiers, 4)
	assert.Equal(t, TierDaily, tiers[0].Name)
	assert.Equal(t, 14, tiers[0].Capacity)
	assert.Equal(t, filepath.Join("/backups", "daily"), tiers[0].Path)
	assert.Equal(t, TierYearly, tiers[3].Name)
}

func TestActiveTiers_DisabledTiersExcluded(t *testing.T) {
	policy := RetentionPolicy{Daily: 14, Weekly: 0, Monthly: 6, Yearly: 0}
	tiers := ActiveTiers("/backups", policy)
	require.Len(t, tiers, 2)
	assert.Equal(t, TierDaily, tiers[0].Name)
	assert.Equal(t, TierMonthly, tiers[1].Name)
}

func TestActiveTiers_AllDisabled(t *testing.T) {
	tiers := ActiveTiers("/backups", RetentionPolicy{})
	assert.Empty(t, tiers)
}

func TestPruneRun_Normalize(t *testing.T) {
	run := PruneRun{
		BackupPath: "/backups",
		Extensions: []string{" .bak ", "tar.gz", "", "."},
	}
	run.Normalize()
	assert.Equal(t, KindFile, run.Kind)
	assert.Equal(t, []string{"bak", "tar.gz"}, run.Extensions)
}

func TestPruneRun_Normalize_FolderKindWithoutExtensions(t *testing.T) {
	run := PruneRun{BackupPath: "/backups", Kind: KindDirectory}
	run.Normalize()
	assert.Equal(t, []string{""}, run.Extensions)
}

func TestPruneRun_Validate(t *testing.T) {
	negative := -1

	tests := []struct {
		name    string
		run     PruneRun
		wantErr error
	}{
		{
			"valid",
			PruneRun{BackupPath: "/b", Extensions: []string{"bak"}, Kind: KindFile, Policy: DefaultRetentionPolicy()},
			nil,
		},
		{
			"missing path",
			PruneRun{Extensions: []string{"bak"}, Kind: KindFile},
			ErrNoBackupPath,
		},
		{
			"missing extensions",
			PruneRun{BackupPath: "/b", Kind: KindFile},
			ErrNoExtensions,
		},
		{
			"bad kind",
			PruneRun{BackupPath: "/b", Extensions: []string{"bak"}, Kind: ArtifactKind("symlink")},
			ErrUnsupportedKind,
		},
		{
			"negative limit",
			PruneRun{BackupPath: "/b", Extensions: []string{"bak"}, Kind: KindFile, Limit: &negative},
			ErrNegativeLimit,
		},
		{
			"negative capacity",
			PruneRun{BackupPath: "/b", Extensions: []string{"bak"}, Kind: KindFile, Policy: RetentionPolicy{Daily: -2}},
			ErrNegativeCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestReport_Totals(t *testing.T) {
	report := Report{
		Tiers: []TierReport{
			{Tier: TierDaily, Considered: 20, Kept: 14, Promoted: 2, Deleted: 4},
			{Tier: TierWeekly, Considered: 7, Kept: 6, Promoted: 0, Deleted: 1, Failed: 1},
		},
	}
	considered, kept, promoted, deleted, failed := report.Totals()
	assert.Equal(t, 27, considered)
	assert.Equal(t, 20, kept)
	assert.Equal(t, 2, promoted)
	assert.Equal(t, 5, deleted)
	assert.Equal(t, 1, failed)
}
