package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/prunekit/prunekit/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS prune_runs (
	id          TEXT PRIMARY KEY,
	backup_path TEXT NOT NULL,
	mode        TEXT NOT NULL,
	dry_run     INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	considered  INTEGER NOT NULL,
	kept        INTEGER NOT NULL,
	promoted    INTEGER NOT NULL,
	deleted     INTEGER NOT NULL,
	failed      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prune_runs_started ON prune_runs (started_at DESC);
`

// RunStore persists prune run history in a local SQLite database.
type RunStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRunStore opens (or creates) the history database at path.
func NewRunStore(path string, log zerolog.Logger) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &RunStore{db: db, log: log}, nil
}

// Record appends one run to the history. A missing ID is generated.
func (s *RunStore) Record(ctx context.Context, record domain.RunRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prune_runs
			(id, backup_path, mode, dry_run, started_at, finished_at,
			 considered, kept, promoted, deleted, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.BackupPath,
		record.Mode,
		boolToInt(record.DryRun),
		record.StartedAt.UTC().Format(time.RFC3339Nano),
		record.FinishedAt.UTC().Format(time.RFC3339Nano),
		record.Considered,
		record.Kept,
		record.Promoted,
		record.Deleted,
		record.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to record prune run: %w", err)
	}

	s.log.Debug().Str("run_id", record.ID).Msg("prune run recorded")
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, backup_path, mode, dry_run, started_at, finished_at,
		       considered, kept, promoted, deleted, failed
		FROM prune_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prune runs: %w", err)
	}
	defer rows.Close()

	records := make([]domain.RunRecord, 0, limit)
	for rows.Next() {
		var (
			record   domain.RunRecord
			dryRun   int
			started  string
			finished string
		)
		if err := rows.Scan(
			&record.ID,
			&record.BackupPath,
			&record.Mode,
			&dryRun,
			&started,
			&finished,
			&record.Considered,
			&record.Kept,
			&record.Promoted,
			&record.Deleted,
			&record.Failed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prune run: %w", err)
		}
		record.DryRun = dryRun != 0
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			record.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, finished); err == nil {
			record.FinishedAt = t
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prune runs: %w", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
