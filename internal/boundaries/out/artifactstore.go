package out

import (
	"context"

	"github.com/prunekit/prunekit/internal/domain"
)

// ArtifactStore defines access to dated backup artifacts on disk.
type ArtifactStore interface {
	// List returns the ascending-sorted identifiers of valid artifacts
	// in dir: entries whose name carries the requested extension and
	// whose remaining identifier resolves to a date. Everything else is
	// skipped without error. A dir that cannot be listed is fatal.
	List(ctx context.Context, dir, extension string, kind domain.ArtifactKind) ([]string, error)

	// Move relocates one artifact between tier directories.
	Move(ctx context.Context, identifier, extension string, kind domain.ArtifactKind, fromDir, toDir string) error

	// Remove permanently deletes one artifact. Directory artifacts are
	// removed recursively.
	Remove(ctx context.Context, identifier, extension string, kind domain.ArtifactKind, dir string) error
}
