package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prunekit/prunekit/internal/domain"
)

// ArtifactStore implements artifact access on the local filesystem.
// All operations are confined to the backup root it was created with.
type ArtifactStore struct {
	rootDir string
	log     zerolog.Logger
}

// NewArtifactStore creates a filesystem artifact store rooted at rootDir.
// The root must already exist; artifact producers create it.
func NewArtifactStore(rootDir string, log zerolog.Logger) (*ArtifactStore, error) {
	rootDir = expandTilde(rootDir)

	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("backup path not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("backup path %s is not a directory", rootDir)
	}

	return &ArtifactStore{rootDir: rootDir, log: log}, nil
}

// Root returns the backup root the store operates on.
func (s *ArtifactStore) Root() string {
	return s.rootDir
}

// List enumerates dir and returns the ascending-sorted identifiers of
// valid artifacts. For the file kind the requested extension is stripped
// from the right of each name (multi-segment tokens such as "tar.gz"
// match); for the directory kind each subdirectory's full name is the
// identifier. Entries without the extension or without a parseable date
// are skipped, not errors.
func (s *ArtifactStore) List(_ context.Context, dir, extension string, kind domain.ArtifactKind) ([]string, error) {
	if !kind.Valid() {
		return nil, domain.ErrUnsupportedKind
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	identifiers := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()

		if kind == domain.KindDirectory {
			if !entry.IsDir() {
				s.log.Trace().Str("entry", name).Msg("skipping: not a directory")
				continue
			}
			if _, ok := domain.ParseArtifactDate(name); !ok {
				s.log.Trace().Str("entry", name).Msg("skipping: no date in name")
				continue
			}
			identifiers = append(identifiers, name)
			continue
		}

		if entry.IsDir() {
			s.log.Trace().Str("entry", name).Msg("skipping: not a file")
			continue
		}
		identifier, ok := stripExtension(name, extension)
		if !ok {
			s.log.Trace().Str("entry", name).Str("extension", extension).Msg("skipping: extension mismatch")
			continue
		}
		if _, ok := domain.ParseArtifactDate(identifier); !ok {
			s.log.Trace().Str("entry", name).Msg("skipping: no date in name")
			continue
		}
		identifiers = append(identifiers, identifier)
	}

	// Date tokens are zero-padded, so lexicographic order is
	// chronological order.
	sort.Strings(identifiers)
	return identifiers, nil
}

// Move relocates one artifact from fromDir to toDir.
func (s *ArtifactStore) Move(_ context.Context, identifier, extension string, kind domain.ArtifactKind, fromDir, toDir string) error {
	name := artifactName(identifier, extension, kind)
	src := filepath.Join(fromDir, name)
	dst := filepath.Join(toDir, name)
	if !pathWithinRoot(s.rootDir, src) || !pathWithinRoot(s.rootDir, dst) {
		return fmt.Errorf("artifact path escapes backup root")
	}

	s.log.Trace().Str("from", src).Str("to", dst).Msg("renaming artifact")
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s: %w", name, err)
	}
	return nil
}

// Remove permanently deletes one artifact. Directory artifacts are
// removed recursively.
func (s *ArtifactStore) Remove(_ context.Context, identifier, extension string, kind domain.ArtifactKind, dir string) error {
	name := artifactName(identifier, extension, kind)
	path := filepath.Join(dir, name)
	if !pathWithinRoot(s.rootDir, path) {
		return fmt.Errorf("artifact path escapes backup root")
	}

	s.log.Trace().Str("path", path).Msg("deleting artifact")
	if kind == domain.KindDirectory {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// stripExtension removes "." + extension from the right of name. An
// empty extension matches names without any extension separator.
func stripExtension(name, extension string) (string, bool) {
	if extension == "" {
		if strings.Contains(name, ".") {
			return "", false
		}
		return name, true
	}
	suffix := "." + extension
	if !strings.HasSuffix(name, suffix) {
		return "", false
	}
	return name[:len(name)-len(suffix)], true
}

func artifactName(identifier, extension string, kind domain.ArtifactKind) string {
	if kind == domain.KindDirectory || extension == "" {
		return identifier
	}
	return identifier + "." + extension
}

// expandTilde replaces a leading "~/" with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path[2:])
	}
	return path
}

func pathWithinRoot(root, path string) bool {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(filepath.Clean(rootAbs), filepath.Clean(pathAbs))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
