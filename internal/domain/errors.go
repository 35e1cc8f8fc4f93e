package domain

import "errors"

// Domain errors communicate specific failure conditions across layers.
var (
	ErrNoBackupPath     = errors.New("backup path is required")
	ErrNoExtensions     = errors.New("at least one extension is required")
	ErrUnsupportedKind  = errors.New("unsupported artifact kind")
	ErrNegativeLimit    = errors.New("flat limit cannot be negative")
	ErrNegativeCapacity = errors.New("tier capacity cannot be negative")
	ErrConflictingModes = errors.New("flat limit and tier capacities are mutually exclusive")
)
