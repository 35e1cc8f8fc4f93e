package domain

import (
	"strings"
	"time"
)

// Date token layouts accepted in artifact identifiers. Both are
// zero-padded, so lexicographic order over identifiers matches
// chronological order.
const (
	dateLayoutDashed  = "2006-01-02"
	dateLayoutCompact = "20060102"
)

// ParseArtifactDate resolves the calendar date encoded in an artifact
// identifier (the name with any extension already stripped).
//
// The identifier is split once on the first underscore and the left part
// is tried as YYYY-MM-DD. Failing that, the identifier is split once on
// the first dash and the left part is tried as YYYYMMDD. Anything after
// the separator is a free-text description and is ignored.
//
// Accepted:
//
//	2018-08-16
//	2018-08-16_database_test
//	20180816
//	20180816-database_test
//
// Returns false when neither form resolves to a date.
func ParseArtifactDate(identifier string) (time.Time, bool) {
	token := identifier
	if i := strings.IndexByte(identifier, '_'); i >= 0 {
		token = identifier[:i]
	}
	if t, err := time.Parse(dateLayoutDashed, token); err == nil {
		return t, true
	}

	token = identifier
	if i := strings.IndexByte(identifier, '-'); i >= 0 {
		token = identifier[:i]
	}
	if t, err := time.Parse(dateLayoutCompact, token); err == nil {
		return t, true
	}
	return time.Time{}, false
}
