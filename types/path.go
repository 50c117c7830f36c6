package types

import (
	"fmt"
	"strings"
)

// TestPath identifies one test case within a run: a group name plus a
// zero-based index inside that group.
type TestPath struct {
	Group string
	Index int
}

// Display returns the short human-readable form, e.g. "math.001".
func (p TestPath) Display() string {
	return fmt.Sprintf("%s.%03d", p.Group, p.Index)
}

// FileKey returns the filesystem-safe identity for this path. Two paths whose
// group names differ only in case share a FileKey and are the same test for
// uniqueness purposes.
func (p TestPath) FileKey() string {
	return fmt.Sprintf("%s.%03d", strings.ToLower(p.Group), p.Index)
}

// OutputFilename returns the name of this test's output file inside a run
// directory.
func (p TestPath) OutputFilename() string {
	return p.FileKey() + ".output"
}

// ComparePaths orders paths lexicographically by group name, then numerically
// by index. It returns -1, 0 or +1.
func ComparePaths(a, b TestPath) int {
	if c := strings.Compare(a.Group, b.Group); c != 0 {
		return c
	}
	switch {
	case a.Index < b.Index:
		return -1
	case a.Index > b.Index:
		return 1
	default:
		return 0
	}
}
