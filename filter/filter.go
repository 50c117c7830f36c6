// Package filter selects a subset of registered tests by group-name pattern
// and/or index set.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum-optimism/infra/op-harness/registry"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// ErrEmptySelection is returned when filter criteria match no registered
// test. Callers must treat this as fatal and abort before executing anything.
var ErrEmptySelection = errors.New("filter criteria matched no tests")

// Mode controls what happens to tests that do not match the criteria.
type Mode int

const (
	// Drop removes non-matching tests from the list entirely.
	Drop Mode = iota
	// Substitute keeps non-matching tests in place but replaces their body
	// with a forced skip, preserving the full suite shape for reporting.
	Substitute
)

// IndexSet is a set of acceptable test indices.
type IndexSet map[int]struct{}

// Contains reports membership.
func (s IndexSet) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// ParseIndexSet parses a comma-separated list of non-negative integers and
// inclusive integer ranges, e.g. "4,6-10,19".
func ParseIndexSet(spec string) (IndexSet, error) {
	set := make(IndexSet)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("invalid case list %q: empty element", spec)
		}
		lo, hi, found := strings.Cut(part, "-")
		if !found {
			n, err := strconv.Atoi(lo)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid case index %q", part)
			}
			set[n] = struct{}{}
			continue
		}
		start, err := strconv.Atoi(lo)
		if err != nil || start < 0 {
			return nil, fmt.Errorf("invalid case range %q", part)
		}
		end, err := strconv.Atoi(hi)
		if err != nil || end < start {
			return nil, fmt.Errorf("invalid case range %q", part)
		}
		for n := start; n <= end; n++ {
			set[n] = struct{}{}
		}
	}
	return set, nil
}

// Criteria selects tests. A nil Name matches every group; a nil Cases set
// matches every index.
type Criteria struct {
	Name  *regexp.Regexp
	Cases IndexSet
}

// Matches reports whether path satisfies the criteria.
func (c Criteria) Matches(path types.TestPath) bool {
	if c.Name != nil && !c.Name.MatchString(path.Group) {
		return false
	}
	if c.Cases != nil && !c.Cases.Contains(path.Index) {
		return false
	}
	return true
}

// Apply filters tests under the given mode. In Drop mode the result is an
// order-preserving subsequence of the input; in Substitute mode it has the
// same length and path order, with non-matching entries forced to skip. It
// returns ErrEmptySelection when nothing matches.
func Apply(tests []*registry.RegisteredTest, c Criteria, mode Mode) ([]*registry.RegisteredTest, error) {
	out := make([]*registry.RegisteredTest, 0, len(tests))
	matched := 0
	for _, t := range tests {
		if c.Matches(t.Path) {
			matched++
			out = append(out, t)
			continue
		}
		if mode == Substitute {
			out = append(out, forceSkip(t))
		}
	}
	if matched == 0 {
		return nil, ErrEmptySelection
	}
	return out, nil
}

// forceSkip returns a copy of t whose body reports skipped without running
// the original.
func forceSkip(t *registry.RegisteredTest) *registry.RegisteredTest {
	cp := *t
	cp.Fn = types.SkipFn
	return &cp
}
