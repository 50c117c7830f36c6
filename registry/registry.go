package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

// groupNamePattern is the set of characters allowed in a group name.
var groupNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

// DuplicateTestError is returned when a registration collides with an
// existing test's file key. Group names that differ only in case collide.
type DuplicateTestError struct {
	Path types.TestPath
}

func (e *DuplicateTestError) Error() string {
	return fmt.Sprintf("duplicate test %q: file key %q is already registered", e.Path.Display(), e.Path.FileKey())
}

// InvalidNameError is recorded when a group name contains characters outside
// the allowed set (letters, digits, underscore, hyphen, space).
type InvalidNameError struct {
	Group string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid group name %q: only letters, digits, underscores, hyphens and spaces are allowed", e.Group)
}

// RegisteredTest is one (path, body) pair plus its metadata.
type RegisteredTest struct {
	Path        types.TestPath
	Description string
	Speed       types.Speed
	Fn          types.TestFn
}

// Config contains registry configuration.
type Config struct {
	Log log.Logger
}

// Registry stores test cases keyed by their file-key identity, preserving
// registration order for iteration. Registration happens once at process
// start; the registry is not mutated after a run begins.
type Registry struct {
	config   Config
	tests    []*RegisteredTest
	byKey    map[string]*RegisteredTest
	nameErrs []error
	mu       sync.RWMutex
}

// NewRegistry creates a new registry instance.
func NewRegistry(cfg Config) *Registry {
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	return &Registry{
		config: cfg,
		byKey:  make(map[string]*RegisteredTest),
	}
}

// Add registers one test case. It fails with a DuplicateTestError when the
// path's file key is already present, leaving the original entry untouched.
// An invalid group name is recorded for later joint reporting (see Validate)
// and the entry is not inserted.
func (r *Registry) Add(path types.TestPath, description string, speed types.Speed, fn types.TestFn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !groupNamePattern.MatchString(path.Group) {
		err := &InvalidNameError{Group: path.Group}
		r.nameErrs = append(r.nameErrs, err)
		return err
	}

	key := path.FileKey()
	if _, exists := r.byKey[key]; exists {
		return &DuplicateTestError{Path: path}
	}

	test := &RegisteredTest{
		Path:        path,
		Description: normalizeDescription(description),
		Speed:       speed,
		Fn:          fn,
	}
	r.tests = append(r.tests, test)
	r.byKey[key] = test

	r.config.Log.Debug("Registered test", "path", path.Display(), "speed", speed)
	return nil
}

// AddGroup registers a named group of cases, assigning indices in
// registration order. An invalid group name is recorded once for the whole
// group and nothing is inserted; duplicate-path errors abort only the
// colliding entries.
func (r *Registry) AddGroup(group string, cases []types.TestCase) error {
	if !groupNamePattern.MatchString(group) {
		r.mu.Lock()
		r.nameErrs = append(r.nameErrs, &InvalidNameError{Group: group})
		r.mu.Unlock()
		return nil
	}

	var errs []error
	for i, tc := range cases {
		path := types.TestPath{Group: group, Index: i}
		if err := r.Add(path, tc.Description, tc.Speed, tc.Fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// All returns every registered test in insertion order.
func (r *Registry) All() []*RegisteredTest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*RegisteredTest, len(r.tests))
	copy(out, r.tests)
	return out
}

// Description returns the stored description for path, or the empty string
// when the path is unknown.
func (r *Registry) Description(path types.TestPath) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.byKey[path.FileKey()]; ok {
		return t.Description
	}
	return ""
}

// Speed returns the stored speed tier for path, defaulting to SpeedSlow when
// the path is unknown.
func (r *Registry) Speed(path types.TestPath) types.Speed {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.byKey[path.FileKey()]; ok {
		return t.Speed
	}
	return types.SpeedSlow
}

// Validate returns the invalid-name errors accumulated across all
// registration calls, joined, or nil when every group name was valid. This is
// checked once before any test runs so a user sees every offending name in
// one pass instead of failing on the first.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return errors.Join(r.nameErrs...)
}

func normalizeDescription(s string) string {
	if s == "" || strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
