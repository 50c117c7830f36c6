// Package exitcodes defines the standard exit codes used by the harness.
package exitcodes

// The process exit code carries the number of failing tests, clamped to
// MaxTestFailures so it can never collide with FatalErr:
//
// * Success (0): every test that ran passed
// * 1..MaxTestFailures: number of failing tests
// * FatalErr (255): a pre-run condition (invalid group names, empty filter
//   selection, unusable output directory) invalidated the whole run
const (
	Success         = 0
	MaxTestFailures = 200
	FatalErr        = 255
)

// ForFailures converts a failing-test count into an exit code.
func ForFailures(n int) int {
	if n <= 0 {
		return Success
	}
	if n > MaxTestFailures {
		return MaxTestFailures
	}
	return n
}
