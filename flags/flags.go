package flags

import (
	"path/filepath"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "OP_HARNESS"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	OutputDir = &cli.StringFlag{
		Name:    "output-dir",
		Aliases: []string{"o"},
		Value:   filepath.Join("_build", "_tests"),
		EnvVars: prefixEnvVar("OUTPUT_DIR"),
		Usage:   "Directory under which each run writes its per-test output files",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		EnvVars: prefixEnvVar("VERBOSE"),
		Usage:   "Disable output capture; test output flows through live",
	}
	Compact = &cli.BoolFlag{
		Name:    "compact",
		Aliases: []string{"c"},
		EnvVars: prefixEnvVar("COMPACT"),
		Usage:   "Condense per-test status to single characters",
	}
	ShowErrors = &cli.BoolFlag{
		Name:    "show-errors",
		Aliases: []string{"e"},
		EnvVars: prefixEnvVar("SHOW_ERRORS"),
		Usage:   "Print all accumulated failure reports, not just the most recent",
	}
	QuickOnly = &cli.BoolFlag{
		Name:    "quick-only",
		Aliases: []string{"q"},
		EnvVars: prefixEnvVar("QUICK_ONLY"),
		Usage:   "Raise the minimum speed tier to quick, skipping slow tests",
	}
	JSONOutput = &cli.BoolFlag{
		Name:    "json",
		EnvVars: prefixEnvVar("JSON"),
		Usage:   "Suppress human-formatted output; emit a machine-readable summary object",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Path to a YAML file supplying defaults for the other options",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Log level (trace|debug|info|warn|error|crit)",
	}
)

// Flags contains every flag the harness CLI accepts. Each option may also be
// supplied through its OP_HARNESS_* environment variable.
var Flags = []cli.Flag{
	OutputDir,
	Verbose,
	Compact,
	ShowErrors,
	QuickOnly,
	JSONOutput,
	ConfigFile,
	LogLevel,
}
