package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-harness/flags"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Config holds one run's configuration.
type Config struct {
	OutputDir  string
	Verbose    bool
	Compact    bool
	ShowErrors bool
	MinSpeed   types.Speed
	JSONOutput bool
	Log        log.Logger
}

// fileConfig mirrors the optional YAML defaults file. Pointer fields
// distinguish "unset" from an explicit false.
type fileConfig struct {
	OutputDir  string `yaml:"output_dir"`
	Verbose    *bool  `yaml:"verbose"`
	Compact    *bool  `yaml:"compact"`
	ShowErrors *bool  `yaml:"show_errors"`
	QuickOnly  *bool  `yaml:"quick_only"`
	JSON       *bool  `yaml:"json"`
}

// NewConfig creates a Config from the cli context. Values resolve in order:
// explicit flag or environment variable, then the YAML defaults file (when
// one is configured), then the built-in flag default.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	var file fileConfig
	if path := ctx.String(flags.ConfigFile.Name); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		logger.Debug("Loaded config defaults", "path", path)
	}

	outputDir := ctx.String(flags.OutputDir.Name)
	if !ctx.IsSet(flags.OutputDir.Name) && file.OutputDir != "" {
		outputDir = file.OutputDir
	}
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for output directory %q: %w", outputDir, err)
	}

	minSpeed := types.SpeedSlow
	if resolveBool(ctx, flags.QuickOnly.Name, file.QuickOnly) {
		minSpeed = types.SpeedQuick
	}

	return &Config{
		OutputDir:  absOutputDir,
		Verbose:    resolveBool(ctx, flags.Verbose.Name, file.Verbose),
		Compact:    resolveBool(ctx, flags.Compact.Name, file.Compact),
		ShowErrors: resolveBool(ctx, flags.ShowErrors.Name, file.ShowErrors),
		MinSpeed:   minSpeed,
		JSONOutput: resolveBool(ctx, flags.JSONOutput.Name, file.JSON),
		Log:        logger,
	}, nil
}

func resolveBool(ctx *cli.Context, name string, fileVal *bool) bool {
	if ctx.IsSet(name) || fileVal == nil {
		return ctx.Bool(name)
	}
	return *fileVal
}
