// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/config"
)

// Flags are the global flags shared by all commands. Non-empty values
// override the matching contractgen.json settings.
type Flags struct {
	LogLevel   string
	ConfigPath string
	Schema     string
	Output     string
	Package    string
}

func (f *Flags) apply(cfg *config.Config) {
	if f.Schema != "" {
		cfg.Schema = f.Schema
	}
	if f.Output != "" {
		cfg.Output.Dir = f.Output
	}
	if f.Package != "" {
		cfg.Output.Package = f.Package
	}
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
}

func (c *Controller) Generate(ctx context.Context, opts GenerateOptions) error {
	return NewGenerateCommand(c.Flags, c.Logger).Execute(ctx, opts)
}

func (c *Controller) Watch(ctx context.Context) error {
	return NewWatchCommand(c.Flags, c.Logger).Execute(ctx)
}

func (c *Controller) Inspect(ctx context.Context) error {
	return NewInspectCommand(c.Flags, c.Logger).Execute(ctx)
}

func (c *Controller) Init(ctx context.Context) error {
	return NewInitCommand().Run(ctx)
}

func dirOf(path string) string {
	return filepath.Dir(absDir(path))
}
