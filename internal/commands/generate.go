package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/build"
	"github.com/okra-platform/contractgen/internal/config"
)

// GenerateOptions contains options for the generate command
type GenerateOptions struct {
	// Archive, when set, is the path of a .tar.gz bundling the run
	Archive string
}

// GenerateDependencies for the generate command
type GenerateDependencies struct {
	ConfigLoader ConfigLoader
	Output       Output
}

// GenerateCommand runs the pipeline once and writes the sources
type GenerateCommand struct {
	deps   GenerateDependencies
	logger zerolog.Logger
}

// NewGenerateCommand creates a generate command with default dependencies
func NewGenerateCommand(flags *Flags, logger zerolog.Logger) *GenerateCommand {
	return &GenerateCommand{
		deps: GenerateDependencies{
			ConfigLoader: &flagConfigLoader{flags: flags},
			Output:       &stdOutput{},
		},
		logger: logger,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps GenerateDependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs the generate command
func (gc *GenerateCommand) Execute(ctx context.Context, opts GenerateOptions) error {
	cfg, projectRoot, err := gc.deps.ConfigLoader.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	builder := build.NewBuilder(cfg, projectRoot, gc.logger)
	artifacts, err := builder.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fields := summaryFields(cfg, artifacts)
	if opts.Archive != "" {
		if err := build.NewPackager(cfg).CreatePackage(artifacts, opts.Archive); err != nil {
			return fmt.Errorf("failed to create package: %w", err)
		}
		fields = append(fields, resultField{Label: "Archive", Value: opts.Archive})
	}

	printResult(gc.deps.Output, fields, "Sources generated")
	return nil
}

func summaryFields(cfg *config.Config, artifacts *build.Artifacts) []resultField {
	fields := []resultField{
		{Label: "Schema", Value: cfg.Schema},
		{Label: "Language", Value: cfg.Language},
		{Label: "Package", Value: cfg.Output.Package},
		{Label: "Output", Value: artifacts.OutputDir},
		{Label: "Types", Value: strconv.Itoa(len(artifacts.Files))},
	}
	if len(artifacts.Removed) > 0 {
		fields = append(fields, resultField{Label: "Removed", Value: strconv.Itoa(len(artifacts.Removed))})
	}
	return fields
}
