package commands

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/build"
)

// InspectDependencies for the inspect command
type InspectDependencies struct {
	ConfigLoader ConfigLoader
	Output       Output
}

// InspectCommand prints the lowered declarations as JSON without writing sources
type InspectCommand struct {
	deps   InspectDependencies
	logger zerolog.Logger
}

// NewInspectCommand creates an inspect command with default dependencies
func NewInspectCommand(flags *Flags, logger zerolog.Logger) *InspectCommand {
	return &InspectCommand{
		deps: InspectDependencies{
			ConfigLoader: &flagConfigLoader{flags: flags},
			Output:       &stdOutput{},
		},
		logger: logger,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (ic *InspectCommand) WithDependencies(deps InspectDependencies) *InspectCommand {
	ic.deps = deps
	return ic
}

// Execute runs the inspect command
func (ic *InspectCommand) Execute(ctx context.Context) error {
	cfg, projectRoot, err := ic.deps.ConfigLoader.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	builder := build.NewBuilder(cfg, projectRoot, ic.logger)
	doc, err := builder.Load()
	if err != nil {
		return err
	}
	res, err := build.Compile(doc, nil, ic.logger)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	data, err := json.MarshalIndent(res.Types, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode types: %w", err)
	}
	ic.deps.Output.Println(string(data))
	return nil
}
