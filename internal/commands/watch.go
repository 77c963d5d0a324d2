package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/build"
	"github.com/okra-platform/contractgen/internal/config"
	"github.com/okra-platform/contractgen/internal/dev"
)

// WatchDependencies for the watch command
type WatchDependencies struct {
	ConfigLoader   ConfigLoader
	SessionFactory SessionFactory
	SignalNotifier SignalNotifier
	Output         Output
}

type SessionFactory interface {
	NewSession(cfg *config.Config, projectRoot string, onResult dev.ResultFunc) Session
}

type Session interface {
	Run(ctx context.Context) error
}

type defaultSessionFactory struct {
	logger zerolog.Logger
}

func (f *defaultSessionFactory) NewSession(cfg *config.Config, projectRoot string, onResult dev.ResultFunc) Session {
	builder := build.NewBuilder(cfg, projectRoot, f.logger)
	return dev.NewSession(builder, cfg.Watch.Exclude, f.logger).OnResult(onResult)
}

// WatchCommand regenerates sources whenever the schema file changes
type WatchCommand struct {
	deps WatchDependencies
}

// NewWatchCommand creates a watch command with default dependencies
func NewWatchCommand(flags *Flags, logger zerolog.Logger) *WatchCommand {
	return &WatchCommand{
		deps: WatchDependencies{
			ConfigLoader:   &flagConfigLoader{flags: flags},
			SessionFactory: &defaultSessionFactory{logger: logger},
			SignalNotifier: &osSignalNotifier{},
			Output:         &stdOutput{},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (wc *WatchCommand) WithDependencies(deps WatchDependencies) *WatchCommand {
	wc.deps = deps
	return wc
}

// Execute runs the watch command until interrupted
func (wc *WatchCommand) Execute(ctx context.Context) error {
	cfg, projectRoot, err := wc.deps.ConfigLoader.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	wc.deps.Output.Printf("Watching %s (%s, package %s)\n", cfg.Schema, cfg.Language, cfg.Output.Package)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	wc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer wc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			wc.deps.Output.Println("\nStopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	onResult := func(artifacts *build.Artifacts, err error) {
		if err != nil {
			printFailure(wc.deps.Output, err)
			return
		}
		printResult(wc.deps.Output, summaryFields(cfg, artifacts), "Sources regenerated")
	}

	session := wc.deps.SessionFactory.NewSession(cfg, projectRoot, onResult)
	if err := session.Run(ctx); err != nil {
		if err == context.Canceled {
			return nil
		}
		return fmt.Errorf("watch error: %w", err)
	}

	return nil
}
