package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/okra-platform/contractgen/internal/config"
)

// Interfaces for dependency injection
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
}

type Output interface {
	Printf(format string, args ...any)
	Println(args ...any)
}

type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// flagConfigLoader loads contractgen.json and applies the global flag overrides.
// Without a config file a --schema flag is enough to run on defaults.
type flagConfigLoader struct {
	flags *Flags
}

func (l *flagConfigLoader) LoadConfig() (*config.Config, string, error) {
	cfg, root, err := l.load()
	if err != nil {
		return nil, "", err
	}

	l.flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, root, nil
}

func (l *flagConfigLoader) load() (*config.Config, string, error) {
	if l.flags.ConfigPath != "" {
		cfg, err := config.LoadConfigFromPath(l.flags.ConfigPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, dirOf(l.flags.ConfigPath), nil
	}

	cfg, root, err := config.LoadConfig()
	if errors.Is(err, config.ErrNotFound) && l.flags.Schema != "" {
		wd, werr := os.Getwd()
		if werr != nil {
			return nil, "", fmt.Errorf("failed to get current directory: %w", werr)
		}
		return config.Default(), wd, nil
	}
	return cfg, root, err
}

type stdOutput struct{}

func (o *stdOutput) Printf(format string, args ...any) {
	fmt.Printf(format, args...)
}

func (o *stdOutput) Println(args ...any) {
	fmt.Println(args...)
}

type osSignalNotifier struct{}

func (n *osSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *osSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}
