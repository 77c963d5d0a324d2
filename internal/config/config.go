package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/okra-platform/contractgen/internal/codegen"
	"github.com/okra-platform/contractgen/internal/codegen/java"
)

// FileName is the name of the project configuration file
const FileName = "contractgen.json"

// ErrNotFound is returned when no configuration file exists in the search path
var ErrNotFound = errors.New("no " + FileName + " found")

// Config represents the contractgen.json configuration file
type Config struct {
	Name     string       `json:"name"`
	Schema   string       `json:"schema"`
	Language string       `json:"language"`
	Output   OutputConfig `json:"output"`
	Comments *bool        `json:"comments,omitempty"`
	Watch    WatchConfig  `json:"watch"`
}

// OutputConfig controls where and under which package sources are written
type OutputConfig struct {
	Dir     string `json:"dir"`
	Package string `json:"package"`
}

// WatchConfig contains regenerate-on-change configuration
type WatchConfig struct {
	Exclude []string `json:"exclude"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// IncludeComments reports whether Javadoc is generated
func (c *Config) IncludeComments() bool {
	return c.Comments == nil || *c.Comments
}

// Validate checks the values that would otherwise only fail at generation time
func (c *Config) Validate() error {
	if !codegen.DefaultRegistry.Supports(c.Language) {
		return fmt.Errorf("unsupported language %q (supported: %v)", c.Language, codegen.DefaultRegistry.Languages())
	}
	if !java.ValidPackageName(c.Output.Package) {
		return fmt.Errorf("invalid output package %q", c.Output.Package)
	}
	if c.Schema == "" {
		return errors.New("schema path is empty")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Schema == "" {
		c.Schema = "./openapi.yaml"
	}
	if c.Language == "" {
		c.Language = "java"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./generated"
	}
	if c.Output.Package == "" {
		c.Output.Package = "model"
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{".git/", "*.swp", "*~"}
	}
}

// LoadConfig loads contractgen.json from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

// Encode renders cfg as the indented JSON stored in contractgen.json
func Encode(cfg *Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes cfg as indented JSON to path
func Save(cfg *Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// loadConfigFromDir searches for contractgen.json in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}
