package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestLoadConfigFromPath(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected Config
	}{
		{
			name: "valid config with all fields",
			config: Config{
				Name:     "orders-api",
				Schema:   "./api/openapi.yaml",
				Language: "java",
				Output:   OutputConfig{Dir: "./src/main/java", Package: "com.example.orders"},
				Comments: boolPtr(false),
				Watch:    WatchConfig{Exclude: []string{"tmp/"}},
			},
			expected: Config{
				Name:     "orders-api",
				Schema:   "./api/openapi.yaml",
				Language: "java",
				Output:   OutputConfig{Dir: "./src/main/java", Package: "com.example.orders"},
				Comments: boolPtr(false),
				Watch:    WatchConfig{Exclude: []string{"tmp/"}},
			},
		},
		{
			name:   "config with defaults",
			config: Config{Name: "minimal"},
			expected: Config{
				Name:     "minimal",
				Schema:   "./openapi.yaml",
				Language: "java",
				Output:   OutputConfig{Dir: "./generated", Package: "model"},
				Watch:    WatchConfig{Exclude: []string{".git/", "*.swp", "*~"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, FileName)

			data, err := json.MarshalIndent(tt.config, "", "  ")
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(configPath, data, 0644))

			got, err := LoadConfigFromPath(configPath)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestConfig_IncludeComments(t *testing.T) {
	// Test: comments default to on, an explicit false is honoured
	assert.True(t, Default().IncludeComments())
	assert.True(t, (&Config{Comments: boolPtr(true)}).IncludeComments())
	assert.False(t, (&Config{Comments: boolPtr(false)}).IncludeComments())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:        "unknown language",
			mutate:      func(c *Config) { c.Language = "cobol" },
			errContains: `unsupported language "cobol"`,
		},
		{
			name:        "package with keyword",
			mutate:      func(c *Config) { c.Output.Package = "com.example.int" },
			errContains: "invalid output package",
		},
		{
			name:        "package with dash",
			mutate:      func(c *Config) { c.Output.Package = "com.my-co" },
			errContains: "invalid output package",
		},
		{
			name:        "empty schema",
			mutate:      func(c *Config) { c.Schema = "" },
			errContains: "schema path is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadConfigFromPath_Errors(t *testing.T) {
	tests := []struct {
		name        string
		setupFunc   func(string) string
		errContains string
	}{
		{
			name: "file not found",
			setupFunc: func(tmpDir string) string {
				return filepath.Join(tmpDir, "nonexistent.json")
			},
			errContains: "failed to read config file",
		},
		{
			name: "invalid json",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, FileName)
				os.WriteFile(path, []byte("invalid json"), 0644)
				return path
			},
			errContains: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := tt.setupFunc(tmpDir)

			_, err := LoadConfigFromPath(configPath)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Name = "saved"
	cfg.Comments = boolPtr(false)

	require.NoError(t, Save(cfg, path))

	got, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadConfig(t *testing.T) {
	// Test finding contractgen.json in a parent directory
	t.Run("config in parent dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		subDir := filepath.Join(tmpDir, "subdir")
		require.NoError(t, os.MkdirAll(subDir, 0755))
		require.NoError(t, Save(&Config{Name: "parent"}, filepath.Join(tmpDir, FileName)))

		got, projectRoot, err := loadConfigFromDir(subDir)
		require.NoError(t, err)
		assert.Equal(t, "parent", got.Name)
		assert.Equal(t, tmpDir, projectRoot)
	})

	t.Run("config in current dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, Save(&Config{Name: "current"}, filepath.Join(tmpDir, FileName)))

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		require.NoError(t, os.Chdir(tmpDir))

		got, projectRoot, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "current", got.Name)
		// Use filepath.EvalSymlinks to resolve any symlinks for comparison
		expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
		actualRoot, _ := filepath.EvalSymlinks(projectRoot)
		assert.Equal(t, expectedRoot, actualRoot)
	})

	t.Run("no config found", func(t *testing.T) {
		_, _, err := loadConfigFromDir(t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Contains(t, err.Error(), "no contractgen.json found")
	})
}
