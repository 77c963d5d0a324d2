package dev

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match schema file",
			patterns: []string{"openapi.yaml"},
			path:     "/project/openapi.yaml",
			want:     true,
		},
		{
			name:     "other yaml file",
			patterns: []string{"openapi.yaml"},
			path:     "/project/other.yaml",
			want:     false,
		},
		{
			name:     "match nested file with ** pattern",
			patterns: []string{"**/*.yaml"},
			path:     "/project/schemas/orders/order.yaml",
			want:     true,
		},
		{
			name:     "** pattern needs the dot",
			patterns: []string{"**/*.yaml"},
			path:     "/project/notyaml",
			want:     false,
		},
		{
			name:     "exclude swap file",
			patterns: []string{"*.yaml*"},
			exclude:  []string{"*.swp"},
			path:     "/project/.openapi.yaml.swp",
			want:     false,
		},
		{
			name:     "exclude backup file",
			patterns: []string{"openapi.yaml*"},
			exclude:  []string{"*~"},
			path:     "/project/openapi.yaml~",
			want:     false,
		},
		{
			name:     "directory excludes do not apply to files",
			patterns: []string{"*.json"},
			exclude:  []string{"schema.json/"},
			path:     "/project/schema.json",
			want:     true,
		},
		{
			name:     "exclude overrides pattern",
			patterns: []string{"*.yaml"},
			exclude:  []string{"openapi.yaml"},
			path:     "/project/openapi.yaml",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &FileWatcher{
				patterns: tt.patterns,
				exclude:  tt.exclude,
			}

			got := fw.shouldWatch(tt.path)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileWatcher_excluded(t *testing.T) {
	fw := &FileWatcher{exclude: []string{".git/", "*.swp"}}

	assert.True(t, fw.excluded(".git", true))
	assert.False(t, fw.excluded(".git", false))
	assert.True(t, fw.excluded("a.swp", false))
	assert.False(t, fw.excluded("openapi.yaml", false))
}

func TestFileWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755))

	var events []string
	var eventsMu sync.Mutex

	onChange := func(path string, op fsnotify.Op) {
		eventsMu.Lock()
		defer eventsMu.Unlock()
		events = append(events, filepath.Base(path))
	}

	fw, err := NewFileWatcher(
		[]string{"*.yaml"},
		[]string{".git/", "*.swp"},
		onChange,
		zerolog.Nop(),
	)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.AddDirectory(tmpDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- fw.Start(ctx)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "openapi.yaml"), []byte("openapi: 3.0.0"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "openapi.yaml.swp"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".git", "ignored.yaml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644))

	assert.Eventually(t, func() bool {
		eventsMu.Lock()
		defer eventsMu.Unlock()
		for _, e := range events {
			if e == "openapi.yaml" {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errChan, context.Canceled)

	eventsMu.Lock()
	defer eventsMu.Unlock()
	for _, e := range events {
		assert.Equal(t, "openapi.yaml", e)
	}
}

func TestFileWatcher_NewDirectoriesAreWatched(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	seen := make(chan string, 256)

	fw, err := NewFileWatcher([]string{"*.yaml"}, nil, func(path string, op fsnotify.Op) {
		seen <- path
	}, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.AddDirectory(tmpDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Start(ctx) //nolint:errcheck

	nested := filepath.Join(tmpDir, "schemas")
	require.NoError(t, os.MkdirAll(nested, 0755))

	// The directory is added asynchronously; keep touching the file until it is seen
	target := filepath.Join(nested, "order.yaml")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(target, []byte("type: object"), 0644)
		select {
		case p := <-seen:
			return p == target
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_AddDirectoryMissing(t *testing.T) {
	fw, err := NewFileWatcher([]string{"*.yaml"}, nil, func(string, fsnotify.Op) {}, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	err = fw.AddDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFileWatcher_Close(t *testing.T) {
	fw, err := NewFileWatcher(
		[]string{"*.yaml"},
		[]string{},
		func(string, fsnotify.Op) {},
		zerolog.Nop(),
	)
	require.NoError(t, err)

	// Close should not error
	err = fw.Close()
	assert.NoError(t, err)

	// Double close should also be safe
	err = fw.Close()
	assert.NoError(t, err)
}
