// Package dev regenerates sources whenever the contract document changes.
package dev

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/build"
)

// Session watches the schema file of one project and regenerates its sources
type Session struct {
	generator Generator
	exclude   []string
	logger    zerolog.Logger
	onResult  ResultFunc

	// Mutex to prevent concurrent generation runs
	buildMutex   sync.Mutex
	lastChecksum string
}

// NewSession creates a session. Excludes use the FileWatcher pattern syntax.
func NewSession(gen Generator, exclude []string, logger zerolog.Logger) *Session {
	return &Session{
		generator: gen,
		exclude:   exclude,
		logger:    logger.With().Str("component", "watch").Logger(),
		onResult:  func(*build.Artifacts, error) {},
	}
}

// OnResult registers a callback for finished runs
func (s *Session) OnResult(fn ResultFunc) *Session {
	s.onResult = fn
	return s
}

// Run generates once and then regenerates on every change of the schema file
// until ctx is cancelled. Generation failures are reported and watching
// continues; only watcher setup failures end the session with an error.
func (s *Session) Run(ctx context.Context) error {
	schemaPath := s.generator.SchemaPath()

	if _, err := s.Regenerate(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial generation failed")
	}

	watcher, err := NewFileWatcher(
		[]string{filepath.Base(schemaPath)},
		s.exclude,
		func(path string, op fsnotify.Op) { s.handleFileChange(ctx, path, op) },
		s.logger,
	)
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck

	dir := filepath.Dir(schemaPath)
	if err := watcher.AddDirectory(dir); err != nil {
		return fmt.Errorf("failed to watch schema directory: %w", err)
	}

	s.logger.Info().Str("schema", schemaPath).Msg("watching for changes")

	err = watcher.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) handleFileChange(ctx context.Context, path string, op fsnotify.Op) {
	if filepath.Clean(path) != filepath.Clean(s.generator.SchemaPath()) {
		return
	}

	switch {
	case op.Has(fsnotify.Write), op.Has(fsnotify.Create):
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		// Editors that save by rename recreate the file right after
		s.logger.Warn().Str("path", path).Stringer("op", op).Msg("schema file moved away")
		return
	default:
		return
	}

	s.logger.Info().Str("path", path).Msg("schema changed, regenerating")
	if _, err := s.Regenerate(ctx); err != nil {
		s.logger.Error().Err(err).Msg("generation failed")
	}
}

// Regenerate loads the document and writes sources unless its checksum equals
// the one of the last successful run. It returns nil artifacts for a skipped run.
func (s *Session) Regenerate(ctx context.Context) (*build.Artifacts, error) {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	doc, err := s.generator.Load()
	if err != nil {
		s.onResult(nil, err)
		return nil, err
	}

	if doc.Checksum == s.lastChecksum {
		s.logger.Debug().Str("checksum", doc.Checksum).Msg("schema unchanged, skipping")
		return nil, nil
	}

	artifacts, err := s.generator.GenerateDocument(ctx, doc)
	if err != nil {
		s.onResult(nil, err)
		return nil, err
	}
	s.lastChecksum = doc.Checksum

	s.logger.Info().
		Int("files", len(artifacts.Files)).
		Int("removed", len(artifacts.Removed)).
		Msg("sources regenerated")
	s.onResult(artifacts, nil)
	return artifacts, nil
}
