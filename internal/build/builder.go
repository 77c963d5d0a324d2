// Package build runs the generation pipeline for a configured project and
// writes the resulting sources.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/codegen"
	"github.com/okra-platform/contractgen/internal/config"
	"github.com/okra-platform/contractgen/internal/document"
	"github.com/okra-platform/contractgen/internal/model"
)

// ManifestName is the file recording the last generation run in the output directory
const ManifestName = ".contractgen-manifest.json"

// Artifacts describes the outcome of a generation run
type Artifacts struct {
	// OutputDir is the absolute output root
	OutputDir string

	// Files are the written files, relative to OutputDir, slash separated
	Files []string

	// Removed are files of the previous run that are no longer generated
	Removed []string

	// Types contains the lowered declarations
	Types *model.TypeSet

	// BuildInfo contains run metadata
	BuildInfo BuildInfo
}

// BuildInfo contains metadata about a generation run
type BuildInfo struct {
	// RunID identifies the run in logs
	RunID string `json:"runId"`

	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`

	// Language and Package the sources were generated for
	Language string `json:"language"`
	Package  string `json:"package"`

	// Schema is the document path as configured
	Schema string `json:"schema"`

	// SchemaChecksum is the SHA-256 of the document bytes
	SchemaChecksum string `json:"schemaChecksum"`

	// Files lists the generated files relative to the output root
	Files []string `json:"files"`
}

// Builder generates sources for one project
type Builder struct {
	config      *config.Config
	projectRoot string
	logger      zerolog.Logger
	registry    *codegen.Registry
	now         func() time.Time
}

// NewBuilder creates a builder for the project rooted at projectRoot
func NewBuilder(cfg *config.Config, projectRoot string, logger zerolog.Logger) *Builder {
	return &Builder{
		config:      cfg,
		projectRoot: projectRoot,
		logger:      logger.With().Str("component", "builder").Logger(),
		registry:    codegen.DefaultRegistry,
		now:         time.Now,
	}
}

// WithRegistry replaces the generator registry
func (b *Builder) WithRegistry(r *codegen.Registry) *Builder {
	b.registry = r
	return b
}

// SchemaPath returns the absolute path of the contract document
func (b *Builder) SchemaPath() string {
	return b.resolve(b.config.Schema)
}

// OutputDir returns the absolute output root
func (b *Builder) OutputDir() string {
	return b.resolve(b.config.Output.Dir)
}

func (b *Builder) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(b.projectRoot, p)
}

// Load reads and parses the contract document
func (b *Builder) Load() (*document.Document, error) {
	path := b.SchemaPath()
	loader := document.NewLoader(os.DirFS(filepath.Dir(path)))

	doc, err := loader.LoadFile(filepath.Base(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("schema file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to load schema %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Compile loads the document and runs the pipeline without writing anything
func (b *Builder) Compile() (*Result, error) {
	doc, err := b.Load()
	if err != nil {
		return nil, err
	}
	return b.CompileDocument(doc)
}

// CompileDocument runs the pipeline over an already loaded document
func (b *Builder) CompileDocument(doc *document.Document) (*Result, error) {
	gen, err := b.registry.Get(b.config.Language, codegen.Options{
		PackageName:     b.config.Output.Package,
		IncludeComments: b.config.IncludeComments(),
	})
	if err != nil {
		return nil, err
	}
	return Compile(doc, gen, b.logger)
}

// Generate runs the whole pipeline and writes one file per declared type.
// Files are only written once every stage succeeded.
func (b *Builder) Generate(ctx context.Context) (*Artifacts, error) {
	doc, err := b.Load()
	if err != nil {
		return nil, err
	}
	return b.GenerateDocument(ctx, doc)
}

// GenerateDocument is Generate for an already loaded document
func (b *Builder) GenerateDocument(ctx context.Context, doc *document.Document) (*Artifacts, error) {
	start := b.now()
	runID := uuid.NewString()
	logger := b.logger.With().Str("run_id", runID).Logger()

	logger.Info().
		Str("schema", doc.Path).
		Str("language", b.config.Language).
		Msg("generating sources")

	res, err := b.CompileDocument(doc)
	if err != nil {
		return nil, err
	}

	outDir := b.OutputDir()
	previous, err := readManifest(outDir)
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable manifest")
	}

	written := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		if err := ctx.Err(); err != nil {
			b.recordPartial(outDir, previous, written, runID, start, logger)
			return nil, err
		}
		if err := writeFile(outDir, f.Path, f.Content); err != nil {
			b.recordPartial(outDir, previous, written, runID, start, logger)
			return nil, err
		}
		written = append(written, f.Path)
		logger.Debug().Str("path", f.Path).Int("size", len(f.Content)).Msg("wrote source file")
	}

	removed := removeStale(outDir, previous, written, logger)

	info := BuildInfo{
		RunID:          runID,
		Timestamp:      start,
		Language:       b.config.Language,
		Package:        b.config.Output.Package,
		Schema:         b.config.Schema,
		SchemaChecksum: doc.Checksum,
		Files:          written,
	}
	if err := writeManifest(outDir, info); err != nil {
		return nil, err
	}

	logger.Info().
		Int("types", len(res.Types.Declarations)).
		Int("files", len(written)).
		Int("removed", len(removed)).
		Str("output", outDir).
		Dur("duration", b.now().Sub(start)).
		Msg("generated sources")

	return &Artifacts{
		OutputDir: outDir,
		Files:     written,
		Removed:   removed,
		Types:     res.Types,
		BuildInfo: info,
	}, nil
}

// recordPartial keeps track of the files an interrupted run already wrote,
// together with those of the previous run, so the next complete run can
// remove whichever of them it no longer produces. The checksum is left
// empty since the output does not match any document.
func (b *Builder) recordPartial(outDir string, previous *BuildInfo, written []string, runID string, start time.Time, logger zerolog.Logger) {
	if len(written) == 0 {
		return
	}

	var files []string
	seen := make(map[string]bool)
	if previous != nil {
		for _, f := range previous.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	for _, f := range written {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	info := BuildInfo{
		RunID:     runID,
		Timestamp: start,
		Language:  b.config.Language,
		Package:   b.config.Output.Package,
		Schema:    b.config.Schema,
		Files:     files,
	}
	if err := writeManifest(outDir, info); err != nil {
		logger.Warn().Err(err).Msg("failed to record partially written sources")
	}
}

// writeFile writes content under root through a temporary file so a reader
// never sees a half written source.
func writeFile(root, rel string, content []byte) error {
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".contractgen-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(content); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// ReadManifest returns the info of the last run written to outDir, or nil
// when there is none.
func ReadManifest(outDir string) (*BuildInfo, error) {
	return readManifest(outDir)
}

func readManifest(outDir string) (*BuildInfo, error) {
	data, err := os.ReadFile(filepath.Join(outDir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var info BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &info, nil
}

func writeManifest(outDir string, info BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return writeFile(outDir, ManifestName, append(data, '\n'))
}

// removeStale deletes the files of the previous run that were not generated
// again. Entries pointing outside the output root are ignored.
func removeStale(outDir string, previous *BuildInfo, written []string, logger zerolog.Logger) []string {
	if previous == nil {
		return nil
	}

	current := make(map[string]bool, len(written))
	for _, f := range written {
		current[f] = true
	}

	var removed []string
	for _, f := range previous.Files {
		if current[f] || !filepath.IsLocal(filepath.FromSlash(f)) {
			continue
		}
		err := os.Remove(filepath.Join(outDir, filepath.FromSlash(f)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("path", f).Msg("failed to remove stale file")
			continue
		}
		removed = append(removed, f)
	}
	sort.Strings(removed)
	return removed
}
