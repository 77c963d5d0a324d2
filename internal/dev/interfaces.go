package dev

import (
	"context"

	"github.com/okra-platform/contractgen/internal/build"
	"github.com/okra-platform/contractgen/internal/document"
)

// Generator loads the watched document and writes sources for it.
// *build.Builder implements it.
type Generator interface {
	SchemaPath() string
	Load() (*document.Document, error)
	GenerateDocument(ctx context.Context, doc *document.Document) (*build.Artifacts, error)
}

// ResultFunc receives the outcome of every regeneration. Skipped runs are not reported.
type ResultFunc func(artifacts *build.Artifacts, err error)

var _ Generator = (*build.Builder)(nil)
