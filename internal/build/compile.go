package build

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/codegen"
	"github.com/okra-platform/contractgen/internal/document"
	"github.com/okra-platform/contractgen/internal/lower"
	"github.com/okra-platform/contractgen/internal/model"
	"github.com/okra-platform/contractgen/internal/naming"
	"github.com/okra-platform/contractgen/internal/schema"
)

// Result holds the output of every pipeline stage for one document
type Result struct {
	Document *document.Document
	Graph    *schema.Graph
	Names    *naming.Names
	Types    *model.TypeSet
	Files    []codegen.SourceFile
}

// Compile resolves, names, lowers and renders doc. Nothing is written. A nil
// generator stops after lowering.
func Compile(doc *document.Document, gen codegen.Generator, logger zerolog.Logger) (*Result, error) {
	res := &Result{Document: doc}

	graph, err := schema.Resolve(doc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema: %w", err)
	}
	res.Graph = graph

	names, err := naming.Resolve(graph)
	if err != nil {
		return nil, fmt.Errorf("failed to name types: %w", err)
	}
	res.Names = names

	logger.Debug().
		Int("types", names.Len()).
		Stringer("names", names).
		Msg("assigned type names")

	types, err := lower.Lower(graph, names)
	if err != nil {
		return nil, fmt.Errorf("failed to lower types: %w", err)
	}
	res.Types = types

	if gen == nil {
		return res, nil
	}

	files, err := gen.Generate(types)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s sources: %w", gen.Language(), err)
	}
	res.Files = files

	return res, nil
}
