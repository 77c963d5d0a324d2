package codegen

import "github.com/okra-platform/contractgen/internal/model"

// SourceFile is one rendered declaration
type SourceFile = model.SourceFile

// Generator is the interface that all language-specific code generators must implement
type Generator interface {
	// Generate renders one source file per declaration of the type set
	Generate(ts *model.TypeSet) ([]SourceFile, error)

	// Language returns the name of the target language (e.g., "java")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".java")
	FileExtension() string
}

// Options contains common options for code generation
type Options struct {
	// PackageName is the package/namespace for the generated code
	PackageName string

	// IncludeComments determines whether to include documentation comments
	IncludeComments bool
}
