package codegen

import (
	"github.com/okra-platform/contractgen/internal/codegen/java"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("java", func(opts Options) Generator {
		return java.NewGenerator(opts.PackageName).WithComments(opts.IncludeComments)
	})
}
