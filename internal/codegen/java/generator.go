// Package java renders lowered type declarations as Java source files:
// data classes with accessors and fluent setters, and string enums.
package java

import (
	"fmt"
	"path"
	"strings"

	"github.com/okra-platform/contractgen/internal/codegen/writer"
	"github.com/okra-platform/contractgen/internal/model"
)

const indent = "  "

// Generator generates Java model classes and enums
type Generator struct {
	packageName string
	comments    bool
}

// NewGenerator creates a new Java code generator for packageName
func NewGenerator(packageName string) *Generator {
	return &Generator{
		packageName: packageName,
		comments:    true,
	}
}

// WithComments toggles Javadoc output
func (g *Generator) WithComments(comments bool) *Generator {
	g.comments = comments
	return g
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "java"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".java"
}

// Generate renders one compilation unit per declaration, in declaration order.
func (g *Generator) Generate(ts *model.TypeSet) ([]model.SourceFile, error) {
	if g.packageName != "" && !ValidPackageName(g.packageName) {
		return nil, fmt.Errorf("invalid java package name: %q", g.packageName)
	}

	declared := make(map[string]bool, len(ts.Declarations))
	for _, d := range ts.Declarations {
		declared[d.DeclName()] = true
	}

	files := make([]model.SourceFile, 0, len(ts.Declarations))
	for _, d := range ts.Declarations {
		content, err := g.render(d, declared)
		if err != nil {
			return nil, err
		}
		files = append(files, model.SourceFile{
			Path:     g.filePath(d.DeclName()),
			Package:  g.packageName,
			TypeName: d.DeclName(),
			Content:  content,
		})
	}
	return files, nil
}

func (g *Generator) filePath(typeName string) string {
	dirs := strings.ReplaceAll(g.packageName, ".", "/")
	return path.Join(dirs, typeName+g.FileExtension())
}

// render writes the body first so that the import list is complete before
// the header is assembled.
func (g *Generator) render(d model.Declaration, declared map[string]bool) ([]byte, error) {
	imports := newImports(g.packageName, declared)
	body := writer.NewWriter(indent)

	switch v := d.(type) {
	case *model.Class:
		g.writeClass(body, v, imports)
	case *model.Enum:
		g.writeEnum(body, v, imports)
	default:
		return nil, fmt.Errorf("unsupported declaration %T", d)
	}

	w := writer.NewWriter(indent)
	if g.packageName != "" {
		w.WriteLinef("package %s;", g.packageName)
		w.BlankLine()
	}
	if list := imports.list(); len(list) > 0 {
		for _, imp := range list {
			w.WriteLinef("import %s;", imp)
		}
		w.BlankLine()
	}
	w.Write(body.String())

	return w.Bytes(), nil
}

func (g *Generator) writeDoc(w *writer.Writer, doc string) {
	if g.comments {
		w.WriteDocComment(doc)
	}
}

// ValidPackageName reports whether name is a dotted list of Java identifiers
// none of which is a keyword.
func ValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if !validIdentifier(part) {
			return false
		}
	}
	return true
}
