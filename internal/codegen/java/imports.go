package java

import (
	"sort"

	"github.com/okra-platform/contractgen/internal/model"
)

const javaLang = "java.lang"

// imports tracks the qualified types one compilation unit refers to and
// decides how each is spelled in the source.
type imports struct {
	pkg      string
	declared map[string]bool   // simple names of the generated types
	bySimple map[string]string // simple name -> qualified name it is bound to
	needed   map[string]bool   // qualified names to import
}

func newImports(pkg string, declared map[string]bool) *imports {
	return &imports{
		pkg:      pkg,
		declared: declared,
		bySimple: make(map[string]string),
		needed:   make(map[string]bool),
	}
}

// use returns the spelling of a qualified type and records the import it
// needs. A name without a package is java.lang. Simple names that clash with
// a generated type, or with a type already imported under the same simple
// name, are written fully qualified.
func (im *imports) use(qualified string) string {
	pkg := model.PackageOf(qualified)
	if pkg == "" {
		pkg = javaLang
		qualified = javaLang + "." + qualified
	}
	simple := model.SimpleName(qualified)

	if im.declared[simple] {
		return qualified
	}
	if bound, ok := im.bySimple[simple]; ok && bound != qualified {
		return qualified
	}
	im.bySimple[simple] = qualified

	if pkg != javaLang && pkg != im.pkg {
		im.needed[qualified] = true
	}
	return simple
}

// list returns the imports sorted
func (im *imports) list() []string {
	out := make([]string, 0, len(im.needed))
	for q := range im.needed {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}
