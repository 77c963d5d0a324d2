package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Loader loads contract documents from a filesystem
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a Loader that reads from the given filesystem.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadFile reads and parses a document. YAML and JSON are both accepted since
// JSON documents are valid YAML.
func (l *Loader) LoadFile(filePath string) (*Document, error) {
	f, err := l.fsys.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return Parse(data, filePath)
}

// Parse parses raw document bytes. The named schemas are taken from
// components.schemas (OpenAPI 3), $defs or definitions (JSON Schema), in that
// order of preference.
func Parse(data []byte, filePath string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: filePath, Message: err.Error()}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &ParseError{Path: filePath, Message: "document is empty"}
	}

	body := resolveAlias(root.Content[0])
	if body.Kind != yaml.MappingNode {
		return nil, &ParseError{
			Path:    filePath,
			Line:    body.Line,
			Column:  body.Column,
			Message: fmt.Sprintf("document root must be a mapping, got %s", kindName(body.Kind)),
		}
	}

	sum := sha256.Sum256(data)
	doc := &Document{
		Path:     filePath,
		Checksum: hex.EncodeToString(sum[:]),
	}

	var defs *yaml.Node
	if components := lookup(body, "components"); components != nil {
		if schemas := lookup(components, "schemas"); schemas != nil {
			defs = schemas
			doc.RefPrefix = ComponentsPrefix
		}
	}
	if defs == nil {
		if schemas := lookup(body, "$defs"); schemas != nil {
			defs = schemas
			doc.RefPrefix = DefsPrefix
		}
	}
	if defs == nil {
		if schemas := lookup(body, "definitions"); schemas != nil {
			defs = schemas
			doc.RefPrefix = DefinitionsPrefix
		}
	}
	if defs == nil {
		return nil, &ParseError{
			Path:    filePath,
			Message: "no schema definitions found (expected components.schemas, $defs or definitions)",
		}
	}

	entries, err := newDecoder(filePath).namedSchemas(defs)
	if err != nil {
		return nil, err
	}
	doc.Schemas = entries

	return doc, nil
}
