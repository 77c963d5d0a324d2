// Package testutil holds fixtures shared by package tests
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/document"
)

// ParseDocument parses an inline contract document, failing the test on error.
// Leading indentation common to all lines is removed so fixtures can be
// indented with the test code.
func ParseDocument(t *testing.T, src string) *document.Document {
	t.Helper()

	doc, err := document.Parse([]byte(Dedent(src)), "inline.yaml")
	if err != nil {
		t.Fatalf("Failed to parse fixture document: %v", err)
	}
	return doc
}

// Logger returns a logger that writes through t.Log
func Logger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// WriteProject creates files (path relative to the project root) in a fresh
// temporary directory and returns the directory.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create fixture dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(Dedent(content)), 0644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", name, err)
		}
	}
	return root
}

// Dedent strips the indentation shared by all non-blank lines.
func Dedent(src string) string {
	lines := strings.Split(src, "\n")

	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || indent < prefix {
			prefix = indent
		}
	}
	if prefix <= 0 {
		return src
	}

	for i, line := range lines {
		if len(line) >= prefix {
			lines[i] = line[prefix:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
