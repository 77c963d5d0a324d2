package commands

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/contractgen/internal/codegen/java"
	"github.com/okra-platform/contractgen/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// starterSchema is written when the configured schema does not exist yet
const starterSchema = "templates/openapi.yaml"

type InitOptions struct {
	Name      string
	Schema    string
	OutputDir string
	Package   string
	Comments  bool
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// InitCommand writes a contractgen.json, and a starter schema when none exists
type InitCommand struct {
	dir         string
	filesystem  FileSystem
	templatesFS fs.FS
	output      Output
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		dir:         ".",
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
		output:      &stdOutput{},
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	configPath := filepath.Join(ic.dir, config.FileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg := config.Default()
	cfg.Name = options.Name
	cfg.Schema = options.Schema
	cfg.Output.Dir = options.OutputDir
	cfg.Output.Package = options.Package
	cfg.Comments = &options.Comments
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	fields := []resultField{
		{Label: "Config", Value: configPath},
		{Label: "Package", Value: cfg.Output.Package},
		{Label: "Output", Value: cfg.Output.Dir},
	}

	created, err := ic.ensureSchema(cfg.Schema)
	if err != nil {
		return fmt.Errorf("failed to write starter schema: %w", err)
	}
	if created {
		fields = append(fields, resultField{Label: "Schema", Value: cfg.Schema + " (starter)"})
	} else {
		fields = append(fields, resultField{Label: "Schema", Value: cfg.Schema})
	}

	printResult(ic.output, fields, "Run contractgen generate to write the sources")
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		Name:      filepath.Base(absDir(ic.dir)),
		Schema:    "./openapi.yaml",
		OutputDir: "./generated",
		Package:   "model",
		Comments:  true,
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&options.Name),

			huh.NewInput().
				Title("Schema").
				Description("OpenAPI or JSON Schema document, created if missing").
				Value(&options.Schema).
				Validate(requiredValidator("schema path")),

			huh.NewInput().
				Title("Output directory").
				Value(&options.OutputDir).
				Validate(requiredValidator("output directory")),

			huh.NewInput().
				Title("Java package").
				Value(&options.Package).
				Validate(validatePackage),

			huh.NewConfirm().
				Title("Generate Javadoc from titles and descriptions?").
				Value(&options.Comments),
		),
	).WithTheme(formTheme())
}

// ensureSchema writes the starter schema unless a file exists at schema.
// It reports whether the file was created.
func (ic *InitCommand) ensureSchema(schema string) (bool, error) {
	path := schema
	if !filepath.IsAbs(path) {
		path = filepath.Join(ic.dir, path)
	}

	if _, err := ic.filesystem.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	data, err := fs.ReadFile(ic.templatesFS, starterSchema)
	if err != nil {
		return false, err
	}
	if err := ic.filesystem.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := ic.filesystem.WriteFile(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}

func requiredValidator(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validatePackage(s string) error {
	if !java.ValidPackageName(s) {
		return fmt.Errorf("%q is not a valid Java package name", s)
	}
	return nil
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
