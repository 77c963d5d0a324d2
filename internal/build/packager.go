package build

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okra-platform/contractgen/internal/config"
)

// Packager bundles the output of a generation run into a .tar.gz archive
type Packager struct {
	config *config.Config
}

// NewPackager creates a new packager
func NewPackager(cfg *config.Config) *Packager {
	return &Packager{
		config: cfg,
	}
}

// Archive entry names besides the sources, which keep their relative paths
// under sources/.
const (
	archiveSourcesDir = "sources"
	archiveTypes      = "types.json"
	archiveConfig     = config.FileName
	archiveManifest   = "manifest.json"
)

// CreatePackage writes the generated sources, the lowered types, the config
// and the run manifest to outputPath
func (p *Packager) CreatePackage(artifacts *Artifacts, outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create package file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close package file: %w", cerr)
		}
	}()

	gzipWriter := gzip.NewWriter(file)
	tarWriter := tar.NewWriter(gzipWriter)
	modTime := artifacts.BuildInfo.Timestamp

	for _, rel := range artifacts.Files {
		source := filepath.Join(artifacts.OutputDir, filepath.FromSlash(rel))
		if err := p.addFileToTar(tarWriter, source, path.Join(archiveSourcesDir, rel)); err != nil {
			return fmt.Errorf("failed to add %s to package: %w", rel, err)
		}
	}

	entries := []struct {
		name  string
		value any
	}{
		{archiveTypes, artifacts.Types},
		{archiveConfig, p.config},
		{archiveManifest, artifacts.BuildInfo},
	}
	for _, e := range entries {
		data, err := json.MarshalIndent(e.value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", e.name, err)
		}
		if err := p.addDataToTar(tarWriter, data, e.name, modTime); err != nil {
			return fmt.Errorf("failed to add %s to package: %w", e.name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish package: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish package: %w", err)
	}
	return nil
}

// addFileToTar adds a file to the tar archive
func (p *Packager) addFileToTar(tw *tar.Writer, sourcePath, destName string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    destName,
		Size:    info.Size(),
		Mode:    int64(info.Mode().Perm()),
		ModTime: info.ModTime(),
	}

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tw, file)
	return err
}

// addDataToTar adds raw data to the tar archive
func (p *Packager) addDataToTar(tw *tar.Writer, data []byte, name string, modTime time.Time) error {
	header := &tar.Header{
		Name:    name,
		Size:    int64(len(data)),
		Mode:    0644,
		ModTime: modTime,
	}

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err := tw.Write(data)
	return err
}
