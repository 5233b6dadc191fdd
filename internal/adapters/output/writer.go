// Package output writes resolved configuration for the build executor.
package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

var _ ports.ResolvedWriter = (*Writer)(nil)

// Writer implements ports.ResolvedWriter.
// Files are replaced atomically so a build reading the output never observes a partial snapshot.
type Writer struct {
	Stdout io.Writer
}

// NewWriter creates a Writer that uses os.Stdout for the "-" path.
func NewWriter() *Writer {
	return &Writer{Stdout: os.Stdout}
}

// Write serializes cfg and writes it to path.
func (w *Writer) Write(cfg *domain.ResolvedConfig, path string, format domain.Format) error {
	data, err := Encode(cfg, format)
	if err != nil {
		return err
	}

	if path == Stdout {
		if _, err := w.Stdout.Write(data); err != nil {
			return zerr.Wrap(err, "failed to write resolved configuration to stdout")
		}
		return nil
	}

	return writeAtomic(path, data)
}

// Encode serializes cfg in the given format.
func Encode(cfg *domain.ResolvedConfig, format domain.Format) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case domain.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, zerr.Wrap(err, "failed to encode resolved configuration as yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, zerr.Wrap(err, "failed to encode resolved configuration as yaml")
		}
	case domain.FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return nil, zerr.Wrap(err, "failed to encode resolved configuration as json")
		}
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedFormat, string(format)), "format", string(format))
	}

	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary output file"), "path", path)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close output file"), "path", path)
	}
	if err := os.Chmod(tmpPath, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set output file permissions"), "path", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace output file"), "path", path)
	}

	return nil
}
