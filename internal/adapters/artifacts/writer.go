// Package artifacts writes JSON snapshots of a run for offline inspection.
package artifacts

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	indent   = "    "
	fileExt  = ".json"
	dirPerm  = 0o750
	filePerm = 0o644
)

// Writer saves values as indented JSON files under a directory.
type Writer struct {
	dir    string
	logger ports.Logger
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, logger ports.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the directory artifacts are written to.
func (w *Writer) Dir() string {
	return w.dir
}

// Save writes v to <dir>/<name>.json, replacing any previous file, and returns its path.
// Non-ASCII text is written as is.
func (w *Writer) Save(name string, v any) (string, error) {
	path := filepath.Join(w.dir, name+fileExt)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}

	if err := os.MkdirAll(w.dir, dirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // Artifacts are meant to be readable by other tools.
	if err := os.WriteFile(path, bytes.TrimRight(buf.Bytes(), "\n"), filePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}

	w.logger.Info("data saved", "path", path)
	return path, nil
}
