package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categoryAlias    writeCategory = "alias"
	categoryAsset    writeCategory = "asset"
	categorySitemap  writeCategory = "sitemap"
	categoryRobots   writeCategory = "robots"
	categoryFeed     writeCategory = "feed"
	categoryManifest writeCategory = "manifest"
)

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Section     string
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// artifactWriter abstracts the output filesystem so builds can be pointed at
// an in-memory sink in tests and dry runs.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	RemoveAll(ctx context.Context, path string) error
}

// osWriter persists artifacts under a root directory on the local
// filesystem. The root may be absolute; every request path is taken as
// relative to it.
type osWriter struct {
	root string
}

func newOSWriter(root string) *osWriter {
	return &osWriter{root: strings.TrimSpace(root)}
}

func (w *osWriter) resolve(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(strings.TrimLeft(rel, "/")))
}

func (w *osWriter) EnsureDir(_ context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return os.MkdirAll(w.resolve(path), 0o755)
}

func (w *osWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	target := w.resolve(req.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: prepare %s: %w", req.Path, err)
	}
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", req.Path, err)
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		file.Close()
		return fmt.Errorf("generator: write %s: %w", req.Path, err)
	}
	return file.Close()
}

func (w *osWriter) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(w.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("generator: read %s: %w", path, err)
	}
	return data, nil
}

func (w *osWriter) RemoveAll(_ context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("generator: remove requires path")
	}
	return os.RemoveAll(w.resolve(path))
}

// memoryWriter captures writes for dry runs and tests.
type memoryWriter struct {
	files map[string][]byte
	meta  map[string]writeFileRequest
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{
		files: map[string][]byte{},
		meta:  map[string]writeFileRequest{},
	}
}

func (w *memoryWriter) EnsureDir(context.Context, string) error { return nil }

func (w *memoryWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	w.files[req.Path] = data
	w.meta[req.Path] = req
	return nil
}

func (w *memoryWriter) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, ok := w.files[path]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (w *memoryWriter) RemoveAll(_ context.Context, path string) error {
	if path == "." || path == "" {
		w.files = map[string][]byte{}
		w.meta = map[string]writeFileRequest{}
		return nil
	}
	for key := range w.files {
		if key == path || strings.HasPrefix(key, path+"/") {
			delete(w.files, key)
			delete(w.meta, key)
		}
	}
	return nil
}
