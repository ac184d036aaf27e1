package materialize

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Input is a named identifier source, typically an environment variable.
type Input struct {
	Name  string
	Value string
}

// Request describes one in-place materialization.
type Request struct {
	// Path is a local path or an afs URL (file://, mem://).
	Path     string
	Primary  Input
	Fallback Input
	DryRun   bool
}

// Result describes a successful materialization.
type Result struct {
	Path       string `json:"path"`
	Identifier string `json:"identifier"`
	Source     string `json:"source,omitempty"`
	Marker     string `json:"marker"`
	Content    string `json:"-"`
	Written    bool   `json:"written"`
}

// ResolveInputs resolves the effective identifier from named inputs and
// reports which input supplied it.
func ResolveInputs(primary, fallback Input) (id, source string, err error) {
	id, err = Resolve(primary.Value, fallback.Value)
	if err != nil {
		var sources []string
		for _, in := range []Input{primary, fallback} {
			if in.Name != "" {
				sources = append(sources, in.Name)
			}
		}
		return "", "", &MissingIdentifierError{Sources: sources}
	}
	if primary.Value != "" {
		return id, primary.Name, nil
	}
	return id, fallback.Name, nil
}

// FileMaterializer rewrites a template file in place.
type FileMaterializer struct {
	fs     afs.Service
	m      Materializer
	logger *slog.Logger
}

// NewFileMaterializer creates a FileMaterializer. A nil fs uses afs.New().
func NewFileMaterializer(fs afs.Service, m Materializer, logger *slog.Logger) *FileMaterializer {
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileMaterializer{fs: fs, m: m, logger: logger}
}

// Run resolves and validates the identifier, reads the template, substitutes
// the marker and writes the result back to the same location.
// Nothing is written unless every check passes.
func (f *FileMaterializer) Run(ctx context.Context, req Request) (*Result, error) {
	id, source, err := ResolveInputs(req.Primary, req.Fallback)
	if err != nil {
		return nil, err
	}
	if err := f.m.Validate(id); err != nil {
		return nil, err
	}

	URL, err := toURL(req.Path)
	if err != nil {
		return nil, err
	}

	obj, err := f.fs.Object(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to stat template %s: %w", req.Path, err)
	}
	data, err := f.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", req.Path, err)
	}

	out, err := f.m.Apply(id, string(data))
	if err != nil {
		return nil, err
	}

	result := &Result{
		Path:       req.Path,
		Identifier: id,
		Source:     source,
		Marker:     f.m.marker(),
		Content:    out,
	}

	if req.DryRun {
		f.logger.Debug("dry run, template left unchanged", "path", req.Path, "identifier", id)
		return result, nil
	}

	if err := f.replace(ctx, URL, obj.Mode().Perm(), []byte(out)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", req.Path, err)
	}
	result.Written = true

	f.logger.Debug("template materialized", "path", req.Path, "identifier", id, "source", source)
	return result, nil
}

// replace writes data to a sibling of URL and moves it over URL, so a failed
// write leaves the original in place.
func (f *FileMaterializer) replace(ctx context.Context, URL string, mode os.FileMode, data []byte) error {
	parent, name := url.Split(URL, file.Scheme)
	tmpURL := url.Join(parent, "."+name+tmpSuffix)

	if err := f.fs.Upload(ctx, tmpURL, mode, bytes.NewReader(data)); err != nil {
		f.cleanup(ctx, tmpURL)
		return err
	}
	if err := f.fs.Move(ctx, tmpURL, URL); err != nil {
		f.cleanup(ctx, tmpURL)
		return err
	}
	return nil
}

func (f *FileMaterializer) cleanup(ctx context.Context, URL string) {
	if err := f.fs.Delete(ctx, URL); err != nil {
		f.logger.Debug("failed to remove temporary file", "url", URL, "error", err)
	}
}

const tmpSuffix = ".worldctl.tmp"

// toURL turns a plain filesystem path into a file:// URL and leaves URLs alone.
func toURL(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("template path is required")
	}
	if strings.Contains(path, "://") {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
