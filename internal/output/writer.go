package output

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/webfetch/webfetch/internal/domain"
)

// Writer handles writing documents to the filesystem
type Writer struct {
	baseDir      string
	jsonMetadata bool
	force        bool
	dryRun       bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir      string
	JSONMetadata bool
	Force        bool
	DryRun       bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = "./pages"
	}
	return &Writer{
		baseDir:      opts.BaseDir,
		jsonMetadata: opts.JSONMetadata,
		force:        opts.Force,
		dryRun:       opts.DryRun,
	}
}

// metadata is the JSON sidecar written next to a document
type metadata struct {
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Charset   string    `json:"charset,omitempty"`
	Converted bool      `json:"converted"`
	Links     []string  `json:"links,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Write saves a document to the output directory. Returns the path written.
func (w *Writer) Write(doc *domain.Document) (string, error) {
	path := w.pathFor(doc.URL)

	if !w.force {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if w.dryRun {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}

	if w.jsonMetadata {
		meta := metadata{
			URL:       doc.URL,
			Title:     doc.Title,
			Charset:   doc.Charset,
			Converted: doc.Converted,
			Links:     doc.Links,
			FetchedAt: doc.FetchedAt,
		}
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
		}
		if err := os.WriteFile(path+".meta.json", data, 0o644); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
		}
	}

	return path, nil
}

// pathFor maps a URL to an output file path under the base directory.
func (w *Writer) pathFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return filepath.Join(w.baseDir, "index.html")
	}

	name := strings.Trim(u.Path, "/")
	if name == "" {
		name = "index"
	}
	name = strings.ReplaceAll(name, "/", "-")
	if filepath.Ext(name) == "" {
		name += ".html"
	}

	return filepath.Join(w.baseDir, u.Host, name)
}
