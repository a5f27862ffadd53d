// Package fs provides file-based output for scraping results.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/olxscrape"
)

// Output kinds used in file names.
const (
	KindBasic    = "basic"
	KindDetailed = "detailed"
)

// timestampLayout is YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// FileName returns "<prefix>_<kind>_<timestamp>.json".
func FileName(prefix, kind string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.json", prefix, kind, t.Format(timestampLayout))
}

// Encode renders v as two-space indented JSON with non-ASCII text and HTML
// characters left as they are.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, olxscrape.Errorf(olxscrape.EINTERNAL, "failed to encode listings: %v", err)
	}
	return buf.Bytes(), nil
}

// Ensure Writer implements olxscrape.ListingWriter at compile time.
var _ olxscrape.ListingWriter = (*Writer)(nil)

// Writer writes listing batches as timestamped JSON files in a directory.
type Writer struct {
	dir    string
	prefix string

	// Now returns the timestamp used in file names. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a Writer for dir. Files are named after prefix.
func NewWriter(dir, prefix string) *Writer {
	return &Writer{
		dir:    dir,
		prefix: prefix,
		Now:    time.Now,
	}
}

// WriteSummaries writes summary records to a "basic" file and returns its path.
func (w *Writer) WriteSummaries(ctx context.Context, listings []olxscrape.ListingSummary) (string, error) {
	if listings == nil {
		listings = []olxscrape.ListingSummary{}
	}
	return w.write(ctx, KindBasic, listings)
}

// WriteEnriched writes merged records to a "detailed" file and returns its path.
func (w *Writer) WriteEnriched(ctx context.Context, listings []olxscrape.MergedListing) (string, error) {
	if listings == nil {
		listings = []olxscrape.MergedListing{}
	}
	return w.write(ctx, KindDetailed, listings)
}

func (w *Writer) write(ctx context.Context, kind string, v any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if w.prefix == "" {
		return "", olxscrape.Errorf(olxscrape.EINVALID, "output prefix is required")
	}

	data, err := Encode(v)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", olxscrape.Errorf(olxscrape.EINTERNAL, "failed to create output directory: %v", err)
	}

	path := filepath.Join(w.dir, FileName(w.prefix, kind, w.Now()))
	if err := writeAtomic(path, data); err != nil {
		return "", olxscrape.Errorf(olxscrape.EINTERNAL, "failed to write %s: %v", path, err)
	}
	return path, nil
}

// writeAtomic writes data to a temporary file next to path, then renames
// it into place so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
