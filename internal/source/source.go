// Package source resolves data files relative to a data root on disk or over HTTP.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when no candidate location holds the file.
var ErrNotFound = errors.New("not found")

// Fetcher retrieves a data file by path relative to a data root.
type Fetcher interface {
	Fetch(ctx context.Context, rel string) ([]byte, error)
}

// New returns an HTTP fetcher for http(s) roots and a directory fetcher otherwise.
func New(root string) Fetcher {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTP(root)
	}
	return Dir{Root: root}
}

// Dir fetches from the local filesystem. Candidates are the path under Root, then the
// path as given; each is also tried with a ".zst" suffix holding a zstd-compressed copy.
type Dir struct {
	Root string
}

func (d Dir) candidates(rel string) []string {
	under := filepath.Join(d.Root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
	out := []string{under}
	if asGiven := filepath.FromSlash(rel); asGiven != under {
		out = append(out, asGiven)
	}
	return out
}

func (d Dir) Fetch(ctx context.Context, rel string) ([]byte, error) {
	for _, p := range d.candidates(rel) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if data, err := os.ReadFile(p); err == nil {
			return data, nil
		}
		if f, err := os.Open(p + ".zst"); err == nil {
			data, err := decompress(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("fetch %s: %w", rel, err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", rel, ErrNotFound)
}

func decompress(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return buf.Bytes(), nil
}

// Compress zstd-encodes data for storage next to plain files.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// HTTP fetches from a web server. Candidates are the path resolved against the base URL,
// then the path resolved against the server root.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP returns a fetcher rooted at baseURL. An unparseable URL yields a fetcher that
// always reports ErrNotFound.
func NewHTTP(baseURL string) *HTTP {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		u = nil
	}
	return &HTTP{base: u, client: &http.Client{Timeout: 30 * time.Second}}
}

func (h *HTTP) candidates(rel string) []string {
	if h.base == nil {
		return nil
	}
	trimmed := strings.TrimPrefix(rel, "/")
	under := h.base.ResolveReference(&url.URL{Path: trimmed}).String()
	root := h.base.ResolveReference(&url.URL{Path: path.Join("/", trimmed)}).String()
	if root == under {
		return []string{under}
	}
	return []string{under, root}
}

func (h *HTTP) Fetch(ctx context.Context, rel string) ([]byte, error) {
	for _, u := range h.candidates(rel) {
		data, err := h.get(ctx, u)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", rel, ErrNotFound)
}

func (h *HTTP) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
