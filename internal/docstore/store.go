// Package docstore keeps uploaded project documents and fetches them back
// by public URL.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// maxFetchBytes bounds remote downloads.
const maxFetchBytes = 50 << 20

var ErrInvalidPath = errors.New("invalid object path")

// Store persists documents and resolves public URLs back to their bytes.
type Store interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Put(ctx context.Context, objectPath string, data []byte) (string, error)
}

// FSStore is a Store backed by an afero filesystem. Objects written with
// Put are addressed as baseURL + "/" + objectPath.
type FSStore struct {
	fs      afero.Fs
	baseURL string
	http    *http.Client
}

// NewFSStore wraps fs. baseURL is the public prefix under which the HTTP
// server exposes the files.
func NewFSStore(fs afero.Fs, baseURL string) *FSStore {
	return &FSStore{
		fs:      fs,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewOSStore roots a store at dir on the local disk.
func NewOSStore(dir, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), dir), baseURL), nil
}

// ObjectPath names a new upload: <workspace>/<unix-millis>_<filename>.
func ObjectPath(workspaceID, fileName string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "document"
	}
	return fmt.Sprintf("%s/%d_%s", workspaceID, now.UnixMilli(), base)
}

func (s *FSStore) Put(_ context.Context, objectPath string, data []byte) (string, error) {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	name := "/" + clean
	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", path.Dir(clean), err)
	}
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", clean, err)
	}
	return s.baseURL + "/" + clean, nil
}

// Fetch reads objects under baseURL from the local filesystem and downloads
// anything else over HTTP.
func (s *FSStore) Fetch(ctx context.Context, url string) ([]byte, error) {
	if rel, ok := strings.CutPrefix(url, s.baseURL+"/"); ok && s.baseURL != "" {
		clean, err := cleanObjectPath(rel)
		if err != nil {
			return nil, err
		}
		data, err := afero.ReadFile(s.fs, "/"+clean)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", clean, err)
		}
		return data, nil
	}
	return s.download(ctx, url)
}

func (s *FSStore) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(data) > maxFetchBytes {
		return nil, fmt.Errorf("fetching %s: document exceeds %d bytes", url, maxFetchBytes)
	}
	return data, nil
}

// FileSystem exposes stored objects for read-only HTTP serving.
func (s *FSStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(afero.NewReadOnlyFs(s.fs))
}

func cleanObjectPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	return path.Clean(p), nil
}
