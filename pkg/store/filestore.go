package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileStore keeps uploaded images on local disk and serves them under a
// public URL prefix. It stands in for an external object store; callers
// depend on the Save contract only, so a CDN-backed implementation can be
// swapped in without touching the handlers.
type FileStore struct {
	dir     string
	baseURL string
}

// NewFileStore creates the store and its directory
func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Save writes the image stream into the given folder under a random name,
// keeping the original extension, and returns its public URL
func (f *FileStore) Save(folder, origName string, r io.Reader) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(origName)))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	name := hex.EncodeToString(buf) + ext

	dir := filepath.Join(f.dir, folder)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}

	dst, err := os.Create(filepath.Join(dir, name)) //nolint:gosec // name is generated, folder is fixed by callers
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path.Join(f.baseURL, folder, name), nil
}

// Handler serves the stored files; mount it under the base URL prefix
func (f *FileStore) Handler() http.Handler {
	return http.StripPrefix(f.baseURL, http.FileServer(http.Dir(f.dir)))
}

// BaseURL returns the public URL prefix files are served under
func (f *FileStore) BaseURL() string {
	return f.baseURL
}
