package store

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Save(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "/static/")
	require.NoError(t, err)
	assert.Equal(t, "/static", fs.BaseURL())

	url, err := fs.Save("rices", "screenshot.PNG", strings.NewReader("fake png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/rices/"), "url: %s", url)
	assert.True(t, strings.HasSuffix(url, ".png"), "extension kept lowercase: %s", url)

	// the file landed on disk with the generated name
	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(dir, "rices", name))
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))

	// two saves never collide
	other, err := fs.Save("rices", "screenshot.png", strings.NewReader("more bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, url, other)
}

func TestFileStore_RejectsUnknownTypes(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "/static")
	require.NoError(t, err)

	_, err = fs.Save("rices", "payload.exe", strings.NewReader("nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")

	_, err = fs.Save("rices", "no-extension", strings.NewReader("nope"))
	assert.Error(t, err)
}

func TestFileStore_Handler(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "/static")
	require.NoError(t, err)

	url, err := fs.Save("avatars", "me.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	srv := httptest.NewServer(fs.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
