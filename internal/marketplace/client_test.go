package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsixinstall/internal/utils"
)

func newTestClient() *Client {
	return NewClient(5*time.Second, "vsixinstall-test", utils.NopLogger())
}

func TestFetchSendsUserAgentAndKeepsStatus(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	resp, err := newTestClient().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.Equal(t, "short and stout", string(resp.Body))
	assert.Equal(t, "vsixinstall-test", gotAgent)
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := newTestClient().Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "request error")
}

func TestDownloadPackage(t *testing.T) {
	payload := []byte("PK\x03\x04 not really a zip")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "python.vsix")

	result, err := newTestClient().DownloadPackage(context.Background(), srv.URL, target)
	require.NoError(t, err)
	assert.Equal(t, target, result.FilePath)
	assert.Equal(t, int64(len(payload)), result.Size)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestDownloadPackageOverwrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new"))
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "python.vsix")
	require.NoError(t, os.WriteFile(target, []byte("old contents"), 0644))

	_, err := newTestClient().DownloadPackage(context.Background(), srv.URL, target)
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestDownloadPackageNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "python.vsix")

	_, err := newTestClient().DownloadPackage(context.Background(), srv.URL, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
