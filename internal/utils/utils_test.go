package utils

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn")

	l.LogInfo("hidden %d", 1)
	l.LogDebug("hidden too")
	l.LogWarning("shown %s", "warning")
	l.LogPageFailure("https://example.invalid/items", 503, nil)
	l.LogFileOperation("download", "python.vsix", 0, errors.New("disk full"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warning")
	assert.Contains(t, out, "status=503")
	assert.Contains(t, out, "disk full")
}

func TestLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "chatty")

	l.LogDebug("debug line")
	l.LogFileOperation("download", "python.vsix", 2048, nil)

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "2.0 kB")
}

func TestExtractFileFromVSIX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(PackageJSONPath)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"name":"python"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	fu := NewFileUtils()
	content, err := fu.ExtractFileFromVSIX(reader, PackageJSONPath)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"python"}`, string(content))

	_, err = fu.ExtractFileFromVSIX(reader, PackageNLSPath)
	assert.ErrorContains(t, err, "not found in .vsix archive")
}

func TestFileHelpers(t *testing.T) {
	fu := NewFileUtils()
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, fu.EnsureDirectory(dir))
	assert.True(t, fu.FileExists(dir))

	path := filepath.Join(dir, "python.VSIX")
	assert.True(t, fu.IsVSIXFile(path))
	assert.False(t, fu.IsVSIXFile("python.zip"))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, fu.RemoveIfExists(path))
	require.NoError(t, fu.RemoveIfExists(path))
	assert.False(t, fu.FileExists(path))
}
