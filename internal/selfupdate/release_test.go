package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"darwin", "amd64", "lessonscript_Darwin_all.tar.gz"},
		{"darwin", "arm64", "lessonscript_Darwin_all.tar.gz"},
		{"linux", "amd64", "lessonscript_Linux_x86_64.tar.gz"},
		{"linux", "arm64", "lessonscript_Linux_arm64.tar.gz"},
		{"linux", "386", "lessonscript_Linux_i386.tar.gz"},
		{"windows", "amd64", "lessonscript_Windows_x86_64.zip"},
		{"windows", "arm64", "lessonscript_Windows_arm64.zip"},
		{"freebsd", "amd64", ""},
		{"linux", "mips", ""},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.want == "" {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	assert.Equal(t, map[string]string{
		"lessonscript_Darwin_all.tar.gz":   "abc123",
		"lessonscript_Linux_x86_64.tar.gz": "def456",
	}, parseChecksums([]byte("abc123  lessonscript_Darwin_all.tar.gz\ndef456  lessonscript_Linux_x86_64.tar.gz\n")))

	assert.Empty(t, parseChecksums(nil))

	assert.Equal(t, map[string]string{
		"file.tar.gz":  "abc123",
		"other.tar.gz": "ghi789",
	}, parseChecksums([]byte("abc123  file.tar.gz\nbadline\n  \nfoo  bar  baz\nghi789  other.tar.gz")))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))
	assert.ErrorIs(t, verifyChecksum(data, "00"), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	content := []byte("#!/bin/sh\necho lessonscript")

	got, err := extractBinary(buildTarGz(t, "dist/lessonscript", content), "lessonscript_Linux_x86_64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	got, err = extractBinary(buildZip(t, "lessonscript.exe", content), "lessonscript_Windows_x86_64.zip")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = extractBinary(buildTarGz(t, "README.md", content), "lessonscript_Darwin_all.tar.gz")
	require.ErrorContains(t, err, "not found")

	_, err = extractBinary([]byte("not an archive"), "lessonscript_Darwin_all.tar.gz")
	require.ErrorContains(t, err, "gzip")
}

func TestApplyUpdate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "lessonscript")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	binary := []byte("new-binary-content")
	sum := sha256.Sum256(binary)
	require.NoError(t, applyUpdate(binary, target, sum[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, binary, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging directory should be removed")
}

func TestApplyUpdateHashMismatch(t *testing.T) {
	target := filepath.Join(t.TempDir(), "lessonscript")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	err := applyUpdate([]byte("new"), target, make([]byte, sha256.Size))
	require.ErrorIs(t, err, ErrChecksum)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got)
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Size:     int64(len(content)),
		Mode:     0o755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
