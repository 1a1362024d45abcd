package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeManifest(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	return writeFile(t, dir, "changed_files.txt", strings.Join(lines, "\n")+"\n")
}

func TestLoad_MissingManifest(t *testing.T) {
	files, err := Load(filepath.Join(t.TempDir(), "changed_files.txt"), Options{})
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestLoad_EmptyManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "changed_files.txt", "\n\n   \n")

	files, err := Load(manifest, Options{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoad_SkipsNonexistentPath(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "src/App.java", "class App {\n  void run() {}\n}\n")
	manifest := writeManifest(t, dir, filepath.Join(dir, "src/Gone.java"), existing)

	files, err := Load(manifest, Options{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, existing, files[0].Path)
	assert.Equal(t, 3, files[0].LineCount)
	assert.Equal(t, "class App {\n  void run() {}\n}\n", files[0].Content)
}

func TestLoad_PreservesManifestOrder(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.go", "package b")
	a := writeFile(t, dir, "a.go", "package a")
	manifest := writeManifest(t, dir, "  "+b+"  ", "", a)

	files, err := Load(manifest, Options{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, b, files[0].Path)
	assert.Equal(t, a, files[1].Path)
}

func TestLoad_UnreadableFileDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	binary := writeFile(t, dir, "blob.bin", string([]byte{0xff, 0xfe, 0xfd}))
	subdir := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(subdir, 0o755))
	good := writeFile(t, dir, "good.py", "print('hi')\n")
	manifest := writeManifest(t, dir, binary, subdir, good)

	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &logs, Level: hclog.Debug})

	files, err := Load(manifest, Options{Logger: logger})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, good, files[0].Path)

	out := logs.String()
	assert.Contains(t, out, "not valid UTF-8")
	assert.Contains(t, out, "is a directory")
	assert.Contains(t, out, "loaded file")
	assert.Contains(t, out, "lines=1")
}

func TestLoad_ExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "vendor/lib.go", "package lib")
	writeFile(t, dir, "gen/model.pb.go", "package gen")
	writeFile(t, dir, "main.go", "package main")
	manifest := writeManifest(t, dir, "vendor/lib.go", "gen/model.pb.go", "main.go")

	files, err := Load(manifest, Options{Exclude: []string{"vendor/", "*.pb.go"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "main.go", files[0].Path)
}

func TestLoad_Extensions(t *testing.T) {
	dir := t.TempDir()
	java := writeFile(t, dir, "User.java", "class User {}")
	md := writeFile(t, dir, "README.md", "# readme")
	manifest := writeManifest(t, dir, java, md)

	files, err := Load(manifest, Options{Extensions: []string{"java"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, java, files[0].Path)
}

func TestLoad_MaxFileBytes(t *testing.T) {
	dir := t.TempDir()
	big := writeFile(t, dir, "big.txt", strings.Repeat("x", 100))
	small := writeFile(t, dir, "small.txt", "x")
	manifest := writeManifest(t, dir, big, small)

	files, err := Load(manifest, Options{MaxFileBytes: 10})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, small, files[0].Path)
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "m.txt", "a.go\r\n\n  b.go \n")

	paths, err := ReadManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, paths)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 2},
		{"\n\n", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountLines(tt.in), "CountLines(%q)", tt.in)
	}
}
