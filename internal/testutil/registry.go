// Package testutil builds on-disk registry trees for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fileData struct {
	rel     string
	content string
}

// RootBuilder accumulates files and writes them under a fresh temp dir laid
// out as a registry root.
type RootBuilder struct {
	t     *testing.T
	root  string
	files []fileData
}

// NewRoot creates a builder backed by t.TempDir().
func NewRoot(t *testing.T) *RootBuilder {
	t.Helper()
	return &RootBuilder{t: t, root: t.TempDir()}
}

// WithFile adds a file at a slash-separated path relative to the root.
func (b *RootBuilder) WithFile(rel, content string) *RootBuilder {
	b.files = append(b.files, fileData{rel: rel, content: content})
	return b
}

// WithVkXML adds the root's vk.xml.
func (b *RootBuilder) WithVkXML(content string) *RootBuilder {
	return b.WithFile("vk.xml", content)
}

// WithProfile adds profiles/<stem>.json.
func (b *RootBuilder) WithProfile(stem, content string) *RootBuilder {
	return b.WithFile("profiles/"+stem+".json", content)
}

// WithSchema adds schemas/<name>.
func (b *RootBuilder) WithSchema(name, content string) *RootBuilder {
	return b.WithFile("schemas/"+name, content)
}

// Build writes the accumulated files and returns the root path.
func (b *RootBuilder) Build() string {
	b.t.Helper()
	for _, f := range b.files {
		WriteFile(b.t, b.root, f.rel, f.content)
	}
	return b.root
}

// WriteFile writes one file under root at a slash-separated relative path,
// creating parent directories as needed. It returns the absolute path.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
