// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/umbra/utility/kar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestCompressListExtract(t *testing.T) {
	files := map[string]string{
		"default.sw":        "world",
		"models/cube.sm":    "cube model",
		"textures/wood.png": string(bytes.Repeat([]byte{0xaa}, 4096)),
	}
	src := writeTree(t, files)
	archive := filepath.Join(t.TempDir(), "data.kar")

	require.NoError(t, compressFiles(src, archive, kar.Header{Author: "tester", Version: 2}))
	assert.ErrorIs(t, compressFiles(src, archive, kar.Header{}), errExists)

	var listing bytes.Buffer
	require.NoError(t, listFiles(archive, &listing))
	assert.Contains(t, listing.String(), "author: tester")
	assert.Contains(t, listing.String(), "version: 2")
	assert.Contains(t, listing.String(), "models/cube.sm")

	dst := t.TempDir()
	require.NoError(t, extractFiles(archive, dst))
	for name, content := range files {
		data, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(name)))
		require.NoError(t, err, name)
		assert.Equal(t, content, string(data), name)
	}

	assert.ErrorIs(t, extractFiles(archive, dst), errExists)
}

func TestCompressSingleFile(t *testing.T) {
	src := writeTree(t, map[string]string{"level.sw": "world"})
	archive := filepath.Join(t.TempDir(), "one.kar")
	require.NoError(t, compressFiles(filepath.Join(src, "level.sw"), archive, kar.Header{}))

	ar, closer, err := openArchive(archive)
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, []string{"level.sw"}, ar.List())
}

func TestExtractPath(t *testing.T) {
	dir := filepath.Join("out", "assets")

	path, err := extractPath(dir, "models/cube.sm")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "models", "cube.sm"), path)

	for _, name := range []string{"../escape", "a/../../escape", "/etc/passwd", ".."} {
		_, err := extractPath(dir, name)
		assert.Error(t, err, name)
	}
}

func TestOpenArchiveRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.kar")
	require.NoError(t, os.WriteFile(path, []byte("not an archive at all"), 0644))
	_, _, err := openArchive(path)
	assert.ErrorIs(t, err, kar.ErrFileFormat)
}
