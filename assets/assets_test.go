// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package assets_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/umbra/assets"
	"github.com/devblok/umbra/core"
	"github.com/devblok/umbra/utility/kar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "models/cube.sm", []byte("cube"))

	src := assets.Dir(dir)
	data, err := src.Find("models/cube.sm")
	require.NoError(t, err)
	assert.Equal(t, "cube", string(data))

	_, err = src.Find("models/sphere.sm")
	assert.True(t, assets.IsNotFound(err))
}

func TestOpenArchive(t *testing.T) {
	b, err := kar.NewBuilder(kar.Header{Author: "devblok"})
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Add("default.sw", bytes.NewReader([]byte("world"))))

	path := filepath.Join(t.TempDir(), "assets.kar")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = b.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	src, closer, err := assets.Open(path)
	require.NoError(t, err)
	defer closer.Close()

	s, err := src.FindString("default.sw")
	require.NoError(t, err)
	assert.Equal(t, "world", s)

	_, err = src.Find("missing")
	assert.True(t, assets.IsNotFound(err))
}

func TestOpenRejectsPlainFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", []byte("x"))
	_, _, err := assets.Open(filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)
}

func TestMultiSearchesInOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, first, "a", []byte("first"))
	writeFile(t, second, "a", []byte("second"))
	writeFile(t, second, "b", []byte("only second"))

	m := assets.Multi{assets.Dir(first), assets.Dir(second)}
	s, err := m.FindString("a")
	require.NoError(t, err)
	assert.Equal(t, "first", s)

	s, err = m.FindString("b")
	require.NoError(t, err)
	assert.Equal(t, "only second", s)

	_, err = m.Find("c")
	assert.True(t, assets.IsNotFound(err))
}

func TestLoadShaderPadsToWords(t *testing.T) {
	dir := t.TempDir()
	code := make([]byte, 8)
	binary.LittleEndian.PutUint32(code, 0x07230203)
	binary.LittleEndian.PutUint32(code[4:], 0x00010000)
	writeFile(t, dir, "main.vert.spv", append(code, 0xAA))

	words, err := assets.LoadShader(assets.Dir(dir), assets.ShaderName("main", core.VertexShaderType))
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, uint32(0x07230203), words[0])
	assert.Equal(t, uint32(0x000000AA), words[2])
}

func TestLoadShaders(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"shadow.vert.spv", "shadow.frag.spv", "main.vert.spv", "main.frag.spv"} {
		writeFile(t, dir, name, make([]byte, 16))
	}
	set, err := assets.LoadShaders(assets.Dir(dir))
	require.NoError(t, err)
	assert.Len(t, set.ShadowVertex, 4)
	assert.Len(t, set.MainFragment, 4)

	require.NoError(t, os.Remove(filepath.Join(dir, "main.frag.spv")))
	_, err = assets.LoadShaders(assets.Dir(dir))
	assert.True(t, assets.IsNotFound(err))
}

func BenchmarkSliceUint32(b *testing.B) {
	data := make([]byte, 1<<16)
	for idx := 0; idx < b.N; idx++ {
		assets.SliceUint32(data)
	}
}
