// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devblok/umbra/utility/kar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/mmap"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func build(t *testing.T) []byte {
	builder, err := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	require.NoError(t, err)
	defer builder.Close()

	require.NoError(t, builder.Add("test", bytes.NewReader([]byte(testString1))))
	require.NoError(t, builder.Add("test2", bytes.NewReader([]byte(testString2))))
	require.NoError(t, builder.Add("empty", bytes.NewReader(nil)))

	var buf bytes.Buffer
	_, err = builder.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(build(t)))
	require.NoError(t, err)

	f, err := ar.Open("test")
	require.NoError(t, err)
	assert.Equal(t, int64(len(testString1)), f.Size())

	result, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, testString1, string(result))
}

func TestCreateAndReadAll(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(build(t)))
	require.NoError(t, err)

	assert.Equal(t, []string{"test", "test2", "empty"}, ar.List())
	assert.Equal(t, "devblok", ar.Header().Author)

	f, err := ar.ReadAll("test2")
	require.NoError(t, err)
	assert.Equal(t, testString2, string(f))

	s, err := ar.FindString("test")
	require.NoError(t, err)
	assert.Equal(t, testString1, s)

	empty, err := ar.Find("empty")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ar.ReadAll("missing")
	assert.ErrorIs(t, err, kar.ErrNotFound)
}

func TestOpenmmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opentest.kar")
	require.NoError(t, os.WriteFile(path, build(t), 0644))

	r, err := mmap.Open(path)
	require.NoError(t, err)
	defer r.Close()

	ar, err := kar.Open(r)
	require.NoError(t, err)

	f, err := ar.ReadAll("test")
	require.NoError(t, err)
	assert.Equal(t, testString1, string(f))
}

func TestOpenRejectsCorruptArchives(t *testing.T) {
	data := build(t)

	_, err := kar.Open(bytes.NewReader([]byte("KAR")))
	assert.ErrorIs(t, err, kar.ErrFileFormat)

	bad := append([]byte("TAR\x00"), data[kar.MagicLength:]...)
	_, err = kar.Open(bytes.NewReader(bad))
	assert.ErrorIs(t, err, kar.ErrFileFormat)

	_, err = kar.Open(bytes.NewReader(data[:kar.MagicLength+kar.HeaderSizeNumberLength+4]))
	assert.ErrorIs(t, err, kar.ErrFileFormat)

	_, err = kar.Open(bytes.NewReader(data[:len(data)-4]))
	assert.ErrorIs(t, err, kar.ErrFileFormat)
}
