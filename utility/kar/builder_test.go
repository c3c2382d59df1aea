// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndWrite(t *testing.T) {
	builder, err := NewBuilder(Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	require.NoError(t, err)

	require.NoError(t, builder.Add("test", bytes.NewReader([]byte("idunvovkjnreovmegihjbrqlkmfrjnb"))))
	require.NoError(t, builder.Add("test2", bytes.NewReader([]byte("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"))))
	assert.Len(t, builder.files, 2)

	var buf bytes.Buffer
	num, err := builder.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), num)
	assert.Equal(t, magic[:], buf.Bytes()[:MagicLength])

	require.NoError(t, builder.Close())
	_, err = os.Stat(builder.tempDir)
	assert.True(t, os.IsNotExist(err))
}

func TestHeaderSizeField(t *testing.T) {
	field := int64ToBinary(12345)
	assert.Len(t, field, HeaderSizeNumberLength)

	n, err := binaryToint64(field)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), n)

	_, err = binaryToint64(nil)
	assert.Equal(t, ErrFileFormat, err)
}

func TestOffsetsAreContiguous(t *testing.T) {
	builder, err := NewBuilder(Header{Author: "devblok"})
	require.NoError(t, err)
	defer builder.Close()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, builder.Add(name, bytes.NewReader(bytes.Repeat([]byte(name), 100))))
	}
	var buf bytes.Buffer
	_, err = builder.WriteTo(&buf)
	require.NoError(t, err)

	ar, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var next int64
	for _, e := range ar.Header().Index {
		assert.Equal(t, next, e.Offset, e.Name)
		assert.Equal(t, int64(100), e.Size)
		next += e.CompressedSize
	}
	assert.Equal(t, int64(buf.Len()), ar.base+next)
}
