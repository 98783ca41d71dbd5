package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, ".jpg", img.Ext)
	assert.Equal(t, []byte("hello"), img.Data)

	img, err = DecodeDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, ".png", img.Ext)
}

func TestDecodeDataURIRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,%%%",
	} {
		_, err := DecodeDataURI(in)
		assert.ErrorIs(t, err, ErrInvalidDataURI, in)
	}
}
