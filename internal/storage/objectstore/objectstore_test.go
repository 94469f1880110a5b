package objectstore

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyIsContentAddressed(t *testing.T) {
	a, err := ObjectKey([]byte("photo-a"), "image/jpeg")
	require.NoError(t, err)
	again, err := ObjectKey([]byte("photo-a"), "IMAGE/JPEG")
	require.NoError(t, err)
	b, err := ObjectKey([]byte("photo-b"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, a, again)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "items/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(a, "items/"), ".jpg"), 64)
}

func TestObjectKeyRejectsUnsupportedType(t *testing.T) {
	_, err := ObjectKey([]byte("%PDF"), "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPresignedURL(t *testing.T) {
	store, err := New("http://localhost:9000", "access", "secret", "clothing", "us-east-1", false)
	require.NoError(t, err)

	u, err := store.URL(t.Context(), "items/abc.jpg", time.Minute)

	require.NoError(t, err)
	assert.Contains(t, u, "localhost:9000/clothing/items/abc.jpg")
	assert.Contains(t, u, "X-Amz-Signature=")
}
