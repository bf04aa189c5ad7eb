package memory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDownloadRoundTrip(t *testing.T) {
	backend := New()
	ctx := context.Background()

	url, err := backend.Upload(ctx, "posts/a.jpg", bytes.NewReader([]byte("payload")), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "memory://posts/a.jpg", url)

	rc, err := backend.Download(ctx, "posts/a.jpg")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestDownloadMissing(t *testing.T) {
	backend := New()
	_, err := backend.Download(context.Background(), "missing")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	backend := New()
	ctx := context.Background()

	_, err := backend.Upload(ctx, "posts/a.jpg", bytes.NewReader([]byte("x")), "")
	require.NoError(t, err)
	require.NoError(t, backend.Delete(ctx, "posts/a.jpg"))

	_, err = backend.Download(ctx, "posts/a.jpg")
	assert.Error(t, err)
	assert.Error(t, backend.Delete(ctx, "posts/a.jpg"))
}

func TestListWithPrefix(t *testing.T) {
	backend := New()
	ctx := context.Background()

	for _, key := range []string{"posts/a.jpg", "posts/b.jpg", "avatars/c.jpg"} {
		_, err := backend.Upload(ctx, key, bytes.NewReader([]byte("x")), "")
		require.NoError(t, err)
	}

	keys, err := backend.List(ctx, "posts/")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	all, err := backend.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestKeyForInvertsURLFor(t *testing.T) {
	backend := New()

	key, ok := backend.KeyFor(backend.URLFor("posts/a.jpg"))
	require.True(t, ok)
	assert.Equal(t, "posts/a.jpg", key)

	_, ok = backend.KeyFor("https://elsewhere.example.com/a.jpg")
	assert.False(t, ok)
}
