package simpleblog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog/objectkey"
)

// recordingStore counts operations so tests can assert nothing reached
// storage.
type recordingStore struct {
	uploads int
	deletes []string
}

func (s *recordingStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	s.uploads++
	return "test://" + key, nil
}

func (s *recordingStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not found")
}

func (s *recordingStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *recordingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func (s *recordingStore) URLFor(key string) string { return "test://" + key }

func (s *recordingStore) KeyFor(url string) (string, bool) {
	if !strings.HasPrefix(url, "test://") {
		return "", false
	}
	return strings.TrimPrefix(url, "test://"), true
}

func newTestAssetManager(store BlobStore, maxBytes int64) assetManager {
	return assetManager{
		store:    store,
		codec:    NewStdCodec(0),
		keys:     objectkey.NewTimestampGenerator("posts/"),
		maxBytes: maxBytes,
	}
}

func TestStoreFileRejectsOversizePayload(t *testing.T) {
	store := &recordingStore{}
	m := newTestAssetManager(store, 16)

	_, _, err := m.storeFile(context.Background(), FileUpload{
		FileName:    "big.png",
		ContentType: "image/png",
		Data:        make([]byte, 17),
	})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, store.uploads, "oversize payload must never reach storage")
}

func TestStoreFileUploadsWithGeneratedKey(t *testing.T) {
	store := &recordingStore{}
	m := newTestAssetManager(store, DefaultMaxUploadBytes)

	url, converted, err := m.storeFile(context.Background(), FileUpload{
		FileName:    "photo.png",
		ContentType: "image/png",
		Data:        pngBytes(t, 8, 8),
	})
	require.NoError(t, err)
	assert.True(t, converted)
	assert.Equal(t, 1, store.uploads)
	assert.True(t, strings.HasPrefix(url, "test://posts/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))
	assert.Contains(t, url, "photo")
}

func TestStoreFileWithoutStore(t *testing.T) {
	m := newTestAssetManager(nil, DefaultMaxUploadBytes)
	_, _, err := m.storeFile(context.Background(), FileUpload{FileName: "a.png"})
	assert.ErrorIs(t, err, ErrNoBlobStore)
}

func TestRemoveByURLSkipsForeignURL(t *testing.T) {
	store := &recordingStore{}
	m := newTestAssetManager(store, DefaultMaxUploadBytes)

	m.removeByURL(context.Background(), "https://elsewhere.example.com/img.jpg")
	assert.Empty(t, store.deletes)

	m.removeByURL(context.Background(), "test://posts/abc.jpg")
	assert.Equal(t, []string{"posts/abc.jpg"}, store.deletes)
}

func TestReindexImages(t *testing.T) {
	images := []*PostImage{
		{ID: uuid.New(), SortOrder: 0},
		{ID: uuid.New(), SortOrder: 2},
		{ID: uuid.New(), SortOrder: 5},
	}

	changed := reindexImages(images)
	require.Len(t, changed, 2)
	for i, img := range images {
		assert.Equal(t, i, img.SortOrder)
	}

	// Already dense: nothing changes.
	assert.Empty(t, reindexImages(images))
}

func TestCoverFromImages(t *testing.T) {
	assert.Nil(t, coverFromImages(nil))

	images := []*PostImage{
		{URL: "test://b.jpg", SortOrder: 1},
		{URL: "test://a.jpg", SortOrder: 0},
	}
	cover := coverFromImages(images)
	require.NotNil(t, cover)
	assert.Equal(t, "test://a.jpg", *cover)
}

func TestIsGalleryURL(t *testing.T) {
	images := []*PostImage{{URL: "test://a.jpg"}}
	gallery := "test://a.jpg"
	foreign := "test://other.jpg"

	assert.True(t, isGalleryURL(&gallery, images))
	assert.False(t, isGalleryURL(&foreign, images))
	assert.False(t, isGalleryURL(nil, images))
}
