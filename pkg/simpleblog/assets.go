package simpleblog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-blog/pkg/simpleblog/objectkey"
)

// DefaultMaxUploadBytes bounds accepted image payloads.
const DefaultMaxUploadBytes = 10 << 20 // 10 MiB

// assetManager orchestrates format conversion, naming and storage of image
// assets. It is independent of the relational store.
type assetManager struct {
	store    BlobStore
	codec    ImageCodec
	keys     objectkey.Generator
	maxBytes int64
}

// store converts and uploads one file, returning its public URL and whether
// conversion happened. Oversize payloads are rejected before any decode or
// storage write.
func (m *assetManager) storeFile(ctx context.Context, f FileUpload) (string, bool, error) {
	if m.store == nil {
		return "", false, ErrNoBlobStore
	}
	if int64(len(f.Data)) > m.maxBytes {
		return "", false, fmt.Errorf("%w: %d bytes exceeds limit of %d",
			ErrPayloadTooLarge, len(f.Data), m.maxBytes)
	}

	data, converted, ext := convertImage(m.codec, f.Data, f.ContentType)
	key := m.keys.GenerateKey(f.FileName, ext)

	url, err := m.store.Upload(ctx, key, bytes.NewReader(data), contentTypeFor(ext))
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "upload", Err: err}
	}
	return url, converted, nil
}

// removeByURL deletes the backing object for a stored URL. Failures are
// logged, never propagated: storage cleanup is eventually consistent and
// reconciled by the orphan sweep.
func (m *assetManager) removeByURL(ctx context.Context, url string) {
	if m.store == nil || url == "" {
		return
	}
	key, ok := m.store.KeyFor(url)
	if !ok {
		slog.Debug("skipping storage cleanup for foreign url", "url", url)
		return
	}
	if err := m.store.Delete(ctx, key); err != nil {
		slog.Warn("best-effort storage delete failed",
			"key", key, "error", &StorageError{Key: key, Op: "delete", Err: err})
	}
}

// reindexImages rewrites sort orders to a dense 0..n-1 sequence in slice
// order and reports which images changed.
func reindexImages(images []*PostImage) []*PostImage {
	var changed []*PostImage
	for i, img := range images {
		if img.SortOrder != i {
			img.SortOrder = i
			changed = append(changed, img)
		}
	}
	return changed
}

// coverFromImages returns the URL of the lowest sort-order image, or nil for
// an empty gallery. Callers preserve a legacy direct cover by only applying
// this when the current cover is nil or gallery-backed.
func coverFromImages(images []*PostImage) *string {
	if len(images) == 0 {
		return nil
	}
	lowest := images[0]
	for _, img := range images[1:] {
		if img.SortOrder < lowest.SortOrder {
			lowest = img
		}
	}
	url := lowest.URL
	return &url
}

// isGalleryURL reports whether the URL belongs to one of the gallery images.
func isGalleryURL(url *string, images []*PostImage) bool {
	if url == nil {
		return false
	}
	for _, img := range images {
		if img.URL == *url {
			return true
		}
	}
	return false
}
