package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const urlBase = "memory://"

// Backend is an in-memory implementation of the simpleblog.BlobStore
// interface, intended for tests and local development.
type Backend struct {
	mu           sync.RWMutex
	objects      map[string][]byte
	contentTypes map[string]string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// Upload stores the object and returns its public URL
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.contentTypes[objectKey] = contentType
	return b.URLFor(objectKey), nil
}

// Download retrieves the object's bytes
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}
	delete(b.objects, objectKey)
	delete(b.contentTypes, objectKey)
	return nil
}

// List returns the keys of all objects under the prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// URLFor returns the public URL an object key resolves to
func (b *Backend) URLFor(objectKey string) string {
	return urlBase + objectKey
}

// KeyFor is the inverse of URLFor
func (b *Backend) KeyFor(url string) (string, bool) {
	if !strings.HasPrefix(url, urlBase) {
		return "", false
	}
	return strings.TrimPrefix(url, urlBase), true
}

var _ simpleblog.BlobStore = (*Backend)(nil)
