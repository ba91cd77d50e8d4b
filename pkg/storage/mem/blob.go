package mem

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

// Blob is an in-memory storage.Blob.
type Blob struct {
	sync.Mutex
	objects map[string]*object
}

type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

var _ storage.Blob = &Blob{}

// NewBlob returns an empty memory blob store.
func NewBlob() *Blob {
	return &Blob{objects: make(map[string]*object)}
}

// Put stores an object.
func (b *Blob) Put(_ context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	b.Lock()
	defer b.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	b.objects[key] = &object{data: cp, contentType: contentType, metadata: metadata}
	return nil
}

// Get fetches an object's payload.
func (b *Blob) Get(_ context.Context, key string) ([]byte, error) {
	b.Lock()
	defer b.Unlock()
	obj, ok := b.objects[key]
	if !ok {
		return nil, storage.ErrNotExist
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, nil
}

// PresignGet returns a synthetic URL naming the object; enough for tests to
// assert on key and filename.
func (b *Blob) PresignGet(_ context.Context, key, responseFilename string, _ time.Duration) (string, error) {
	b.Lock()
	defer b.Unlock()
	if _, ok := b.objects[key]; !ok {
		return "", storage.ErrNotExist
	}
	return "mem://" + key + "?filename=" + url.QueryEscape(responseFilename), nil
}

// ContentType exposes a stored object's content type to tests.
func (b *Blob) ContentType(key string) string {
	b.Lock()
	defer b.Unlock()
	if obj, ok := b.objects[key]; ok {
		return obj.contentType
	}
	return ""
}

// Len reports the number of stored objects.
func (b *Blob) Len() int {
	b.Lock()
	defer b.Unlock()
	return len(b.objects)
}
