package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory. It serves development
// without an S3 endpoint and the test suites.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]MemoryObject
}

type MemoryObject struct {
	ContentType string
	Data        []byte
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "http://localhost/objects"
	}
	return &MemoryStorage{baseURL: baseURL, objects: make(map[string]MemoryObject)}
}

func (m *MemoryStorage) PutObject(_ context.Context, objectKey, contentType string, body io.Reader, _ int64) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[objectKey] = MemoryObject{ContentType: contentType, Data: buf.Bytes()}
	m.mu.Unlock()
	return m.PublicURL(objectKey), nil
}

func (m *MemoryStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, expires time.Duration) (string, error) {
	return m.signed(objectKey, "PUT", expires), nil
}

func (m *MemoryStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	return m.signed(objectKey, "GET", expires), nil
}

func (m *MemoryStorage) signed(objectKey, method string, expires time.Duration) string {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	return m.PublicURL(objectKey) + "?method=" + method + "&expires=" + expires.String()
}

func (m *MemoryStorage) PublicURL(objectKey string) string {
	return joinURL(m.baseURL, objectKey)
}

func (m *MemoryStorage) DeleteObject(_ context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectKey]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, objectKey)
	return nil
}

// Object returns a stored object, for inspection.
func (m *MemoryStorage) Object(objectKey string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[objectKey]
	return obj, ok
}

// Len reports how many objects are stored.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
