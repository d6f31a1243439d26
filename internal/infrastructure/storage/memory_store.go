package storage

import (
	"context"
	"sync"

	"github.com/bahikhata/backend/internal/domain/shared"
)

// MemoryReceiptStore is an in-memory blob store for tests and local
// development. It records the operations applied so orchestration tests can
// assert compensation behavior.
type MemoryReceiptStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUpload and FailDelete inject storage faults when set.
	FailUpload error
	FailDelete error

	// Deleted records every key passed to Delete, in call order.
	Deleted []string
}

// NewMemoryReceiptStore creates an empty in-memory store
func NewMemoryReceiptStore() *MemoryReceiptStore {
	return &MemoryReceiptStore{objects: make(map[string][]byte)}
}

// Upload stores data under key
func (m *MemoryReceiptStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpload != nil {
		return m.FailUpload
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf
	return nil
}

// Download returns the data stored under key
func (m *MemoryReceiptStore) Download(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, shared.ErrAttachmentNotFound
	}
	return data, nil
}

// Delete removes the data stored under key and records the call
func (m *MemoryReceiptStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, key)
	if m.FailDelete != nil {
		return m.FailDelete
	}
	delete(m.objects, key)
	return nil
}

// Has reports whether key currently holds an object
func (m *MemoryReceiptStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects
func (m *MemoryReceiptStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
