// Package store persists wallet records through an ordered key-value
// collaborator. The KV abstraction exposes exactly the primitives the
// wallet core relies on: point reads, atomic multi-key batch writes,
// deletes, and a conditional insert that closes the check-then-create race.
package store

import "sync"

// KeyValue is one entry of a batch write.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// KV is the ordered key-value store collaborator. Get returns (nil, nil)
// for a missing key. Put applies the whole batch atomically. PutIfAbsent
// inserts the key only when it does not exist yet, atomically with the
// existence check, and returns ErrKeyExists otherwise.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(batch []KeyValue) error
	PutIfAbsent(key, value []byte) error
	Delete(key []byte) error
}

// MemKV is an in-memory KV implementation for testing.
type MemKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// Compile-time interface check.
var _ KV = (*MemKV)(nil)

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (m *MemKV) Get(key []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemKV) Put(batch []KeyValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kv := range batch {
		m.data[string(kv.Key)] = append([]byte(nil), kv.Value...)
	}
	return nil
}

func (m *MemKV) PutIfAbsent(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[string(key)]; ok {
		return ErrKeyExists
	}
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemKV) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}
