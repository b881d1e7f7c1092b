package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Memory is an in-process Store used for tests and ephemeral runs. Values
// are kept JSON-encoded so Get/Set round-trip the same way as the
// persistent backends.
type Memory struct {
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode value for %q: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	m.data[key] = raw
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
