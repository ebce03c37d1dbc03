package cache

import (
	"context"
	"sync"
)

// Memory keeps url sets in process memory. Entries live as long as the process.
type Memory struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{sets: make(map[string]map[string]struct{})}
}

func (m *Memory) Get(_ context.Context, key string) ([]string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.sets[key]
	if !ok {
		return nil, false, nil
	}
	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	return urls, true, nil
}

func (m *Memory) Put(_ context.Context, key string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{}, len(urls))
		m.sets[key] = set
	}
	for _, u := range urls {
		set[u] = struct{}{}
	}
	return nil
}

func (m *Memory) Len(_ context.Context, key string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.sets[key]
	return len(set), ok, nil
}

func (m *Memory) Close() error {
	return nil
}
