package store

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	tracks      map[string][]byte
	networks    map[string][]byte
	runs        map[string]RunSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.tracks = make(map[string][]byte)
	s.networks = make(map[string][]byte)
	s.runs = make(map[string]RunSummary)
	return nil
}

func (s *MemoryStore) SaveTrack(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.tracks[name] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStore) GetTrack(_ context.Context, name string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, ErrNotInitialized
	}
	payload, ok := s.tracks[name]
	return append([]byte(nil), payload...), ok, nil
}

func (s *MemoryStore) ListTracks(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return sortedKeys(s.tracks), nil
}

func (s *MemoryStore) SaveNetwork(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.networks[name] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStore) GetNetwork(_ context.Context, name string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, ErrNotInitialized
	}
	payload, ok := s.networks[name]
	return append([]byte(nil), payload...), ok, nil
}

func (s *MemoryStore) ListNetworks(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return sortedKeys(s.networks), nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	run.History = append([]float64(nil), run.History...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return RunSummary{}, false, ErrNotInitialized
	}
	run, ok := s.runs[id]
	return run, ok, nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
