package console

import (
	"fmt"
	"sort"
	"sync"
)

// Set holds the extensions exposed by the hub, keyed by name.
type Set struct {
	mu   sync.RWMutex
	exts map[string]*Extension
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{exts: make(map[string]*Extension)}
}

// Add registers ext. Adding two extensions with the same name is an error.
func (s *Set) Add(ext *Extension) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.exts[ext.Name()]; exists {
		return fmt.Errorf("console: extension %q already registered", ext.Name())
	}
	s.exts[ext.Name()] = ext
	return nil
}

// Get returns the extension called name.
func (s *Set) Get(name string) (*Extension, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ext, ok := s.exts[name]
	return ext, ok
}

// Names returns extension names in sorted order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.exts))
	for n := range s.exts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// OnDispatch registers fn on every extension currently in the set.
func (s *Set) OnDispatch(fn func(Outcome)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ext := range s.exts {
		ext.OnDispatch(fn)
	}
}
