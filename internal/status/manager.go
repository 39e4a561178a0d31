package status

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Manager tracks active statuses of one wearer.
//
// One instance per Kind: Apply overwrites whatever is there, deciding whether
// to overwrite is the caller's job.
//
// Thread-safe: all methods are protected by sync.RWMutex.
type Manager struct {
	mu       sync.RWMutex
	statuses map[Kind]Status
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{statuses: make(map[Kind]Status)}
}

// Apply sets s as the active instance of its kind.
func (m *Manager) Apply(s Status) {
	if s.Expired() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[s.Kind] = s
}

// Query returns the active instance of kind.
func (m *Manager) Query(kind Kind) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[kind]
	return s, ok
}

// Remove drops the instance of kind. Returns false if none was active.
func (m *Manager) Remove(kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.statuses[kind]; !ok {
		return false
	}
	delete(m.statuses, kind)
	return true
}

// RemoveFrom drops the instance of kind only if source applied it.
func (m *Manager) RemoveFrom(kind Kind, source string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[kind]
	if !ok || s.Source != source {
		return false
	}
	delete(m.statuses, kind)
	return true
}

// Tick decrements remaining time by delta and drops expired statuses.
// Returns the number of statuses that expired.
func (m *Manager) Tick(delta time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for kind, s := range m.statuses {
		s.Remaining -= delta
		if s.Expired() {
			delete(m.statuses, kind)
			expired++
			slog.Debug("status expired", "kind", kind, "source", s.Source)
			continue
		}
		m.statuses[kind] = s
	}
	return expired
}

// Active returns a snapshot of active statuses sorted by kind.
func (m *Manager) Active() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Status, 0, len(m.statuses))
	for _, s := range m.statuses {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Status) int { return cmp.Compare(a.Kind, b.Kind) })
	return out
}

// Count returns the number of active statuses.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.statuses)
}
