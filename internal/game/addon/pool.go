package addon

import (
	"log/slog"
	"slices"
	"sync/atomic"
)

// Pool is the list of effect ids eligible for random rolls.
//
// Duplicates are kept: an id listed twice is drawn twice as often.
// Reload swaps the whole list atomically, readers never see a partial pool.
type Pool struct {
	catalog *Catalog
	ids     atomic.Pointer[[]EffectID]
}

// NewPool creates a pool from raw configured names.
// Unknown names are skipped with a warning.
func NewPool(catalog *Catalog, raw []string) *Pool {
	p := &Pool{catalog: catalog}
	p.Reload(raw)
	return p
}

// Reload replaces the pool contents and returns names that were not recognized.
func (p *Pool) Reload(raw []string) []string {
	ids := make([]EffectID, 0, len(raw))
	var dropped []string

	for _, name := range raw {
		id, ok := p.catalog.Parse(name)
		if !ok {
			dropped = append(dropped, name)
			slog.Warn("unknown add-on effect in pool, skipping", "name", name)
			continue
		}
		ids = append(ids, id)
	}

	p.ids.Store(&ids)
	slog.Info("add-on pool loaded", "effects", len(ids), "skipped", len(dropped))
	return dropped
}

// Snapshot returns a copy of the current pool.
func (p *Pool) Snapshot() []EffectID {
	ids := p.ids.Load()
	if ids == nil {
		return nil
	}
	return slices.Clone(*ids)
}

// Len returns the current pool size.
func (p *Pool) Len() int {
	ids := p.ids.Load()
	if ids == nil {
		return 0
	}
	return len(*ids)
}

// IsEmpty reports whether no effect can be drawn.
func (p *Pool) IsEmpty() bool {
	return p.Len() == 0
}

// PoolNames resolves the configured pool: nil (not configured) means every
// catalog id once, an explicit empty list stays empty.
func PoolNames(c *Catalog, configured []string) []string {
	if configured == nil {
		return DefaultPoolNames(c)
	}
	return configured
}

// DefaultPoolNames returns every id of the catalog as a configurable name list.
func DefaultPoolNames(c *Catalog) []string {
	ids := c.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
