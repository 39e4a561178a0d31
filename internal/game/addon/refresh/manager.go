// Package refresh runs the periodic add-on refresh: resolve worn armor for
// every online wearer, project statuses and drive scripted effects.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
)

// Defaults match the stock configuration.
const (
	DefaultInterval     = 2 * time.Second
	DefaultInitialDelay = 1 * time.Second
)

// WearerSource lists wearers to refresh.
// IsOnline reports whether this exact player session is still registered.
type WearerSource interface {
	OnlineWearers() []*model.Player
	IsOnline(wearer *model.Player) bool
}

// Resolver computes a wearer's active set.
type Resolver interface {
	Resolve(ctx context.Context, wearer *model.Player) addon.ActiveSet
}

// Projector applies status-backed effects.
type Projector interface {
	Project(wearer *model.Player, active addon.ActiveSet) int
}

// Engine drives scripted effects.
type Engine interface {
	Refresh(wearer *model.Player, active addon.ActiveSet)
	DeactivateWearer(wearer *model.Player)
	Shutdown()
}

// Manager is the recurring refresh job.
//
// Start blocks until ctx is canceled or Stop is called; before returning it
// always deactivates every scripted effect through Engine.Shutdown.
type Manager struct {
	wearers   WearerSource
	resolver  Resolver
	projector Projector
	engine    Engine

	interval     time.Duration
	initialDelay time.Duration

	// sessionMu orders applying a cycle's result against Disconnect.
	// The caller removes the wearer from WearerSource before Disconnect,
	// so a cycle that resolved an already departed wearer drops its result.
	sessionMu sync.Mutex

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewManager creates a refresh job. Non-positive durations fall back to defaults.
func NewManager(wearers WearerSource, resolver Resolver, projector Projector, engine Engine, interval, initialDelay time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if initialDelay < 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Manager{
		wearers:      wearers,
		resolver:     resolver,
		projector:    projector,
		engine:       engine,
		interval:     interval,
		initialDelay: initialDelay,
		stopCh:       make(chan struct{}),
	}
}

// Start runs the refresh loop.
func (m *Manager) Start(ctx context.Context) error {
	defer m.engine.Shutdown()

	slog.Info("add-on refresh started", "interval", m.interval, "initial_delay", m.initialDelay)

	delay := time.NewTimer(m.initialDelay)
	defer delay.Stop()

	select {
	case <-ctx.Done():
		slog.Info("add-on refresh stopping")
		return ctx.Err()
	case <-m.stopCh:
		slog.Info("add-on refresh stopped")
		return nil
	case <-delay.C:
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.RefreshAll(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("add-on refresh stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("add-on refresh stopped")
			return nil

		case <-ticker.C:
			m.RefreshAll(ctx)
		}
	}
}

// Stop ends the loop. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// RefreshAll runs one cycle over every online wearer.
func (m *Manager) RefreshAll(ctx context.Context) {
	wearers := m.wearers.OnlineWearers()
	for _, w := range wearers {
		m.RefreshWearer(ctx, w)
	}
	if len(wearers) > 0 {
		slog.Debug("add-on refresh cycle completed", "wearers", len(wearers))
	}
}

// RefreshWearer runs one cycle for a single wearer.
// Wearers that went offline while their set was resolving are skipped.
func (m *Manager) RefreshWearer(ctx context.Context, wearer *model.Player) {
	active := m.resolver.Resolve(ctx, wearer)

	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()
	if !m.wearers.IsOnline(wearer) {
		slog.Debug("add-on refresh skipped offline wearer", "wearer", wearer.ObjectID())
		return
	}
	m.projector.Project(wearer, active)
	m.engine.Refresh(wearer, active)
}

// Disconnect ends the wearer's scripted effects.
// The wearer must already be gone from the WearerSource.
func (m *Manager) Disconnect(wearer *model.Player) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()
	m.engine.DeactivateWearer(wearer)
}
