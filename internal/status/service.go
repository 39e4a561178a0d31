package status

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/armoraddons/internal/model"
)

// DefaultTickInterval is how often Service expires statuses.
const DefaultTickInterval = 250 * time.Millisecond

// Service holds one Manager per wearer and expires statuses on a ticker.
type Service struct {
	managers     sync.Map // map[uint32]*Manager — objectID → manager
	interval     time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once
	managerCount atomic.Int32
}

// NewService creates a Service. interval <= 0 uses DefaultTickInterval.
func NewService(interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Service{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Manager returns the wearer's manager, creating it on first use.
func (s *Service) Manager(wearer *model.Player) *Manager {
	if v, ok := s.managers.Load(wearer.ObjectID()); ok {
		return v.(*Manager)
	}
	v, loaded := s.managers.LoadOrStore(wearer.ObjectID(), NewManager())
	if !loaded {
		s.managerCount.Add(1)
	}
	return v.(*Manager)
}

// Query returns the wearer's active instance of kind.
func (s *Service) Query(wearer *model.Player, kind Kind) (Status, bool) {
	v, ok := s.managers.Load(wearer.ObjectID())
	if !ok {
		return Status{}, false
	}
	return v.(*Manager).Query(kind)
}

// Apply sets st on the wearer.
func (s *Service) Apply(wearer *model.Player, st Status) {
	s.Manager(wearer).Apply(st)
}

// Remove drops the wearer's instance of kind.
func (s *Service) Remove(wearer *model.Player, kind Kind) {
	if v, ok := s.managers.Load(wearer.ObjectID()); ok {
		v.(*Manager).Remove(kind)
	}
}

// RemoveFrom drops the wearer's instance of kind if source applied it.
func (s *Service) RemoveFrom(wearer *model.Player, kind Kind, source string) {
	if v, ok := s.managers.Load(wearer.ObjectID()); ok {
		v.(*Manager).RemoveFrom(kind, source)
	}
}

// Forget drops all statuses of a disconnected wearer.
func (s *Service) Forget(objectID uint32) {
	if _, ok := s.managers.LoadAndDelete(objectID); ok {
		s.managerCount.Add(-1)
	}
}

// Count returns the number of tracked wearers.
func (s *Service) Count() int {
	return int(s.managerCount.Load())
}

// Start runs the expiry loop (blocks until ctx is canceled or Stop is called).
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("status service started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("status service stopping")
			return ctx.Err()

		case <-s.stopCh:
			slog.Info("status service stopped")
			return nil

		case <-ticker.C:
			s.TickAll(s.interval)
		}
	}
}

// Stop stops the expiry loop. Safe to call more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// TickAll advances every wearer's statuses by delta.
func (s *Service) TickAll(delta time.Duration) {
	expired := 0
	s.managers.Range(func(_, value any) bool {
		expired += value.(*Manager).Tick(delta)
		return true
	})
	if expired > 0 {
		slog.Debug("status tick completed", "expired", expired)
	}
}
