// Package curses holds the scripted CURSE effects run by the custom engine.
package curses

import (
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/armoraddons/internal/model"
	"github.com/udisondev/armoraddons/internal/status"
)

// StatusEffects is the part of the host status mechanism curses use.
type StatusEffects interface {
	Apply(wearer *model.Player, s status.Status)
	// RemoveFrom drops kind only while the current instance carries source.
	RemoveFrom(wearer *model.Player, kind status.Kind, source string)
}

// Cue names a sound or visual played to the wearer.
type Cue string

const (
	CueThunder Cue = "dread.thunder"
	CueStumble Cue = "misstep.stumble"
	CueRoar    Cue = "terror.roar"
)

// Announcer plays cues to a wearer.
type Announcer interface {
	Announce(wearer *model.Player, cue Cue)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(wearer *model.Player, cue Cue)

// Announce calls f.
func (f AnnouncerFunc) Announce(wearer *model.Player, cue Cue) {
	f(wearer, cue)
}

// LogAnnouncer logs cues at debug level. Used when no client is attached.
type LogAnnouncer struct{}

// Announce logs the cue.
func (LogAnnouncer) Announce(wearer *model.Player, cue Cue) {
	slog.Debug("curse cue", "wearer", wearer.ObjectID(), "cue", cue)
}

// Source tags statuses applied by curses.
const Source = "addon.curse"

// cueLimiter allows one cue per wearer per cooldown.
type cueLimiter struct {
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[uint32]time.Time
}

func newCueLimiter(cooldown time.Duration) *cueLimiter {
	return &cueLimiter{cooldown: cooldown, now: time.Now, last: make(map[uint32]time.Time)}
}

func (l *cueLimiter) allow(objectID uint32) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.last[objectID]; ok && now.Sub(last) < l.cooldown {
		return false
	}
	l.last[objectID] = now
	return true
}

func (l *cueLimiter) forget(objectID uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, objectID)
}
