package curses

import (
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
)

const dreadDuration = 20 * time.Second

// Dread brings a thunderstorm over the wearer for a while, then restores the
// weather they had before.
type Dread struct {
	announce Announcer
	duration time.Duration

	mu       sync.Mutex
	sessions map[uint32]*dreadSession // objectID → session
}

type dreadSession struct {
	previous model.Weather
	revert   *time.Timer
}

// NewDread creates the DREAD curse.
func NewDread(announce Announcer) *Dread {
	return &Dread{
		announce: announce,
		duration: dreadDuration,
		sessions: make(map[uint32]*dreadSession),
	}
}

// ID returns addon.Dread.
func (d *Dread) ID() addon.EffectID {
	return addon.Dread
}

// Activate snapshots the wearer's weather and forces a storm.
// A wearer already under a storm is left alone.
func (d *Dread) Activate(wearer *model.Player, _ int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := wearer.ObjectID()
	if _, ok := d.sessions[id]; ok {
		return
	}

	sess := &dreadSession{previous: wearer.Weather()}
	wearer.SetWeather(model.Weather{Storm: true, Thundering: true})
	sess.revert = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.sessions[id] != sess {
			return
		}
		delete(d.sessions, id)
		wearer.SetWeather(sess.previous)
		slog.Debug("dread storm passed", "wearer", id)
	})
	d.sessions[id] = sess

	d.announce.Announce(wearer, CueThunder)
}

// Deactivate restores the weather now and cancels the pending revert.
func (d *Dread) Deactivate(wearer *model.Player) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := wearer.ObjectID()
	sess, ok := d.sessions[id]
	if !ok {
		return
	}
	delete(d.sessions, id)
	sess.revert.Stop()
	wearer.SetWeather(sess.previous)
}
