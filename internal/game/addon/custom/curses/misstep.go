package curses

import (
	"time"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
	"github.com/udisondev/armoraddons/internal/status"
)

const (
	misstepDuration      = 10 * time.Second
	misstepSoundCooldown = 1500 * time.Millisecond
)

// Misstep slows the wearer and keeps them from jumping for a while.
type Misstep struct {
	statuses StatusEffects
	announce Announcer
	stumble  *cueLimiter
}

// NewMisstep creates the MISSTEP curse.
func NewMisstep(statuses StatusEffects, announce Announcer) *Misstep {
	return &Misstep{
		statuses: statuses,
		announce: announce,
		stumble:  newCueLimiter(misstepSoundCooldown),
	}
}

// ID returns addon.Misstep.
func (m *Misstep) ID() addon.EffectID {
	return addon.Misstep
}

// Activate applies hidden slowness and grounding.
func (m *Misstep) Activate(wearer *model.Player, _ int) {
	m.statuses.Apply(wearer, status.Status{
		Kind:      status.Slowness,
		Intensity: 1,
		Remaining: misstepDuration,
		Hidden:    true,
		Source:    Source,
	})
	m.statuses.Apply(wearer, status.Status{
		Kind:      status.Grounded,
		Remaining: misstepDuration,
		Hidden:    true,
		Source:    Source,
	})
	if m.stumble.allow(wearer.ObjectID()) {
		m.announce.Announce(wearer, CueStumble)
	}
}

// Deactivate removes both statuses, if still its own, and resets the sound cooldown.
func (m *Misstep) Deactivate(wearer *model.Player) {
	m.statuses.RemoveFrom(wearer, status.Slowness, Source)
	m.statuses.RemoveFrom(wearer, status.Grounded, Source)
	m.stumble.forget(wearer.ObjectID())
}
