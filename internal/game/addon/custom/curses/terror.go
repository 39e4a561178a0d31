package curses

import (
	"time"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
	"github.com/udisondev/armoraddons/internal/status"
)

const (
	terrorDarkness     = 3 * time.Second
	terrorRoarCooldown = 8 * time.Second
)

// Terror darkens the wearer's view and roars at them.
// The roar is rate limited per wearer.
type Terror struct {
	statuses StatusEffects
	announce Announcer
	roar     *cueLimiter
}

// NewTerror creates the TERROR curse.
func NewTerror(statuses StatusEffects, announce Announcer) *Terror {
	return &Terror{
		statuses: statuses,
		announce: announce,
		roar:     newCueLimiter(terrorRoarCooldown),
	}
}

// ID returns addon.Terror.
func (t *Terror) ID() addon.EffectID {
	return addon.Terror
}

// Activate applies visible darkness and roars if off cooldown.
func (t *Terror) Activate(wearer *model.Player, _ int) {
	t.statuses.Apply(wearer, status.Status{
		Kind:      status.Darkness,
		Remaining: terrorDarkness,
		Source:    Source,
	})
	if t.roar.allow(wearer.ObjectID()) {
		t.announce.Announce(wearer, CueRoar)
	}
}

// Deactivate lifts the darkness. The roar cooldown outlives the session.
func (t *Terror) Deactivate(wearer *model.Player) {
	t.statuses.RemoveFrom(wearer, status.Darkness, Source)
}
