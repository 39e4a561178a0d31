// Package status is the host's transient status-effect mechanism: timed
// buffs and debuffs per wearer, expired by a ticker.
package status

import "time"

// Kind identifies a status effect type.
type Kind string

// Known status kinds.
const (
	HealthBoost      Kind = "health_boost"
	Resistance       Kind = "resistance"
	Regeneration     Kind = "regeneration"
	JumpBoost        Kind = "jump_boost"
	FireResistance   Kind = "fire_resistance"
	Luck             Kind = "luck"
	ConduitPower     Kind = "conduit_power"
	DolphinsGrace    Kind = "dolphins_grace"
	HeroOfTheVillage Kind = "hero_of_the_village"
	NightVision      Kind = "night_vision"

	Darkness Kind = "darkness"
	Slowness Kind = "slowness"
	Grounded Kind = "grounded" // cannot jump
)

// Status is one active instance of a Kind on a wearer.
type Status struct {
	Kind      Kind
	Intensity int // 0-based amplifier
	Remaining time.Duration

	// Hidden statuses show no icon and no particles.
	Hidden bool
	Source string
}

// Expired reports whether the status has run out.
func (s Status) Expired() bool {
	return s.Remaining <= 0
}
