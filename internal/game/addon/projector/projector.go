// Package projector maps resolved add-on effects onto the host's transient
// status mechanism.
package projector

import (
	"errors"
	"log/slog"
	"time"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
	"github.com/udisondev/armoraddons/internal/status"
)

// Source tags statuses applied by the projector.
const Source = "addon"

//go:generate mockgen -destination=mocks/status_api.go -package=mocks -source=projector.go StatusEffectAPI

// StatusEffectAPI is the host's status mechanism as seen by the projector.
type StatusEffectAPI interface {
	Query(wearer *model.Player, kind status.Kind) (status.Status, bool)
	Apply(wearer *model.Player, s status.Status)
}

// Entry binds an effect id to a status kind.
type Entry struct {
	Effect addon.EffectID
	Kind   status.Kind
}

// Table lists the effects handled by the projector, in application order.
type Table []Entry

// DefaultTable returns the stock mapping of GOOD effects to statuses.
func DefaultTable() Table {
	return Table{
		{addon.Vitality, status.HealthBoost},
		{addon.IronWill, status.Resistance},
		{addon.BloodMending, status.Regeneration},
		{addon.Skybound, status.JumpBoost},
		{addon.EmberWard, status.FireResistance},
		{addon.Fortune, status.Luck},
		{addon.Tidebound, status.ConduitPower},
		{addon.OceanGrace, status.DolphinsGrace},
		{addon.VillagerFavor, status.HeroOfTheVillage},
		{addon.Sightbeyond, status.NightVision},
	}
}

// Handles reports whether id is projected as a status.
func (t Table) Handles(id addon.EffectID) bool {
	for _, e := range t {
		if e.Effect == id {
			return true
		}
	}
	return false
}

// Construction errors.
var (
	ErrNonPositiveCadence = errors.New("refresh cadence must be positive")
	ErrNonPositiveGrace   = errors.New("status grace must be positive")
)

// Projector applies statuses for the simple add-on effects of a wearer.
type Projector struct {
	catalog  *addon.Catalog
	table    Table
	api      StatusEffectAPI
	duration time.Duration
}

// New creates a Projector. Statuses last cadence+grace so they outlive the
// next refresh.
func New(catalog *addon.Catalog, table Table, api StatusEffectAPI, cadence, grace time.Duration) (*Projector, error) {
	if cadence <= 0 {
		return nil, ErrNonPositiveCadence
	}
	if grace <= 0 {
		return nil, ErrNonPositiveGrace
	}
	return &Projector{
		catalog:  catalog,
		table:    table,
		api:      api,
		duration: cadence + grace,
	}, nil
}

// Duration returns the length of every applied status.
func (p *Projector) Duration() time.Duration {
	return p.duration
}

// Project applies a status for every active table entry unless the wearer
// already has a stronger one. Returns the number of statuses applied.
//
// Nothing is removed: when armor comes off, statuses expire on their own.
func (p *Projector) Project(wearer *model.Player, active addon.ActiveSet) int {
	applied := 0
	for _, e := range p.table {
		level, ok := active[e.Effect]
		if !ok || level <= 0 {
			continue
		}
		def, ok := p.catalog.Lookup(e.Effect)
		if !ok {
			continue
		}

		want := status.Status{
			Kind:      e.Kind,
			Intensity: Intensity(def, level),
			Remaining: p.duration,
			Hidden:    true,
			Source:    Source,
		}
		if cur, ok := p.api.Query(wearer, e.Kind); ok && Stronger(cur, want) {
			continue
		}
		p.api.Apply(wearer, want)
		applied++
	}

	if applied > 0 {
		slog.Debug("add-on statuses projected", "wearer", wearer.ObjectID(), "applied", applied)
	}
	return applied
}

// Intensity returns the 0-based amplifier for level: level-1 for levelable
// effects, 0 otherwise.
func Intensity(def addon.Definition, level int) int {
	if def.CanLevel() && level > 1 {
		return level - 1
	}
	return 0
}

// Stronger reports whether cur must not be replaced by want: higher
// intensity, or equal intensity with longer remaining time.
func Stronger(cur, want status.Status) bool {
	if cur.Intensity != want.Intensity {
		return cur.Intensity > want.Intensity
	}
	return cur.Remaining > want.Remaining
}
