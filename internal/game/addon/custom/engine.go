// Package custom runs scripted add-on effects through an activate/deactivate
// lifecycle driven by set differences between refresh cycles.
package custom

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
)

//go:generate mockgen -destination=mocks/effect.go -package=mocks -source=engine.go Effect

// Effect is one scripted behavior.
//
// Activate is called once when the effect appears on a wearer, Deactivate once
// when it disappears. Calls for one wearer never overlap and always alternate.
type Effect interface {
	ID() addon.EffectID
	Activate(wearer *model.Player, level int)
	Deactivate(wearer *model.Player)
}

// wearerState is what the engine last activated for one wearer.
type wearerState struct {
	player *model.Player
	active map[addon.EffectID]int
}

// Engine tracks active scripted effects per wearer.
//
// Thread-safe: Refresh, DeactivateWearer and Shutdown may be called from
// different goroutines.
type Engine struct {
	mu       sync.Mutex
	registry map[addon.EffectID]Effect
	wearers  map[uint32]*wearerState // objectID → state
}

// NewEngine creates an engine with the given effects registered.
func NewEngine(effects ...Effect) *Engine {
	e := &Engine{
		registry: make(map[addon.EffectID]Effect, len(effects)),
		wearers:  make(map[uint32]*wearerState),
	}
	for _, eff := range effects {
		e.Register(eff)
	}
	return e
}

// Register adds or replaces the strategy for effect.ID().
func (e *Engine) Register(effect Effect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry[effect.ID()] = effect
	slog.Debug("custom effect registered", "effect", effect.ID())
}

// Handles reports whether a strategy is registered for id.
func (e *Engine) Handles(id addon.EffectID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.registry[id]
	return ok
}

// Refresh reconciles the wearer's scripted effects with the resolved set.
// Ids that appeared are activated, ids that disappeared are deactivated,
// ids that stayed are left alone. Ids without a strategy are ignored.
func (e *Engine) Refresh(wearer *model.Player, resolved addon.ActiveSet) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws := e.wearers[wearer.ObjectID()]
	if ws == nil {
		ws = &wearerState{player: wearer, active: make(map[addon.EffectID]int)}
	}

	for _, id := range slices.Sorted(maps.Keys(ws.active)) {
		if lvl, ok := resolved[id]; ok && lvl > 0 {
			continue
		}
		delete(ws.active, id)
		e.deactivate(id, wearer)
	}

	for _, id := range slices.Sorted(maps.Keys(resolved)) {
		lvl := resolved[id]
		if lvl <= 0 {
			continue
		}
		if _, ok := ws.active[id]; ok {
			continue
		}
		if _, ok := e.registry[id]; !ok {
			continue
		}
		ws.active[id] = lvl
		e.activate(id, wearer, lvl)
	}

	if len(ws.active) == 0 {
		delete(e.wearers, wearer.ObjectID())
		return
	}
	e.wearers[wearer.ObjectID()] = ws
}

// DeactivateWearer ends every effect still active on wearer (disconnect).
func (e *Engine) DeactivateWearer(wearer *model.Player) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws, ok := e.wearers[wearer.ObjectID()]
	if !ok {
		return
	}
	delete(e.wearers, wearer.ObjectID())
	for _, id := range slices.Sorted(maps.Keys(ws.active)) {
		e.deactivate(id, ws.player)
	}
}

// Shutdown ends every active (wearer, effect) pair and forgets all wearers.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	pairs := 0
	for _, objectID := range slices.Sorted(maps.Keys(e.wearers)) {
		ws := e.wearers[objectID]
		for _, id := range slices.Sorted(maps.Keys(ws.active)) {
			e.deactivate(id, ws.player)
			pairs++
		}
	}
	clear(e.wearers)
	slog.Info("custom effect engine shut down", "deactivated", pairs)
}

// Active returns the ids currently active on wearer, sorted.
func (e *Engine) Active(wearer *model.Player) []addon.EffectID {
	e.mu.Lock()
	defer e.mu.Unlock()

	ws, ok := e.wearers[wearer.ObjectID()]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(ws.active))
}

// activate and deactivate must be called with mu held.
func (e *Engine) activate(id addon.EffectID, wearer *model.Player, level int) {
	eff := e.registry[id]
	defer recoverEffect("activate", id, wearer)
	eff.Activate(wearer, level)
	slog.Debug("custom effect activated", "effect", id, "wearer", wearer.ObjectID(), "level", level)
}

func (e *Engine) deactivate(id addon.EffectID, wearer *model.Player) {
	eff, ok := e.registry[id]
	if !ok {
		return
	}
	defer recoverEffect("deactivate", id, wearer)
	eff.Deactivate(wearer)
	slog.Debug("custom effect deactivated", "effect", id, "wearer", wearer.ObjectID())
}

func recoverEffect(phase string, id addon.EffectID, wearer *model.Player) {
	if r := recover(); r != nil {
		slog.Error("custom effect panicked",
			"phase", phase,
			"effect", id,
			"wearer", wearer.ObjectID(),
			"panic", fmt.Sprint(r))
	}
}
