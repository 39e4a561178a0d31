package addon

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/udisondev/armoraddons/internal/model"
)

// DefaultMaxSlots is the slot budget used when no positive value is configured.
const DefaultMaxSlots = 3

const tracerName = "github.com/udisondev/armoraddons/internal/game/addon"

// Roller draws a uniform index in [0, n).
type Roller interface {
	IntN(n int) int
}

// RollerFunc adapts a function to Roller.
type RollerFunc func(n int) int

// IntN calls f(n).
func (f RollerFunc) IntN(n int) int {
	return f(n)
}

// DefaultRoller draws from the global math/rand/v2 source (safe for concurrent use).
var DefaultRoller Roller = RollerFunc(rand.IntN)

// SeededRoller is a deterministic Roller, used by tools and tests.
type SeededRoller struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRoller creates a PCG-backed roller.
func NewSeededRoller(seed uint64) *SeededRoller {
	return &SeededRoller{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN draws a uniform index in [0, n).
func (s *SeededRoller) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Allocator executes the apply transaction: validate, roll, mutate, persist.
type Allocator struct {
	catalog         *Catalog
	pool            *Pool
	store           *Store
	roller          Roller
	lore            LoreRenderer
	defaultMaxSlots int
	tracer          trace.Tracer
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithRoller replaces the random source.
func WithRoller(r Roller) AllocatorOption {
	return func(a *Allocator) { a.roller = r }
}

// WithLore sets the renderer whose output replaces item lore after every success.
func WithLore(l LoreRenderer) AllocatorOption {
	return func(a *Allocator) { a.lore = l }
}

// WithDefaultMaxSlots sets the budget used when callers pass maxSlots <= 0.
func WithDefaultMaxSlots(n int) AllocatorOption {
	return func(a *Allocator) {
		if n > 0 {
			a.defaultMaxSlots = n
		}
	}
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) AllocatorOption {
	return func(a *Allocator) { a.tracer = t }
}

// NewAllocator creates an Allocator.
func NewAllocator(catalog *Catalog, pool *Pool, store *Store, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		catalog:         catalog,
		pool:            pool,
		store:           store,
		roller:          DefaultRoller,
		defaultMaxSlots: DefaultMaxSlots,
		tracer:          otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultMaxSlots returns the budget applied when callers pass maxSlots <= 0.
func (a *Allocator) DefaultMaxSlots() int {
	return a.defaultMaxSlots
}

// ApplyRandomEffect rolls one effect onto item.
//
// Rule failures are reported in the outcome (Reason, Err()). The error return
// is reserved for storage failures; in that case nothing was written.
func (a *Allocator) ApplyRandomEffect(ctx context.Context, item *model.Item, maxSlots int) (ApplyOutcome, error) {
	if maxSlots <= 0 {
		maxSlots = a.defaultMaxSlots
	}

	ctx, span := a.tracer.Start(ctx, "addon.ApplyRandomEffect")
	defer span.End()

	if item == nil {
		span.SetAttributes(attribute.String("addon.reason", ReasonNotArmor.String()))
		return failed(ReasonNotArmor, NewState(), maxSlots), nil
	}
	span.SetAttributes(
		attribute.Int64("addon.item_id", item.ID()),
		attribute.Int("addon.max_slots", maxSlots),
	)

	slot, ok := item.AddonSlot()
	if !ok {
		span.SetAttributes(attribute.String("addon.reason", ReasonNotArmor.String()))
		return failed(ReasonNotArmor, NewState(), maxSlots), nil
	}

	var out ApplyOutcome
	st, err := a.store.Update(ctx, item, func(st *State) bool {
		out = a.roll(st, slot, maxSlots)
		return out.Success
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store update failed")
		return ApplyOutcome{}, err
	}
	out.State = st
	out.SlotsUsed = st.SlotsUsed

	span.SetAttributes(
		attribute.Bool("addon.success", out.Success),
		attribute.String("addon.reason", out.Reason.String()),
		attribute.String("addon.effect", string(out.Effect)),
		attribute.Int("addon.slots_used", out.SlotsUsed),
	)
	slog.Debug("add-on apply",
		"item", item.ID(),
		"slot", slot,
		"success", out.Success,
		"effect", out.Effect,
		"level", out.Level,
		"reason", out.Reason,
		"slots_used", out.SlotsUsed,
		"max_slots", maxSlots)

	if out.Success && a.lore != nil {
		item.SetLore(a.lore.Render(st.Effects, st.SlotsUsed, maxSlots))
	}
	return out, nil
}

// roll validates st and mutates it in place on success.
func (a *Allocator) roll(st *State, slot model.ArmorSlot, maxSlots int) ApplyOutcome {
	if st.SlotsUsed >= maxSlots {
		return failed(ReasonSlotsFull, *st, maxSlots)
	}
	if a.pool.IsEmpty() {
		return failed(ReasonPoolEmpty, *st, maxSlots)
	}

	candidates := a.Candidates(*st, slot)
	if len(candidates) == 0 {
		return failed(ReasonNoValidRoll, *st, maxSlots)
	}

	id := candidates[a.roller.IntN(len(candidates))]
	def, _ := a.catalog.Lookup(id)

	var (
		level     int
		duplicate bool
	)
	switch {
	case def.IsCurse():
		if st.HasCurse(a.catalog) {
			return failed(ReasonCurseLocked, *st, maxSlots)
		}
		level = 1
	case def.CanLevel():
		level = st.Effects[id] + 1
	default:
		_, duplicate = st.Effects[id]
		level = 1
	}

	st.Effects[id] = level
	st.SlotsUsed++
	return succeeded(def, level, duplicate, *st, maxSlots)
}

// Candidates returns pool ids that may be rolled onto an item in slot with state st.
// Curses are dropped once the item holds one; GOOD ids must admit the slot.
func (a *Allocator) Candidates(st State, slot model.ArmorSlot) []EffectID {
	cursed := st.HasCurse(a.catalog)
	pool := a.pool.Snapshot()

	out := make([]EffectID, 0, len(pool))
	for _, id := range pool {
		def, ok := a.catalog.Lookup(id)
		if !ok {
			continue
		}
		if def.IsCurse() {
			if !cursed {
				out = append(out, id)
			}
			continue
		}
		if def.SlotRule.Admits(slot) {
			out = append(out, id)
		}
	}
	return out
}
