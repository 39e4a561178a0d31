package addon

import (
	"context"
	"errors"
	"log/slog"

	"github.com/udisondev/armoraddons/internal/model"
)

// ErrNoWearer is returned by accessors asked about a nil wearer.
var ErrNoWearer = errors.New("wearer is nil")

// ActiveSet maps effect ids to the level currently in force on a wearer.
type ActiveSet map[EffectID]int

// Worn holds the armor pieces in the four add-on positions. Any may be nil.
type Worn struct {
	Helmet *model.Item
	Chest  *model.Item
	Legs   *model.Item
	Boots  *model.Item
}

// Piece returns the item worn in slot.
func (w Worn) Piece(slot model.ArmorSlot) *model.Item {
	switch slot {
	case model.ArmorSlotHead:
		return w.Helmet
	case model.ArmorSlotChest:
		return w.Chest
	case model.ArmorSlotLegs:
		return w.Legs
	case model.ArmorSlotFeet:
		return w.Boots
	default:
		return nil
	}
}

// ArmorInventoryAccessor returns what a wearer has on.
type ArmorInventoryAccessor interface {
	WornPieces(wearer *model.Player) (Worn, error)
}

// PaperdollAccessor reads worn pieces from the player's paperdoll.
type PaperdollAccessor struct{}

// WornPieces returns helmet, chest, legs and boots from the paperdoll.
func (PaperdollAccessor) WornPieces(wearer *model.Player) (Worn, error) {
	if wearer == nil {
		return Worn{}, ErrNoWearer
	}
	h, c, l, b := wearer.Inventory().ArmorPieces()
	return Worn{Helmet: h, Chest: c, Legs: l, Boots: b}, nil
}

// ResolveStates merges per-piece states into the active set.
//
// ANY_ARMOR ids take the highest level across pieces. *_ONLY ids read only
// their own piece. Unknown ids and levels <= 0 are dropped.
func ResolveStates(c *Catalog, states map[model.ArmorSlot]State) ActiveSet {
	out := make(ActiveSet)
	for slot, st := range states {
		for id, lvl := range st.Effects {
			if lvl <= 0 {
				continue
			}
			def, ok := c.Lookup(id)
			if !ok {
				continue
			}
			if only, restricted := def.SlotRule.Slot(); restricted && only != slot {
				continue
			}
			if lvl > out[id] {
				out[id] = lvl
			}
		}
	}
	return out
}

// Resolver computes a wearer's active set from worn armor.
type Resolver struct {
	catalog  *Catalog
	store    *Store
	accessor ArmorInventoryAccessor
}

// NewResolver creates a Resolver.
func NewResolver(store *Store, accessor ArmorInventoryAccessor) *Resolver {
	return &Resolver{catalog: store.Catalog(), store: store, accessor: accessor}
}

// Resolve returns the active set of wearer. Any accessor or storage failure
// yields an empty set for this cycle.
func (r *Resolver) Resolve(ctx context.Context, wearer *model.Player) ActiveSet {
	worn, err := r.accessor.WornPieces(wearer)
	if err != nil {
		slog.Warn("resolving worn armor", "error", err)
		return ActiveSet{}
	}

	states := make(map[model.ArmorSlot]State, len(model.AddonSlots))
	for _, slot := range model.AddonSlots {
		item := worn.Piece(slot)
		if item == nil || !item.IsArmor() {
			continue
		}
		st, err := r.store.Read(ctx, item)
		if err != nil {
			slog.Warn("reading add-on state",
				"wearer", wearer.ObjectID(),
				"item", item.ID(),
				"error", err)
			return ActiveSet{}
		}
		states[slot] = st
	}
	return ResolveStates(r.catalog, states)
}
