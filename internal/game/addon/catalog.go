// Package addon implements armor add-on slots.
//
// An armor piece owns a small budget of slots. Every successful apply rolls one
// effect from the configured pool and spends one slot. GOOD effects may level up
// on repeated rolls, CURSE effects never level and at most one curse can live on
// an item. The refresh side of the system (projector, custom engine) reads the
// stored state back through Resolver.
package addon

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/udisondev/armoraddons/internal/model"
)

// EffectID identifies an add-on effect kind. Stored on items as its string form.
type EffectID string

// Known effect kinds.
const (
	// GOOD, levelable
	Vitality     EffectID = "VITALITY"
	IronWill     EffectID = "IRON_WILL"
	BloodMending EffectID = "BLOOD_MENDING"
	Skybound     EffectID = "SKYBOUND"

	// GOOD, flat
	EmberWard     EffectID = "EMBER_WARD"
	Fortune       EffectID = "FORTUNE"
	Tidebound     EffectID = "TIDEBOUND"
	OceanGrace    EffectID = "OCEAN_GRACE"
	VillagerFavor EffectID = "VILLAGER_FAVOR"
	Sightbeyond   EffectID = "SIGHTBEYOND"

	// CURSE
	Dread   EffectID = "DREAD"
	Misstep EffectID = "MISSTEP"
	Terror  EffectID = "TERROR"
)

// Category splits effects into beneficial and detrimental kinds.
type Category int8

const (
	CategoryGood Category = iota
	CategoryCurse
)

// String returns human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryGood:
		return "GOOD"
	case CategoryCurse:
		return "CURSE"
	default:
		return "UNKNOWN"
	}
}

// SlotRule restricts which armor piece may receive and contribute an effect.
type SlotRule int8

const (
	SlotAnyArmor SlotRule = iota
	SlotHelmetOnly
	SlotChestOnly
	SlotLegsOnly
	SlotBootsOnly
)

// String returns human-readable slot rule name.
func (r SlotRule) String() string {
	switch r {
	case SlotAnyArmor:
		return "ANY_ARMOR"
	case SlotHelmetOnly:
		return "HELMET_ONLY"
	case SlotChestOnly:
		return "CHEST_ONLY"
	case SlotLegsOnly:
		return "LEGS_ONLY"
	case SlotBootsOnly:
		return "BOOTS_ONLY"
	default:
		return "UNKNOWN"
	}
}

// Slot returns the single armor slot of a *_ONLY rule.
// ok is false for SlotAnyArmor.
func (r SlotRule) Slot() (model.ArmorSlot, bool) {
	switch r {
	case SlotHelmetOnly:
		return model.ArmorSlotHead, true
	case SlotChestOnly:
		return model.ArmorSlotChest, true
	case SlotLegsOnly:
		return model.ArmorSlotLegs, true
	case SlotBootsOnly:
		return model.ArmorSlotFeet, true
	default:
		return model.ArmorSlotNone, false
	}
}

// Admits reports whether an armor piece in slot satisfies the rule.
func (r SlotRule) Admits(slot model.ArmorSlot) bool {
	if !slot.IsAddonSlot() {
		return false
	}
	only, restricted := r.Slot()
	return !restricted || only == slot
}

// Definition describes one effect kind. Immutable once in a Catalog.
type Definition struct {
	ID          EffectID
	Category    Category
	Levelable   bool
	SlotRule    SlotRule
	DisplayName string // optional, derived from ID when empty
}

// IsCurse returns true for CURSE effects.
func (d Definition) IsCurse() bool {
	return d.Category == CategoryCurse
}

// CanLevel returns true only for GOOD effects allowed to level up.
func (d Definition) CanLevel() bool {
	return d.Category == CategoryGood && d.Levelable
}

// Catalog errors.
var (
	ErrCurseLevelable     = errors.New("curse effects cannot be levelable")
	ErrDuplicateEffect    = errors.New("effect defined twice")
	ErrEmptyEffectID      = errors.New("effect id is empty")
	ErrAliasUnknownTarget = errors.New("alias points to unknown effect")
)

// Catalog is the static table of known effect kinds.
// Safe for concurrent reads; never mutated after construction.
type Catalog struct {
	defs    map[EffectID]Definition
	order   []EffectID
	aliases map[string]EffectID
}

// NewCatalog validates definitions and builds a catalog.
// aliases maps legacy names (any case) to current ids.
func NewCatalog(defs []Definition, aliases map[string]EffectID) (*Catalog, error) {
	c := &Catalog{
		defs:    make(map[EffectID]Definition, len(defs)),
		order:   make([]EffectID, 0, len(defs)),
		aliases: make(map[string]EffectID, len(aliases)),
	}

	for _, d := range defs {
		if d.ID == "" {
			return nil, ErrEmptyEffectID
		}
		if d.Category == CategoryCurse && d.Levelable {
			return nil, fmt.Errorf("effect %s: %w", d.ID, ErrCurseLevelable)
		}
		if _, exists := c.defs[d.ID]; exists {
			return nil, fmt.Errorf("effect %s: %w", d.ID, ErrDuplicateEffect)
		}
		c.defs[d.ID] = d
		c.order = append(c.order, d.ID)
	}

	for from, to := range aliases {
		if _, ok := c.defs[to]; !ok {
			return nil, fmt.Errorf("alias %s -> %s: %w", from, to, ErrAliasUnknownTarget)
		}
		c.aliases[strings.ToUpper(strings.TrimSpace(from))] = to
	}

	return c, nil
}

// DefaultCatalog returns the built-in effect table.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultDefinitions, defaultAliases)
	if err != nil {
		panic(fmt.Sprintf("addon: default catalog: %v", err))
	}
	return c
}

var defaultDefinitions = []Definition{
	{ID: Vitality, Category: CategoryGood, Levelable: true, SlotRule: SlotAnyArmor},
	{ID: IronWill, Category: CategoryGood, Levelable: true, SlotRule: SlotChestOnly},
	{ID: BloodMending, Category: CategoryGood, Levelable: true, SlotRule: SlotLegsOnly},
	{ID: Skybound, Category: CategoryGood, Levelable: true, SlotRule: SlotBootsOnly},

	{ID: EmberWard, Category: CategoryGood, SlotRule: SlotAnyArmor},
	{ID: Fortune, Category: CategoryGood, SlotRule: SlotAnyArmor},
	{ID: Tidebound, Category: CategoryGood, SlotRule: SlotHelmetOnly},
	{ID: OceanGrace, Category: CategoryGood, SlotRule: SlotBootsOnly},
	{ID: VillagerFavor, Category: CategoryGood, SlotRule: SlotAnyArmor, DisplayName: "Villager's Favor"},
	{ID: Sightbeyond, Category: CategoryGood, SlotRule: SlotHelmetOnly, DisplayName: "Sight Beyond"},

	{ID: Dread, Category: CategoryCurse, SlotRule: SlotAnyArmor},
	{ID: Misstep, Category: CategoryCurse, SlotRule: SlotAnyArmor},
	{ID: Terror, Category: CategoryCurse, SlotRule: SlotAnyArmor},
}

// Names used by older items and configs.
var defaultAliases = map[string]EffectID{
	"WARMTH":   EmberWard,
	"VIGOR":    Vitality,
	"UNEASE":   Terror,
	"DISARRAY": Misstep,
}

// Lookup returns the definition of id. Unknown ids return false.
func (c *Catalog) Lookup(id EffectID) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Parse resolves a raw name (any case, aliases allowed) into a known id.
func (c *Catalog) Parse(raw string) (EffectID, bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	if to, ok := c.aliases[key]; ok {
		return to, true
	}
	id := EffectID(key)
	if _, ok := c.defs[id]; !ok {
		return "", false
	}
	return id, true
}

// IDs returns all known ids in definition order.
func (c *Catalog) IDs() []EffectID {
	return slices.Clone(c.order)
}
