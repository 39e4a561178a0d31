package addon

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Metadata keys used on items.
const (
	MetaKeyEffects   = "addon_effects"
	MetaKeySlotsUsed = "addon_slots_used"
)

// State is the persisted add-on data of one armor piece.
type State struct {
	Effects   map[EffectID]int
	SlotsUsed int
}

// NewState returns an empty state.
func NewState() State {
	return State{Effects: make(map[EffectID]int)}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{SlotsUsed: s.SlotsUsed, Effects: maps.Clone(s.Effects)}
	if out.Effects == nil {
		out.Effects = make(map[EffectID]int)
	}
	return out
}

// Level returns the stored level of id (0 when absent).
func (s State) Level(id EffectID) int {
	return s.Effects[id]
}

// Curse returns the curse held by the item, if any.
func (s State) Curse(c *Catalog) (EffectID, bool) {
	for id := range s.Effects {
		if d, ok := c.Lookup(id); ok && d.IsCurse() {
			return id, true
		}
	}
	return "", false
}

// HasCurse reports whether the item is curse-locked.
func (s State) HasCurse(c *Catalog) bool {
	_, ok := s.Curse(c)
	return ok
}

// DecodeEffects parses "ID:level,ID:level".
//
// Malformed pairs and unknown ids are dropped. Levels below 1 or unparsable
// become 1, curses and flat effects are always 1. When the same id appears
// twice the higher level wins. Only the first curse survives.
func DecodeEffects(c *Catalog, raw string) map[EffectID]int {
	out := make(map[EffectID]int)
	if strings.TrimSpace(raw) == "" {
		return out
	}

	var curse EffectID
	for _, part := range strings.Split(raw, ",") {
		name, lvl, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found && name == "" {
			continue
		}
		id, ok := c.Parse(name)
		if !ok {
			continue
		}
		def, _ := c.Lookup(id)

		level, err := strconv.Atoi(strings.TrimSpace(lvl))
		if err != nil || level < 1 || !def.CanLevel() {
			level = 1
		}

		if def.IsCurse() {
			if curse != "" && curse != id {
				continue
			}
			curse = id
		}
		if level > out[id] {
			out[id] = level
		}
	}
	return out
}

// EncodeEffects serializes effects sorted by id for stable output.
// Entries with level < 1 are omitted.
func EncodeEffects(effects map[EffectID]int) string {
	ids := slices.Sorted(maps.Keys(effects))

	var b strings.Builder
	for _, id := range ids {
		lvl := effects[id]
		if lvl < 1 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(id))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(lvl))
	}
	return b.String()
}

// DecodeState builds a State from item metadata.
// Items written before the slot counter existed report one slot per stored effect.
func DecodeState(c *Catalog, meta map[string]string) State {
	st := State{Effects: DecodeEffects(c, meta[MetaKeyEffects])}

	raw, ok := meta[MetaKeySlotsUsed]
	if !ok {
		st.SlotsUsed = len(st.Effects)
		return st
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		st.SlotsUsed = len(st.Effects)
		return st
	}
	st.SlotsUsed = n
	return st
}

// EncodeState returns metadata values for both keys.
// An empty effect map encodes as "" which deletes the key.
func EncodeState(s State) map[string]string {
	return map[string]string{
		MetaKeyEffects:   EncodeEffects(s.Effects),
		MetaKeySlotsUsed: strconv.Itoa(s.SlotsUsed),
	}
}
