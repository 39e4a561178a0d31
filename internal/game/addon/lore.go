package addon

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LoreRenderer turns stored add-on state into item lore lines.
type LoreRenderer interface {
	Render(effects map[EffectID]int, slotsUsed, maxSlots int) []string
}

// ThematicLore renders the stock lore block:
//
//	Add-On Slots: 2/3
//	Imprinted Effects:
//	 ■ Vitality II
//	 ■ Dread
//	"The armor remembers..."
type ThematicLore struct {
	catalog *Catalog
}

// NewThematicLore creates the default renderer.
func NewThematicLore(catalog *Catalog) *ThematicLore {
	return &ThematicLore{catalog: catalog}
}

// Render builds lore lines. GOOD effects come first, then curses, each group
// sorted by display name. Only levelable effects show a level.
func (l *ThematicLore) Render(effects map[EffectID]int, slotsUsed, maxSlots int) []string {
	lines := []string{fmt.Sprintf("Add-On Slots: %d/%d", slotsUsed, maxSlots)}

	type entry struct {
		name  string
		def   Definition
		level int
	}
	var good, curses []entry
	for id, lvl := range effects {
		def, ok := l.catalog.Lookup(id)
		if !ok || lvl < 1 {
			continue
		}
		e := entry{name: l.DisplayName(def), def: def, level: lvl}
		if def.IsCurse() {
			curses = append(curses, e)
		} else {
			good = append(good, e)
		}
	}

	if len(good)+len(curses) == 0 {
		lines = append(lines, "No lingering influence.")
	} else {
		lines = append(lines, "Imprinted Effects:")
		byName := func(a, b entry) int { return cmp.Compare(a.name, b.name) }
		slices.SortFunc(good, byName)
		slices.SortFunc(curses, byName)

		for _, e := range append(good, curses...) {
			line := " ■ " + e.name
			if e.def.CanLevel() {
				line += " " + Roman(e.level)
			}
			lines = append(lines, line)
		}
	}

	return append(lines, `"The armor remembers..."`)
}

// DisplayName returns the definition's display name, or a title-cased form of its id.
func (l *ThematicLore) DisplayName(def Definition) string {
	if def.DisplayName != "" {
		return def.DisplayName
	}
	words := strings.ReplaceAll(strings.ToLower(string(def.ID)), "_", " ")
	// Caser keeps state between calls, never share one across goroutines.
	return cases.Title(language.English).String(words)
}

var romanNumerals = [...]string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// Roman returns n in roman numerals for 1..10 and decimal otherwise.
func Roman(n int) string {
	if n >= 1 && n < len(romanNumerals) {
		return romanNumerals[n]
	}
	return strconv.Itoa(n)
}
