package model

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Item — конкретный экземпляр предмета (armor, token, etc.).
//
// Кроме базовых полей несёт attached metadata: произвольные key/value пары,
// которые путешествуют вместе с предметом (add-on эффекты, счётчик слотов).
type Item struct {
	id       int64 // Persistent instance ID
	ownerID  int64 // Character ID владельца
	slot     int32 // Paperdoll slot (-1 если не equipped)
	count    int32 // Stack count (1 для armor)
	template *ItemTemplate

	lore     []string
	meta     map[string]string
	metaSeen bool // metadata was hydrated from a persistent backend

	mu sync.RWMutex
}

// NewItem создаёт новый предмет с валидацией.
func NewItem(id, ownerID int64, count int32, template *ItemTemplate) (*Item, error) {
	if template == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be > 0, got %d", count)
	}

	return &Item{
		id:       id,
		ownerID:  ownerID,
		slot:     -1, // Not equipped
		count:    count,
		template: template,
		meta:     make(map[string]string),
	}, nil
}

// ID возвращает persistent instance ID.
func (i *Item) ID() int64 {
	return i.id
}

// TemplateID возвращает template ID.
func (i *Item) TemplateID() int32 {
	return i.template.ItemID
}

// Template возвращает шаблон предмета.
func (i *Item) Template() *ItemTemplate {
	return i.template
}

// Name returns the template name.
func (i *Item) Name() string {
	return i.template.Name
}

// OwnerID возвращает character ID владельца.
func (i *Item) OwnerID() int64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ownerID
}

// Slot возвращает paperdoll slot (-1 если не equipped).
func (i *Item) Slot() int32 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.slot
}

// SetSlot устанавливает paperdoll slot.
func (i *Item) SetSlot(slot int32) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.slot = slot
}

// IsEquipped returns true if item is on the paperdoll.
func (i *Item) IsEquipped() bool {
	return i.Slot() >= 0
}

// Count возвращает stack count.
func (i *Item) Count() int32 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.count
}

// SetCount устанавливает stack count с валидацией.
func (i *Item) SetCount(count int32) error {
	if count < 0 {
		return fmt.Errorf("count cannot be negative, got %d", count)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.count = count
	return nil
}

// IsArmor returns true if the item template is armor.
func (i *Item) IsArmor() bool {
	return i.template.IsArmor()
}

// AddonSlot returns the single add-on armor slot this item occupies.
// ok is false for non-armor and for armor covering zero or several add-on slots.
func (i *Item) AddonSlot() (ArmorSlot, bool) {
	if !i.template.IsArmor() {
		return ArmorSlotNone, false
	}
	slot := i.template.BodyPart
	return slot, slot.IsAddonSlot()
}

// Lore returns a copy of the item's lore lines.
func (i *Item) Lore() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.lore)
}

// SetLore replaces the item's lore lines.
func (i *Item) SetLore(lines []string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lore = slices.Clone(lines)
}

// Metadata returns a copy of the attached metadata.
func (i *Item) Metadata() map[string]string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return maps.Clone(i.meta)
}

// MetaValue returns a single metadata value.
func (i *Item) MetaValue(key string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.meta[key]
	return v, ok
}

// ApplyMetadata merges values into the attached metadata in one step.
// An empty value removes the key.
func (i *Item) ApplyMetadata(values map[string]string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for k, v := range values {
		if v == "" {
			delete(i.meta, k)
			continue
		}
		i.meta[k] = v
	}
}

// HydrateMetadata merges values loaded from persistent storage and marks the
// item as hydrated, unless it already was. Keys already on the item win.
// Returns false when values were ignored.
//
// Проверка и слияние под одним локом: устаревший снимок из backend не может
// перезаписать то, что уже записал параллельный Save.
func (i *Item) HydrateMetadata(values map[string]string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.metaSeen {
		return false
	}
	for k, v := range values {
		if v == "" {
			continue
		}
		if _, ok := i.meta[k]; !ok {
			i.meta[k] = v
		}
	}
	i.metaSeen = true
	return true
}

// MetadataLoaded reports whether metadata was hydrated from persistent storage.
func (i *Item) MetadataLoaded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.metaSeen
}
