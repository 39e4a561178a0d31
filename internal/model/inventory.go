package model

import (
	"fmt"
	"sync"
)

// Inventory — хранилище предметов персонажа (inventory + paperdoll).
type Inventory struct {
	ownerID int64 // Character ID владельца

	items     map[int64]*Item            // itemID → Item (все items)
	paperdoll [PaperdollTotalSlots]*Item // Equipped items

	mu sync.RWMutex
}

// Paperdoll slots used by armor.
const (
	PaperdollHead       = 0 // Helmet
	PaperdollChest      = 1 // Chest Armor
	PaperdollLegs       = 2 // Legs Armor
	PaperdollFeet       = 3 // Boots
	PaperdollGloves     = 4
	PaperdollCloak      = 5
	PaperdollTotalSlots = 6
)

// NewInventory создаёт новый инвентарь для персонажа.
func NewInventory(ownerID int64) *Inventory {
	return &Inventory{
		ownerID: ownerID,
		items:   make(map[int64]*Item),
	}
}

// OwnerID возвращает character ID владельца.
func (inv *Inventory) OwnerID() int64 {
	return inv.ownerID
}

// AddItem добавляет предмет в инвентарь.
func (inv *Inventory) AddItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if _, exists := inv.items[item.ID()]; exists {
		return fmt.Errorf("item %d already in inventory", item.ID())
	}
	inv.items[item.ID()] = item
	return nil
}

// RemoveItem удаляет предмет (снимая его, если он надет).
func (inv *Inventory) RemoveItem(itemID int64) *Item {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	item, ok := inv.items[itemID]
	if !ok {
		return nil
	}
	if slot := item.Slot(); slot >= 0 && slot < PaperdollTotalSlots {
		inv.paperdoll[slot] = nil
		item.SetSlot(-1)
	}
	delete(inv.items, itemID)
	return item
}

// GetItem returns an inventory item by ID.
func (inv *Inventory) GetItem(itemID int64) *Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.items[itemID]
}

// GetPaperdollItem возвращает equipped item для указанного slot (может быть nil).
func (inv *Inventory) GetPaperdollItem(slot int32) *Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	if slot < 0 || slot >= PaperdollTotalSlots {
		return nil
	}
	return inv.paperdoll[slot]
}

// EquipItem надевает armor в слот, определённый его BodyPart.
// Предыдущий предмет в слоте снимается и возвращается.
func (inv *Inventory) EquipItem(item *Item) (*Item, error) {
	if item == nil {
		return nil, fmt.Errorf("item cannot be nil")
	}
	if !item.IsArmor() {
		return nil, fmt.Errorf("item %d is not armor", item.ID())
	}
	slot := paperdollSlotFor(item.Template().BodyPart)
	if slot < 0 {
		return nil, fmt.Errorf("item %d has no paperdoll slot (body part %s)", item.ID(), item.Template().BodyPart)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if _, exists := inv.items[item.ID()]; !exists {
		return nil, fmt.Errorf("item %d not found in inventory", item.ID())
	}

	old := inv.paperdoll[slot]
	if old != nil {
		old.SetSlot(-1)
	}
	inv.paperdoll[slot] = item
	item.SetSlot(slot)
	return old, nil
}

// UnequipItem снимает item из указанного slot.
// Returns nil если slot был пустой.
func (inv *Inventory) UnequipItem(slot int32) *Item {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if slot < 0 || slot >= PaperdollTotalSlots {
		return nil
	}

	item := inv.paperdoll[slot]
	if item != nil {
		item.SetSlot(-1)
		inv.paperdoll[slot] = nil
	}
	return item
}

// ArmorPieces returns the items worn in the four add-on slots (nil when empty).
func (inv *Inventory) ArmorPieces() (helmet, chest, legs, boots *Item) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.paperdoll[PaperdollHead], inv.paperdoll[PaperdollChest],
		inv.paperdoll[PaperdollLegs], inv.paperdoll[PaperdollFeet]
}

func paperdollSlotFor(part ArmorSlot) int32 {
	switch part {
	case ArmorSlotHead:
		return PaperdollHead
	case ArmorSlotChest, ArmorSlotFullArmor:
		return PaperdollChest
	case ArmorSlotLegs:
		return PaperdollLegs
	case ArmorSlotFeet:
		return PaperdollFeet
	case ArmorSlotGloves:
		return PaperdollGloves
	case ArmorSlotCloak:
		return PaperdollCloak
	default:
		return -1
	}
}
