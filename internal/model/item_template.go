package model

// ItemTemplate — шаблон предмета.
// Содержит неизменяемые свойства, общие для всех экземпляров (тип, слот брони).
type ItemTemplate struct {
	ItemID int32  // Template ID (unique)
	Name   string // Item name (e.g., "Iron Helmet", "Add-On Token")
	Type   ItemType

	// Armor
	BodyPart ArmorSlot // Which body slot this armor occupies

	Stackable bool // Can stack multiple items (tokens)
}

// ItemType определяет категорию предмета.
type ItemType int32

const (
	ItemTypeWeapon ItemType = iota
	ItemTypeArmor
	ItemTypeConsumable
	ItemTypeEtcItem
)

// String returns human-readable item type name.
func (it ItemType) String() string {
	switch it {
	case ItemTypeWeapon:
		return "Weapon"
	case ItemTypeArmor:
		return "Armor"
	case ItemTypeConsumable:
		return "Consumable"
	case ItemTypeEtcItem:
		return "EtcItem"
	default:
		return "Unknown"
	}
}

// ArmorSlot определяет слот брони (соответствует paperdoll slots для armor).
type ArmorSlot int32

const (
	ArmorSlotNone ArmorSlot = iota
	ArmorSlotChest
	ArmorSlotLegs
	ArmorSlotHead
	ArmorSlotFeet
	ArmorSlotGloves
	ArmorSlotFullArmor // chest + legs in one piece
	ArmorSlotCloak
)

// AddonSlots lists the four armor slots that can carry add-on effects,
// in the order they are scanned on a wearer.
var AddonSlots = [4]ArmorSlot{ArmorSlotHead, ArmorSlotChest, ArmorSlotLegs, ArmorSlotFeet}

// String returns human-readable armor slot name.
func (as ArmorSlot) String() string {
	switch as {
	case ArmorSlotNone:
		return "None"
	case ArmorSlotChest:
		return "Chest"
	case ArmorSlotLegs:
		return "Legs"
	case ArmorSlotHead:
		return "Head"
	case ArmorSlotFeet:
		return "Feet"
	case ArmorSlotGloves:
		return "Gloves"
	case ArmorSlotFullArmor:
		return "FullArmor"
	case ArmorSlotCloak:
		return "Cloak"
	default:
		return "Unknown"
	}
}

// IsAddonSlot returns true for helmet, chest, legs and boots.
func (as ArmorSlot) IsAddonSlot() bool {
	switch as {
	case ArmorSlotHead, ArmorSlotChest, ArmorSlotLegs, ArmorSlotFeet:
		return true
	default:
		return false
	}
}

// IsArmor returns true if this template is armor.
func (t *ItemTemplate) IsArmor() bool {
	return t.Type == ItemTypeArmor
}
