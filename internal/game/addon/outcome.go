package addon

import (
	"errors"
	"fmt"
)

// Reason tags why an apply did not succeed.
type Reason int8

const (
	ReasonNone Reason = iota
	ReasonNotArmor
	ReasonSlotsFull
	ReasonPoolEmpty
	ReasonNoValidRoll
	ReasonCurseLocked
)

// String returns the reason tag.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonNotArmor:
		return "NotArmor"
	case ReasonSlotsFull:
		return "SlotsFull"
	case ReasonPoolEmpty:
		return "PoolEmpty"
	case ReasonNoValidRoll:
		return "NoValidRoll"
	case ReasonCurseLocked:
		return "CurseLocked"
	default:
		return "Unknown"
	}
}

// Sentinel errors, one per failure reason.
var (
	ErrNotArmor    = errors.New("item is not armor")
	ErrSlotsFull   = errors.New("max add-ons reached")
	ErrPoolEmpty   = errors.New("add-on pool is empty")
	ErrNoValidRoll = errors.New("no valid effects to roll for this armor slot")
	ErrCurseLocked = errors.New("armor is curse-locked")
)

var reasonErrors = map[Reason]error{
	ReasonNotArmor:    ErrNotArmor,
	ReasonSlotsFull:   ErrSlotsFull,
	ReasonPoolEmpty:   ErrPoolEmpty,
	ReasonNoValidRoll: ErrNoValidRoll,
	ReasonCurseLocked: ErrCurseLocked,
}

var reasonMessages = map[Reason]string{
	ReasonNotArmor:    "Item is not armor.",
	ReasonSlotsFull:   "Max add-ons reached.",
	ReasonPoolEmpty:   "Add-on pool is empty.",
	ReasonNoValidRoll: "No valid effects to roll for this armor slot.",
	ReasonCurseLocked: "Armor is curse-locked (no more curses).",
}

// ApplyOutcome is the result of one apply transaction.
type ApplyOutcome struct {
	Success   bool
	Effect    EffectID
	Level     int
	SlotsUsed int
	MaxSlots  int
	Reason    Reason
	Message   string

	// Duplicate is set when a flat effect already on the item was rolled again.
	Duplicate bool
	Curse     bool

	// State after the transaction (before it on failure).
	State State
}

// Err returns the sentinel error matching Reason, nil on success.
func (o ApplyOutcome) Err() error {
	if o.Success {
		return nil
	}
	return reasonErrors[o.Reason]
}

func failed(reason Reason, st State, maxSlots int) ApplyOutcome {
	return ApplyOutcome{
		Reason:    reason,
		Message:   reasonMessages[reason],
		SlotsUsed: st.SlotsUsed,
		MaxSlots:  maxSlots,
		State:     st,
	}
}

func succeeded(def Definition, level int, duplicate bool, st State, maxSlots int) ApplyOutcome {
	msg := fmt.Sprintf("Applied %s.", def.ID)
	if def.CanLevel() {
		msg = fmt.Sprintf("Applied %s (level %d).", def.ID, level)
	}
	return ApplyOutcome{
		Success:   true,
		Effect:    def.ID,
		Level:     level,
		SlotsUsed: st.SlotsUsed,
		MaxSlots:  maxSlots,
		Message:   msg,
		Duplicate: duplicate,
		Curse:     def.IsCurse(),
		State:     st,
	}
}
