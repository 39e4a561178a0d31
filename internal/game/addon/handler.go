package addon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/udisondev/armoraddons/internal/model"
)

// Handler errors. Both mean the interaction was not consumed.
var (
	ErrNotToken = errors.New("held item is not an add-on token")
	ErrCooldown = errors.New("add-on apply on cooldown")
)

// Messenger delivers a text line to a player.
type Messenger interface {
	SendMessage(p *model.Player, text string)
}

// MessengerFunc adapts a function to Messenger.
type MessengerFunc func(p *model.Player, text string)

// SendMessage calls f.
func (f MessengerFunc) SendMessage(p *model.Player, text string) {
	f(p, text)
}

// TokenConsumer removes one token from a player after a successful apply.
type TokenConsumer interface {
	ConsumeOne(ctx context.Context, p *model.Player, token *model.Item) error
}

// HandlerConfig holds interaction settings.
type HandlerConfig struct {
	TokenItemID int32
	MaxSlots    int
	Cooldown    time.Duration // 0 disables

	SuccessMessage  string // {effect}, {level}, {slots}, {max}
	FailMessage     string // {reason}
	NotArmorMessage string
}

// DefaultHandlerConfig returns stock messages and a 250ms cooldown.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		TokenItemID:     9001,
		MaxSlots:        DefaultMaxSlots,
		Cooldown:        250 * time.Millisecond,
		SuccessMessage:  "The armor absorbs the add-on: {effect} ({slots}/{max}).",
		FailMessage:     "The add-on fails to bind: {reason}",
		NotArmorMessage: "Hold the token while targeting a piece of armor.",
	}
}

// ApplyHandler is the player-facing apply interaction: a token used on armor.
type ApplyHandler struct {
	allocator *Allocator
	consumer  TokenConsumer
	messenger Messenger
	cfg       HandlerConfig
	now       func() time.Time

	mu      sync.Mutex
	lastUse map[uint32]time.Time // player objectID → last accepted use
}

// NewApplyHandler creates the interaction handler.
func NewApplyHandler(allocator *Allocator, consumer TokenConsumer, messenger Messenger, cfg HandlerConfig) *ApplyHandler {
	return &ApplyHandler{
		allocator: allocator,
		consumer:  consumer,
		messenger: messenger,
		cfg:       cfg,
		now:       time.Now,
		lastUse:   make(map[uint32]time.Time),
	}
}

// IsToken reports whether item is an add-on token.
func (h *ApplyHandler) IsToken(item *model.Item) bool {
	return item != nil && item.TemplateID() == h.cfg.TokenItemID && item.Count() > 0
}

// Handle applies token to target for player.
//
// Returns ErrNotToken or ErrCooldown when the interaction is ignored. Rule
// failures are reported to the player and returned in the outcome; the token
// is consumed only on success.
func (h *ApplyHandler) Handle(ctx context.Context, player *model.Player, token, target *model.Item) (ApplyOutcome, error) {
	if !h.IsToken(token) {
		return ApplyOutcome{}, ErrNotToken
	}
	if !h.acquire(player.ObjectID()) {
		return ApplyOutcome{}, ErrCooldown
	}

	if target == nil || !target.IsArmor() {
		h.send(player, h.cfg.NotArmorMessage)
		return failed(ReasonNotArmor, NewState(), h.maxSlots()), nil
	}

	out, err := h.allocator.ApplyRandomEffect(ctx, target, h.cfg.MaxSlots)
	if err != nil {
		h.send(player, strings.ReplaceAll(h.cfg.FailMessage, "{reason}", "storage unavailable"))
		return out, fmt.Errorf("applying add-on to item %d: %w", target.ID(), err)
	}

	if !out.Success {
		h.send(player, strings.ReplaceAll(h.cfg.FailMessage, "{reason}", out.Message))
		return out, nil
	}

	if err := h.consumer.ConsumeOne(ctx, player, token); err != nil {
		// State is already written; the roll stands.
		slog.Error("consuming add-on token",
			"player", player.ObjectID(),
			"token", token.ID(),
			"error", err)
	}

	h.send(player, h.successText(out))
	slog.Info("add-on applied",
		"player", player.Name(),
		"item", target.ID(),
		"effect", out.Effect,
		"level", out.Level,
		"slots_used", out.SlotsUsed)
	return out, nil
}

func (h *ApplyHandler) maxSlots() int {
	if h.cfg.MaxSlots > 0 {
		return h.cfg.MaxSlots
	}
	return h.allocator.DefaultMaxSlots()
}

// acquire records a use and returns false while the player is on cooldown.
func (h *ApplyHandler) acquire(playerID uint32) bool {
	if h.cfg.Cooldown <= 0 {
		return true
	}

	now := h.now()
	h.mu.Lock()
	defer h.mu.Unlock()

	if last, ok := h.lastUse[playerID]; ok && now.Sub(last) < h.cfg.Cooldown {
		return false
	}
	h.lastUse[playerID] = now
	return true
}

// Forget drops cooldown bookkeeping of a disconnected player.
func (h *ApplyHandler) Forget(playerID uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.lastUse, playerID)
}

func (h *ApplyHandler) successText(out ApplyOutcome) string {
	effect := string(out.Effect)
	if out.Level > 1 {
		effect += " " + Roman(out.Level)
	}
	r := strings.NewReplacer(
		"{effect}", effect,
		"{level}", fmt.Sprint(out.Level),
		"{slots}", fmt.Sprint(out.SlotsUsed),
		"{max}", fmt.Sprint(out.MaxSlots),
	)
	return r.Replace(h.cfg.SuccessMessage)
}

func (h *ApplyHandler) send(p *model.Player, text string) {
	if h.messenger == nil || text == "" {
		return
	}
	h.messenger.SendMessage(p, text)
}

// InventoryTokenConsumer decrements the token stack and drops it from the
// inventory when it runs out.
type InventoryTokenConsumer struct{}

// ConsumeOne removes one token from player's inventory.
func (InventoryTokenConsumer) ConsumeOne(_ context.Context, p *model.Player, token *model.Item) error {
	left := token.Count() - 1
	if left < 0 {
		return fmt.Errorf("token %d stack is empty", token.ID())
	}
	if err := token.SetCount(left); err != nil {
		return fmt.Errorf("decrementing token %d: %w", token.ID(), err)
	}
	if left == 0 {
		p.Inventory().RemoveItem(token.ID())
	}
	return nil
}
