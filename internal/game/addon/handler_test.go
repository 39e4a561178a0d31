package addon

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/armoraddons/internal/model"
)

type recordingMessenger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingMessenger) SendMessage(_ *model.Player, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
}

func (r *recordingMessenger) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

type handlerFixture struct {
	handler   *ApplyHandler
	messenger *recordingMessenger
	player    *model.Player
	token     *model.Item
	now       time.Time
}

func newHandlerFixture(t *testing.T, pool []string, tokens int32) *handlerFixture {
	t.Helper()

	c := DefaultCatalog()
	alloc, _ := newAllocatorFor(t, c, pool, WithLore(NewThematicLore(c)))

	cfg := DefaultHandlerConfig()
	cfg.TokenItemID = 9001
	cfg.MaxSlots = 2

	f := &handlerFixture{messenger: &recordingMessenger{}, now: time.Unix(1_700_000_000, 0)}
	f.handler = NewApplyHandler(alloc, InventoryTokenConsumer{}, f.messenger, cfg)
	f.handler.now = func() time.Time { return f.now }

	player, err := model.NewPlayer(7, 70, "Smith")
	require.NoError(t, err)
	f.player = player

	token, err := model.NewItem(nextTestItemID.Add(1), 70, tokens, &model.ItemTemplate{
		ItemID:    9001,
		Name:      "Add-On Token",
		Type:      model.ItemTypeEtcItem,
		Stackable: true,
	})
	require.NoError(t, err)
	require.NoError(t, player.Inventory().AddItem(token))
	f.token = token
	return f
}

func (f *handlerFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestApplyHandler_SuccessConsumesToken(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, []string{"VITALITY"}, 2)
	chest := newArmor(t, model.ArmorSlotChest)

	out, err := f.handler.Handle(context.Background(), f.player, f.token, chest)
	require.NoError(t, err)
	require.True(t, out.Success)

	assert.Equal(t, int32(1), f.token.Count())
	assert.Equal(t, "The armor absorbs the add-on: VITALITY (1/2).", f.messenger.last())
	assert.Equal(t, "Add-On Slots: 1/2", chest.Lore()[0])

	f.advance(time.Second)
	out, err = f.handler.Handle(context.Background(), f.player, f.token, chest)
	require.NoError(t, err)
	require.True(t, out.Success)
	assert.Equal(t, "The armor absorbs the add-on: VITALITY II (2/2).", f.messenger.last())

	assert.Zero(t, f.token.Count())
	assert.Nil(t, f.player.Inventory().GetItem(f.token.ID()), "empty stack leaves the inventory")
}

func TestApplyHandler_FailureKeepsToken(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, []string{"VITALITY"}, 5)
	boots := newArmor(t, model.ArmorSlotFeet)
	boots.ApplyMetadata(map[string]string{MetaKeySlotsUsed: "2"})

	out, err := f.handler.Handle(context.Background(), f.player, f.token, boots)
	require.NoError(t, err)
	assert.Equal(t, ReasonSlotsFull, out.Reason)
	assert.Equal(t, int32(5), f.token.Count())
	assert.Equal(t, "The add-on fails to bind: Max add-ons reached.", f.messenger.last())
	assert.Empty(t, boots.Lore())
}

func TestApplyHandler_NotArmor(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, []string{"VITALITY"}, 1)

	out, err := f.handler.Handle(context.Background(), f.player, f.token, newWeapon(t))
	require.NoError(t, err)
	assert.Equal(t, ReasonNotArmor, out.Reason)
	assert.Equal(t, DefaultHandlerConfig().NotArmorMessage, f.messenger.last())
	assert.Equal(t, int32(1), f.token.Count())
}

func TestApplyHandler_IgnoresNonTokens(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, []string{"VITALITY"}, 1)
	helmet := newArmor(t, model.ArmorSlotHead)

	_, err := f.handler.Handle(context.Background(), f.player, newWeapon(t), helmet)
	require.ErrorIs(t, err, ErrNotToken)
	_, err = f.handler.Handle(context.Background(), f.player, nil, helmet)
	require.ErrorIs(t, err, ErrNotToken)
	assert.Empty(t, f.messenger.lines)
}

func TestApplyHandler_Cooldown(t *testing.T) {
	t.Parallel()

	f := newHandlerFixture(t, []string{"VITALITY"}, 3)
	helmet := newArmor(t, model.ArmorSlotHead)
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, f.player, f.token, helmet)
	require.NoError(t, err)

	f.advance(100 * time.Millisecond)
	_, err = f.handler.Handle(ctx, f.player, f.token, helmet)
	require.ErrorIs(t, err, ErrCooldown)
	assert.Equal(t, int32(2), f.token.Count())

	f.advance(200 * time.Millisecond)
	out, err := f.handler.Handle(ctx, f.player, f.token, helmet)
	require.NoError(t, err)
	assert.True(t, out.Success)

	f.handler.Forget(f.player.ObjectID())
	_, err = f.handler.Handle(ctx, f.player, f.token, helmet)
	require.NoError(t, err)
}
