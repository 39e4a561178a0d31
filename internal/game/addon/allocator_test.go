package addon

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/udisondev/armoraddons/internal/game/addon/mocks"
	"github.com/udisondev/armoraddons/internal/model"
)

func TestApplyRandomEffect_ChestplateScenario(t *testing.T) {
	t.Parallel()

	c := scenarioCatalog(t)
	// Chest candidates in pool order: VITALITY, EMBER_WARD, DREAD.
	roller := &seqRoller{seq: []int{0, 0, 2}}
	alloc, store := newAllocatorFor(t, c, []string{"VITALITY", "EMBER_WARD", "DREAD"}, WithRoller(roller))
	chest := newArmor(t, model.ArmorSlotChest)
	ctx := context.Background()

	want := []struct {
		effect EffectID
		level  int
		curse  bool
	}{
		{Vitality, 1, false},
		{Vitality, 2, false},
		{Dread, 1, true},
	}
	for i, w := range want {
		out, err := alloc.ApplyRandomEffect(ctx, chest, 3)
		require.NoError(t, err)
		require.True(t, out.Success, "apply #%d: %s", i+1, out.Message)
		assert.Equal(t, w.effect, out.Effect)
		assert.Equal(t, w.level, out.Level)
		assert.Equal(t, w.curse, out.Curse)
		assert.Equal(t, i+1, out.SlotsUsed)
		assert.Equal(t, 3, out.MaxSlots)
		assert.NoError(t, out.Err())
	}

	st, err := store.Read(ctx, chest)
	require.NoError(t, err)
	assert.Equal(t, map[EffectID]int{Vitality: 2, Dread: 1}, st.Effects)
	assert.Equal(t, 3, st.SlotsUsed)

	out, err := alloc.ApplyRandomEffect(ctx, chest, 3)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, ReasonSlotsFull, out.Reason)
	assert.ErrorIs(t, out.Err(), ErrSlotsFull)
	assert.Equal(t, 3, out.SlotsUsed)

	st, err = store.Read(ctx, chest)
	require.NoError(t, err)
	assert.Equal(t, 3, st.SlotsUsed, "failed apply must not touch the counter")
}

func TestCandidates_CurseLockedExcludesAllCurses(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	alloc, _ := newAllocatorFor(t, c, []string{"DREAD", "MISSTEP", "TERROR", "VITALITY", "TERROR"})

	cursed := State{Effects: map[EffectID]int{Dread: 1}, SlotsUsed: 1}
	got := alloc.Candidates(cursed, model.ArmorSlotLegs)
	assert.Equal(t, []EffectID{Vitality}, got)

	clean := NewState()
	got = alloc.Candidates(clean, model.ArmorSlotLegs)
	assert.Equal(t, []EffectID{Dread, Misstep, Terror, Vitality, Terror}, got)
}

func TestCandidates_SlotRules(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	alloc, _ := newAllocatorFor(t, c, []string{"SIGHTBEYOND", "IRON_WILL", "SKYBOUND", "FORTUNE", "TERROR"})

	tests := []struct {
		slot model.ArmorSlot
		want []EffectID
	}{
		{model.ArmorSlotHead, []EffectID{Sightbeyond, Fortune, Terror}},
		{model.ArmorSlotChest, []EffectID{IronWill, Fortune, Terror}},
		{model.ArmorSlotLegs, []EffectID{Fortune, Terror}},
		{model.ArmorSlotFeet, []EffectID{Skybound, Fortune, Terror}},
	}
	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, alloc.Candidates(NewState(), tt.slot))
		})
	}
}

func TestApplyRandomEffect_Failures(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	ctx := context.Background()

	t.Run("not armor", func(t *testing.T) {
		t.Parallel()
		alloc, _ := newAllocatorFor(t, c, []string{"VITALITY"})

		for _, item := range []*model.Item{nil, newWeapon(t), newArmor(t, model.ArmorSlotGloves), newArmor(t, model.ArmorSlotFullArmor)} {
			out, err := alloc.ApplyRandomEffect(ctx, item, 3)
			require.NoError(t, err)
			assert.Equal(t, ReasonNotArmor, out.Reason)
			assert.ErrorIs(t, out.Err(), ErrNotArmor)
		}
	})

	t.Run("pool empty", func(t *testing.T) {
		t.Parallel()
		alloc, _ := newAllocatorFor(t, c, nil)

		out, err := alloc.ApplyRandomEffect(ctx, newArmor(t, model.ArmorSlotHead), 3)
		require.NoError(t, err)
		assert.Equal(t, ReasonPoolEmpty, out.Reason)
		assert.Equal(t, "Add-on pool is empty.", out.Message)
	})

	t.Run("slots checked before pool", func(t *testing.T) {
		t.Parallel()
		alloc, _ := newAllocatorFor(t, c, nil)
		helmet := newArmor(t, model.ArmorSlotHead)
		helmet.ApplyMetadata(map[string]string{MetaKeySlotsUsed: "3"})

		out, err := alloc.ApplyRandomEffect(ctx, helmet, 3)
		require.NoError(t, err)
		assert.Equal(t, ReasonSlotsFull, out.Reason)
	})

	t.Run("no valid roll", func(t *testing.T) {
		t.Parallel()
		alloc, _ := newAllocatorFor(t, c, []string{"TIDEBOUND", "DREAD"})
		boots := newArmor(t, model.ArmorSlotFeet)
		boots.ApplyMetadata(map[string]string{MetaKeyEffects: "DREAD:1", MetaKeySlotsUsed: "1"})

		out, err := alloc.ApplyRandomEffect(ctx, boots, 3)
		require.NoError(t, err)
		assert.Equal(t, ReasonNoValidRoll, out.Reason)
		assert.ErrorIs(t, out.Err(), ErrNoValidRoll)
		assert.Equal(t, 1, out.SlotsUsed)
	})
}

func TestApplyRandomEffect_FlatDuplicateConsumesSlot(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	alloc, store := newAllocatorFor(t, c, []string{"FORTUNE"})
	legs := newArmor(t, model.ArmorSlotLegs)
	ctx := context.Background()

	first, err := alloc.ApplyRandomEffect(ctx, legs, 3)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := alloc.ApplyRandomEffect(ctx, legs, 3)
	require.NoError(t, err)
	require.True(t, second.Success)
	assert.True(t, second.Duplicate)
	assert.Equal(t, 1, second.Level)
	assert.Equal(t, 2, second.SlotsUsed)

	st, err := store.Read(ctx, legs)
	require.NoError(t, err)
	assert.Equal(t, map[EffectID]int{Fortune: 1}, st.Effects)
}

func TestApplyRandomEffect_DefaultMaxSlots(t *testing.T) {
	t.Parallel()

	alloc, _ := newAllocatorFor(t, DefaultCatalog(), []string{"VITALITY"}, WithDefaultMaxSlots(2))
	helmet := newArmor(t, model.ArmorSlotHead)

	for range 2 {
		out, err := alloc.ApplyRandomEffect(context.Background(), helmet, 0)
		require.NoError(t, err)
		require.True(t, out.Success)
		assert.Equal(t, 2, out.MaxSlots)
	}
	out, err := alloc.ApplyRandomEffect(context.Background(), helmet, -1)
	require.NoError(t, err)
	assert.Equal(t, ReasonSlotsFull, out.Reason)
}

func TestApplyRandomEffect_RendersLore(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	alloc, _ := newAllocatorFor(t, c, []string{"VITALITY"}, WithLore(NewThematicLore(c)))
	chest := newArmor(t, model.ArmorSlotChest)

	_, err := alloc.ApplyRandomEffect(context.Background(), chest, 3)
	require.NoError(t, err)
	_, err = alloc.ApplyRandomEffect(context.Background(), chest, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Add-On Slots: 2/3",
		"Imprinted Effects:",
		" ■ Vitality II",
		`"The armor remembers..."`,
	}, chest.Lore())
}

func TestApplyRandomEffect_StorageErrors(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	ctx := context.Background()
	errBackend := errors.New("backend down")

	t.Run("load", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		meta := mocks.NewMockItemMetadataStore(ctrl)
		meta.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, errBackend)

		alloc := NewAllocator(c, NewPool(c, []string{"VITALITY"}), NewStore(c, meta))
		_, err := alloc.ApplyRandomEffect(ctx, newArmor(t, model.ArmorSlotHead), 3)
		require.ErrorIs(t, err, errBackend)
	})

	t.Run("save", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		meta := mocks.NewMockItemMetadataStore(ctrl)
		meta.EXPECT().Load(gomock.Any(), gomock.Any()).Return(map[string]string{}, nil)
		meta.EXPECT().Save(gomock.Any(), gomock.Any(), map[string]string{
			MetaKeyEffects:   "VITALITY:1",
			MetaKeySlotsUsed: "1",
		}).Return(errBackend)

		alloc := NewAllocator(c, NewPool(c, []string{"VITALITY"}), NewStore(c, meta))
		_, err := alloc.ApplyRandomEffect(ctx, newArmor(t, model.ArmorSlotHead), 3)
		require.ErrorIs(t, err, errBackend)
	})

	t.Run("failed rule never saves", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		meta := mocks.NewMockItemMetadataStore(ctrl)
		meta.EXPECT().Load(gomock.Any(), gomock.Any()).Return(map[string]string{MetaKeySlotsUsed: "3"}, nil)

		alloc := NewAllocator(c, NewPool(c, []string{"VITALITY"}), NewStore(c, meta))
		out, err := alloc.ApplyRandomEffect(ctx, newArmor(t, model.ArmorSlotHead), 3)
		require.NoError(t, err)
		assert.Equal(t, ReasonSlotsFull, out.Reason)
	})
}

func TestApplyRandomEffect_ConcurrentSameItem(t *testing.T) {
	t.Parallel()

	const maxSlots = 10
	alloc, store := newAllocatorFor(t, DefaultCatalog(), []string{"VITALITY"})
	boots := newArmor(t, model.ArmorSlotFeet)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := alloc.ApplyRandomEffect(context.Background(), boots, maxSlots)
			if err != nil || !out.Success {
				return
			}
			mu.Lock()
			successes++
			mu.Unlock()
		}()
	}
	wg.Wait()

	st, err := store.Read(context.Background(), boots)
	require.NoError(t, err)
	assert.Equal(t, maxSlots, successes)
	assert.Equal(t, maxSlots, st.SlotsUsed)
	assert.Equal(t, maxSlots, st.Level(Vitality))
}

func TestApplyRandomEffect_ConcurrentFirstRead(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	chest := newArmor(t, model.ArmorSlotChest)
	backend := newGatedBackend(map[int64]map[string]string{
		chest.ID(): {MetaKeyEffects: "VITALITY:1", MetaKeySlotsUsed: "1"},
	})
	store := NewStore(c, NewWriteThroughStore(backend))
	alloc := NewAllocator(c, NewPool(c, []string{"VITALITY"}), store)
	ctx := context.Background()

	// A refresh-cycle read is stuck inside the first backend load.
	readErr := make(chan error, 1)
	go func() {
		_, err := store.Read(ctx, chest)
		readErr <- err
	}()
	<-backend.entered

	out, err := alloc.ApplyRandomEffect(ctx, chest, 3)
	require.NoError(t, err)
	require.True(t, out.Success, out.Message)
	assert.Equal(t, 2, out.Level)
	assert.Equal(t, 2, out.SlotsUsed)

	close(backend.release)
	require.NoError(t, <-readErr)

	st, err := store.Read(ctx, chest)
	require.NoError(t, err)
	assert.Equal(t, map[EffectID]int{Vitality: 2}, st.Effects)
	assert.Equal(t, 2, st.SlotsUsed, "stale snapshot must not roll the slot counter back")

	out, err = alloc.ApplyRandomEffect(ctx, chest, 3)
	require.NoError(t, err)
	require.True(t, out.Success, out.Message)
	assert.Equal(t, 3, out.Level)
	assert.Equal(t, 3, out.SlotsUsed)
	assert.Equal(t, map[string]string{MetaKeyEffects: "VITALITY:3", MetaKeySlotsUsed: "3"}, backend.row(chest.ID()))
}

func TestApplyRandomEffect_Invariants(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	ctx := context.Background()
	alloc, store := newAllocatorFor(t, c, DefaultPoolNames(c), WithRoller(NewSeededRoller(42)))

	for _, slot := range model.AddonSlots {
		for range 20 {
			item := newArmor(t, slot)
			prevSlots := 0
			prevLevels := map[EffectID]int{}

			for range 8 {
				out, err := alloc.ApplyRandomEffect(ctx, item, 5)
				require.NoError(t, err)

				st, err := store.Read(ctx, item)
				require.NoError(t, err)
				require.LessOrEqual(t, st.SlotsUsed, 5)
				require.GreaterOrEqual(t, st.SlotsUsed, prevSlots)

				curses := 0
				for id, lvl := range st.Effects {
					def, _ := c.Lookup(id)
					if def.IsCurse() {
						curses++
					}
					if !def.CanLevel() {
						require.Equal(t, 1, lvl, "%s must stay at level 1", id)
					}
					require.True(t, def.SlotRule.Admits(slot) || def.IsCurse(), "%s rolled onto %s", id, slot)
				}
				require.LessOrEqual(t, curses, 1)

				if out.Success {
					require.Equal(t, prevSlots+1, st.SlotsUsed)
					def, _ := c.Lookup(out.Effect)
					if def.CanLevel() {
						require.Equal(t, prevLevels[out.Effect]+1, st.Level(out.Effect))
					}
				}
				prevSlots = st.SlotsUsed
				prevLevels = st.Clone().Effects
			}
		}
	}
}
