package custom

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/game/addon/custom/mocks"
	"github.com/udisondev/armoraddons/internal/model"
)

func newWearer(t *testing.T, id uint32) *model.Player {
	t.Helper()
	p, err := model.NewPlayer(id, int64(id), "Wearer")
	require.NoError(t, err)
	return p
}

func mockEffect(ctrl *gomock.Controller, id addon.EffectID) *mocks.MockEffect {
	m := mocks.NewMockEffect(ctrl)
	m.EXPECT().ID().Return(id).AnyTimes()
	return m
}

func TestEngine_Lifecycle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	dread := mockEffect(ctrl, addon.Dread)
	w := newWearer(t, 1)

	gomock.InOrder(
		dread.EXPECT().Activate(w, 1),
		dread.EXPECT().Deactivate(w),
		dread.EXPECT().Activate(w, 1),
		dread.EXPECT().Deactivate(w),
	)

	e := NewEngine(dread)

	e.Refresh(w, addon.ActiveSet{addon.Dread: 1})
	e.Refresh(w, addon.ActiveSet{addon.Dread: 1}) // stays, no call
	e.Refresh(w, addon.ActiveSet{addon.Dread: 1, addon.Vitality: 2})
	assert.Equal(t, []addon.EffectID{addon.Dread}, e.Active(w))

	e.Refresh(w, addon.ActiveSet{})
	assert.Empty(t, e.Active(w))
	e.Refresh(w, addon.ActiveSet{})

	e.Refresh(w, addon.ActiveSet{addon.Dread: 1})
	e.DeactivateWearer(w)
	e.DeactivateWearer(w)
}

func TestEngine_ShutdownDeactivatesEverything(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	dread := mockEffect(ctrl, addon.Dread)
	terror := mockEffect(ctrl, addon.Terror)
	a, b := newWearer(t, 1), newWearer(t, 2)

	dread.EXPECT().Activate(a, 1)
	terror.EXPECT().Activate(a, 1)
	terror.EXPECT().Activate(b, 1)
	dread.EXPECT().Deactivate(a)
	terror.EXPECT().Deactivate(a)
	terror.EXPECT().Deactivate(b)

	e := NewEngine(dread, terror)
	e.Refresh(a, addon.ActiveSet{addon.Dread: 1, addon.Terror: 1})
	e.Refresh(b, addon.ActiveSet{addon.Terror: 1})

	e.Shutdown()
	assert.Empty(t, e.Active(a))
	assert.Empty(t, e.Active(b))

	e.Shutdown() // nothing left
}

func TestEngine_IgnoresUnregistered(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	w := newWearer(t, 1)

	e.Refresh(w, addon.ActiveSet{addon.Misstep: 1})
	assert.Empty(t, e.Active(w))
	assert.False(t, e.Handles(addon.Misstep))
}

type panickyEffect struct{ calls int }

func (p *panickyEffect) ID() addon.EffectID { return addon.Terror }

func (p *panickyEffect) Activate(*model.Player, int) {
	p.calls++
	panic("boom")
}

func (p *panickyEffect) Deactivate(*model.Player) {
	p.calls++
	panic("boom again")
}

func TestEngine_RecoversPanics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	dread := mockEffect(ctrl, addon.Dread)
	w := newWearer(t, 1)
	dread.EXPECT().Activate(w, 1)
	dread.EXPECT().Deactivate(w)

	bad := &panickyEffect{}
	e := NewEngine(bad, dread)

	require.NotPanics(t, func() {
		e.Refresh(w, addon.ActiveSet{addon.Terror: 1, addon.Dread: 1})
		e.Refresh(w, addon.ActiveSet{})
	})
	assert.Equal(t, 2, bad.calls)
}

// callLog records lifecycle calls per wearer.
type callLog struct {
	mu    sync.Mutex
	id    addon.EffectID
	calls map[uint32][]string
}

func (c *callLog) ID() addon.EffectID { return c.id }

func (c *callLog) Activate(w *model.Player, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[w.ObjectID()] = append(c.calls[w.ObjectID()], "activate")
}

func (c *callLog) Deactivate(w *model.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[w.ObjectID()] = append(c.calls[w.ObjectID()], "deactivate")
}

func TestEngine_CallsAlternate(t *testing.T) {
	t.Parallel()

	ids := []addon.EffectID{addon.Dread, addon.Misstep, addon.Terror}
	logs := make([]*callLog, len(ids))
	effects := make([]Effect, len(ids))
	for i, id := range ids {
		logs[i] = &callLog{id: id, calls: make(map[uint32][]string)}
		effects[i] = logs[i]
	}
	e := NewEngine(effects...)

	wearers := []*model.Player{newWearer(t, 1), newWearer(t, 2), newWearer(t, 3)}
	r := rand.New(rand.NewPCG(7, 7))

	for cycle := range 300 {
		w := wearers[r.IntN(len(wearers))]
		set := addon.ActiveSet{}
		for _, id := range ids {
			if r.IntN(2) == 0 {
				set[id] = 1
			}
		}
		switch {
		case cycle%97 == 0:
			e.Shutdown()
		case cycle%31 == 0:
			e.DeactivateWearer(w)
		default:
			e.Refresh(w, set)
		}
	}
	e.Shutdown()

	for _, l := range logs {
		for wearer, calls := range l.calls {
			for i, call := range calls {
				want := "activate"
				if i%2 == 1 {
					want = "deactivate"
				}
				require.Equal(t, want, call, "effect %s wearer %d call #%d", l.id, wearer, i)
			}
			assert.Equal(t, 0, len(calls)%2, "every activate is closed after shutdown")
		}
	}
}
