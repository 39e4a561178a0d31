package addon

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/armoraddons/internal/model"
)

var nextTestItemID atomic.Int64

// newArmor creates an armor piece for slot with fresh attached metadata.
func newArmor(t *testing.T, slot model.ArmorSlot) *model.Item {
	t.Helper()
	tmpl := &model.ItemTemplate{
		ItemID:   int32(100 + slot),
		Name:     slot.String() + " Plate",
		Type:     model.ItemTypeArmor,
		BodyPart: slot,
	}
	item, err := model.NewItem(nextTestItemID.Add(1), 1, 1, tmpl)
	require.NoError(t, err)
	return item
}

func newWeapon(t *testing.T) *model.Item {
	t.Helper()
	tmpl := &model.ItemTemplate{ItemID: 1, Name: "Short Sword", Type: model.ItemTypeWeapon}
	item, err := model.NewItem(nextTestItemID.Add(1), 1, 1, tmpl)
	require.NoError(t, err)
	return item
}

// scenarioCatalog: VITALITY (levelable, any), EMBER_WARD (flat, chest-only), DREAD (curse).
func scenarioCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Definition{
		{ID: Vitality, Category: CategoryGood, Levelable: true, SlotRule: SlotAnyArmor},
		{ID: EmberWard, Category: CategoryGood, SlotRule: SlotChestOnly},
		{ID: Dread, Category: CategoryCurse, SlotRule: SlotAnyArmor},
	}, nil)
	require.NoError(t, err)
	return c
}

// seqRoller returns a scripted sequence of indices, wrapping each into [0, n).
type seqRoller struct {
	mu  sync.Mutex
	seq []int
	i   int
}

func (r *seqRoller) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.seq[r.i%len(r.seq)]
	r.i++
	return v % n
}

// newAllocatorFor wires an allocator over attached item metadata.
func newAllocatorFor(t *testing.T, c *Catalog, pool []string, opts ...AllocatorOption) (*Allocator, *Store) {
	t.Helper()
	store := NewStore(c, AttachedStore{})
	return NewAllocator(c, NewPool(c, pool), store, opts...), store
}

// gatedBackend is an in-memory ItemMetadataStore. Its first Load takes the
// snapshot, signals entered and blocks until release is closed.
type gatedBackend struct {
	mu    sync.Mutex
	rows  map[int64]map[string]string
	loads int

	entered chan struct{}
	release chan struct{}
}

func newGatedBackend(rows map[int64]map[string]string) *gatedBackend {
	return &gatedBackend{
		rows:    rows,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *gatedBackend) Load(_ context.Context, item *model.Item) (map[string]string, error) {
	b.mu.Lock()
	snapshot := maps.Clone(b.rows[item.ID()])
	b.loads++
	first := b.loads == 1
	b.mu.Unlock()

	if first {
		close(b.entered)
		<-b.release
	}
	return snapshot, nil
}

func (b *gatedBackend) Save(_ context.Context, item *model.Item, values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	row := b.rows[item.ID()]
	if row == nil {
		row = make(map[string]string)
		b.rows[item.ID()] = row
	}
	for k, v := range values {
		if v == "" {
			delete(row, k)
			continue
		}
		row[k] = v
	}
	return nil
}

func (b *gatedBackend) row(id int64) map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.rows[id])
}
