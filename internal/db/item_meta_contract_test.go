package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
)

func newChestplate(t *testing.T, id int64) *model.Item {
	t.Helper()
	item, err := model.NewItem(id, 1, 1, &model.ItemTemplate{
		ItemID:   1101,
		Name:     "Iron Chestplate",
		Type:     model.ItemTypeArmor,
		BodyPart: model.ArmorSlotChest,
	})
	require.NoError(t, err)
	return item
}

// testItemMetaStore checks the ItemMetadataStore contract every backend must honor.
func testItemMetaStore(t *testing.T, store addon.ItemMetadataStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("unknown item is empty", func(t *testing.T) {
		values, err := store.Load(ctx, newChestplate(t, 9_999))
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("save and load", func(t *testing.T) {
		item := newChestplate(t, 100)
		require.NoError(t, store.Save(ctx, item, map[string]string{
			addon.MetaKeyEffects:   "VITALITY:2",
			addon.MetaKeySlotsUsed: "2",
		}))

		values, err := store.Load(ctx, newChestplate(t, 100))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			addon.MetaKeyEffects:   "VITALITY:2",
			addon.MetaKeySlotsUsed: "2",
		}, values)
	})

	t.Run("overwrite and delete", func(t *testing.T) {
		item := newChestplate(t, 101)
		require.NoError(t, store.Save(ctx, item, map[string]string{
			addon.MetaKeyEffects:   "DREAD:1",
			addon.MetaKeySlotsUsed: "1",
			"owner_note":           "keep",
		}))
		require.NoError(t, store.Save(ctx, item, map[string]string{
			addon.MetaKeyEffects:   "",
			addon.MetaKeySlotsUsed: "3",
		}))

		values, err := store.Load(ctx, item)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			addon.MetaKeySlotsUsed: "3",
			"owner_note":           "keep",
		}, values)
	})

	t.Run("items are isolated", func(t *testing.T) {
		a, b := newChestplate(t, 102), newChestplate(t, 103)
		require.NoError(t, store.Save(ctx, a, map[string]string{addon.MetaKeySlotsUsed: "1"}))

		values, err := store.Load(ctx, b)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("state survives a fresh item instance", func(t *testing.T) {
		catalog := addon.DefaultCatalog()
		allocator := addon.NewAllocator(catalog,
			addon.NewPool(catalog, []string{"VITALITY"}),
			addon.NewStore(catalog, addon.NewWriteThroughStore(store)),
		)

		item := newChestplate(t, 104)
		for range 2 {
			out, err := allocator.ApplyRandomEffect(ctx, item, 3)
			require.NoError(t, err)
			require.True(t, out.Success)
		}

		// Same id after a restart: nothing attached until hydrated.
		reloaded := newChestplate(t, 104)
		st, err := addon.NewStore(catalog, addon.NewWriteThroughStore(store)).Read(ctx, reloaded)
		require.NoError(t, err)
		assert.Equal(t, 2, st.SlotsUsed)
		assert.Equal(t, 2, st.Level(addon.Vitality))
	})
}
