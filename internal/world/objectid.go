package world

import "sync/atomic"

// ObjectIDGenerator generates unique ids for online players and spawned items.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: Players
//	0x30000000 - ...       : Items created at runtime (tokens, test armor)
type ObjectIDGenerator struct {
	nextPlayerID atomic.Uint32
	nextItemID   atomic.Int64
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextItemID.Store(0x30000000)
	return gen
}

// NextPlayerID generates next unique player object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextItemID generates next unique item ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextItemID() int64 {
	return g.nextItemID.Add(1)
}

// SeedItemID moves the item counter past ids already persisted.
func (g *ObjectIDGenerator) SeedItemID(maxPersisted int64) {
	for {
		cur := g.nextItemID.Load()
		if maxPersisted <= cur || g.nextItemID.CompareAndSwap(cur, maxPersisted) {
			return
		}
	}
}
