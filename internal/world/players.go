package world

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/udisondev/armoraddons/internal/model"
)

// Players is the registry of online players, keyed by object id.
type Players struct {
	players     sync.Map // map[uint32]*model.Player — objectID → player
	playerCount atomic.Int32
}

// NewPlayers creates an empty registry.
func NewPlayers() *Players {
	return &Players{}
}

// Add registers an online player. Returns false if the object id is taken.
func (p *Players) Add(player *model.Player) bool {
	if _, loaded := p.players.LoadOrStore(player.ObjectID(), player); loaded {
		return false
	}
	p.playerCount.Add(1)
	slog.Debug("player online", "objectID", player.ObjectID(), "name", player.Name())
	return true
}

// Remove unregisters a player and returns it.
func (p *Players) Remove(objectID uint32) (*model.Player, bool) {
	v, ok := p.players.LoadAndDelete(objectID)
	if !ok {
		return nil, false
	}
	p.playerCount.Add(-1)
	slog.Debug("player offline", "objectID", objectID)
	return v.(*model.Player), true
}

// Get returns an online player.
func (p *Players) Get(objectID uint32) (*model.Player, bool) {
	v, ok := p.players.Load(objectID)
	if !ok {
		return nil, false
	}
	return v.(*model.Player), true
}

// IsOnline reports whether player is the session currently registered
// under its object id.
func (p *Players) IsOnline(player *model.Player) bool {
	got, ok := p.Get(player.ObjectID())
	return ok && got == player
}

// OnlineWearers returns all online players sorted by object id.
func (p *Players) OnlineWearers() []*model.Player {
	out := make([]*model.Player, 0, p.Count())
	p.players.Range(func(_, value any) bool {
		out = append(out, value.(*model.Player))
		return true
	})
	slices.SortFunc(out, func(a, b *model.Player) int {
		return cmp.Compare(a.ObjectID(), b.ObjectID())
	})
	return out
}

// Count returns the number of online players (O(1) cached count).
func (p *Players) Count() int {
	return int(p.playerCount.Load())
}
