package model

import (
	"fmt"
	"sync"
)

// Player — игровой персонаж, носитель брони с add-on эффектами.
type Player struct {
	objectID    uint32
	characterID int64
	name        string

	inventory *Inventory

	// Weather as seen by this player (scripted curses may override it).
	weather Weather

	mu sync.RWMutex
}

// Weather describes the client-side weather state shown to a player.
type Weather struct {
	Storm      bool
	Thundering bool
}

// NewPlayer создаёт нового игрока с пустым инвентарём.
func NewPlayer(objectID uint32, characterID int64, name string) (*Player, error) {
	if name == "" {
		return nil, fmt.Errorf("player name cannot be empty")
	}
	return &Player{
		objectID:    objectID,
		characterID: characterID,
		name:        name,
		inventory:   NewInventory(characterID),
	}, nil
}

// ObjectID возвращает unique ID в world.
func (p *Player) ObjectID() uint32 {
	return p.objectID
}

// CharacterID возвращает persistent character ID.
func (p *Player) CharacterID() int64 {
	return p.characterID
}

// Name возвращает имя персонажа.
func (p *Player) Name() string {
	return p.name
}

// Inventory возвращает инвентарь игрока.
func (p *Player) Inventory() *Inventory {
	return p.inventory
}

// Weather returns the weather currently shown to the player.
func (p *Player) Weather() Weather {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.weather
}

// SetWeather sets the weather shown to the player.
func (p *Player) SetWeather(w Weather) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.weather = w
}
