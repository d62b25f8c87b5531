package models

import "github.com/NP-Dat/tcr-sim/internal/geom"

// Card is a deployable unit template held in a player's deck.
// Pos, Width and Height are layout hints for a presentation layer and are ignored by the simulation.
type Card struct {
	ID     uint32        `json:"id" yaml:"id"`
	Name   string        `json:"name" yaml:"name"`
	Cost   uint32        `json:"cost" yaml:"cost"`
	Pos    geom.Vector2D `json:"pos" yaml:"pos"`
	Width  float32       `json:"width" yaml:"width"`
	Height float32       `json:"height" yaml:"height"`
	Health uint32        `json:"health" yaml:"health"` // Initial health of units spawned from this card
}

// Unit is a live battlefield entity spawned from a card
type Unit struct {
	ID       uint32  `json:"id"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Health   uint32  `json:"health"`
	Velocity float32 `json:"velocity"` // Units per second along +y
}

// Position returns the unit's world position
func (u Unit) Position() geom.Vector2D {
	return geom.Vec(u.X, u.Y)
}

// Alive reports whether the unit still has health left
func (u Unit) Alive() bool {
	return u.Health > 0
}

// Tower is a stationary defender
type Tower struct {
	ID             uint32  `json:"id" yaml:"id"`
	X              float32 `json:"x" yaml:"x"`
	Y              float32 `json:"y" yaml:"y"`
	Damage         uint32  `json:"damage" yaml:"damage"`
	AttackCooldown float32 `json:"attack_cooldown" yaml:"attack_cooldown"` // Seconds until the tower may fire; may go negative
}

// Position returns the tower's world position
func (t Tower) Position() geom.Vector2D {
	return geom.Vec(t.X, t.Y)
}

// Player holds the per-player spendable resource
type Player struct {
	ID     uint32 `json:"id" yaml:"id"`
	Elixir uint32 `json:"elixir" yaml:"elixir"`
}
