package game

import (
	"fmt"

	"github.com/NP-Dat/tcr-sim/internal/geom"
	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/NP-Dat/tcr-sim/pkg/logger"
)

// Attack records one tower hit during a tick
type Attack struct {
	TowerID         uint32 `json:"tower_id"`
	UnitID          uint32 `json:"unit_id"`
	Dealt           uint32 `json:"dealt"`            // Health actually removed, after saturation
	RemainingHealth uint32 `json:"remaining_health"` // Unit health after the hit
}

// TickReport describes what happened during one Update call, in order
type TickReport struct {
	Delta   float32  `json:"delta"`
	Attacks []Attack `json:"attacks,omitempty"`
	Removed []uint32 `json:"removed,omitempty"` // Ids of units pruned by the cleanup pass
}

// Update advances the simulation by deltaTime seconds.
//
// The passes run in a fixed order: every unit moves, then every tower
// resolves its attack, then dead units are removed. A unit brought to zero
// health stays targetable by later towers in the same tick.
//
// A zero delta is a no-op. NaN, infinite or negative deltas, and deltas so
// large that a position or cooldown would overflow, are rejected with
// ErrInvalidDelta and leave the state untouched.
func (g *GameState) Update(deltaTime float32) (TickReport, error) {
	if !geom.IsFinite(deltaTime) || deltaTime < 0 {
		return TickReport{}, fmt.Errorf("delta %v: %w", deltaTime, ErrInvalidDelta)
	}

	report := TickReport{Delta: deltaTime}
	if deltaTime == 0 {
		return report, nil
	}
	if err := g.checkStep(deltaTime); err != nil {
		return TickReport{}, err
	}

	g.moveUnits(deltaTime)
	report.Attacks = g.resolveTowerAttacks(deltaTime)
	report.Removed = g.removeDeadUnits()

	return report, nil
}

// checkStep verifies that advancing by deltaTime keeps every unit position
// and tower cooldown finite
func (g *GameState) checkStep(deltaTime float32) error {
	for _, u := range g.units {
		if !geom.IsFinite(nextY(u, deltaTime)) {
			return fmt.Errorf("delta %v overflows the position of unit %d: %w", deltaTime, u.ID, ErrInvalidDelta)
		}
	}
	for _, t := range g.towers {
		if !geom.IsFinite(t.AttackCooldown - deltaTime) {
			return fmt.Errorf("delta %v overflows the cooldown of tower %d: %w", deltaTime, t.ID, ErrInvalidDelta)
		}
	}
	return nil
}

// nextY is the unit's y after moving for deltaTime
func nextY(u models.Unit, deltaTime float32) float32 {
	step := float32(u.Velocity * deltaTime)
	return float32(u.Y + step)
}

// moveUnits advances every unit along +y
func (g *GameState) moveUnits(deltaTime float32) {
	for i := range g.units {
		g.units[i].Y = nextY(g.units[i], deltaTime)
	}
}

// resolveTowerAttacks ticks every tower's cooldown and lets ready towers hit
// the first unit in range. Cooldown only resets on a hit, so a tower that
// waited without a target fires as soon as one arrives.
func (g *GameState) resolveTowerAttacks(deltaTime float32) []Attack {
	var attacks []Attack

	for i := range g.towers {
		tower := &g.towers[i]
		tower.AttackCooldown -= deltaTime
		if tower.AttackCooldown > 0 {
			continue
		}

		target := FindTarget(*tower, g.units, g.rules.EngagementRadius)
		if target < 0 {
			continue
		}

		unit := &g.units[target]
		dealt := ApplyDamage(unit, tower.Damage)
		tower.AttackCooldown = g.rules.RefireInterval

		logger.Game.Debug("Tower %d hit unit %d for %d, health now %d", tower.ID, unit.ID, dealt, unit.Health)
		attacks = append(attacks, Attack{
			TowerID:         tower.ID,
			UnitID:          unit.ID,
			Dealt:           dealt,
			RemainingHealth: unit.Health,
		})
	}

	return attacks
}

// removeDeadUnits drops units with no health left, keeping survivors in order
func (g *GameState) removeDeadUnits() []uint32 {
	var removed []uint32
	alive := g.units[:0]
	for _, u := range g.units {
		if u.Alive() {
			alive = append(alive, u)
			continue
		}
		removed = append(removed, u.ID)
	}
	clear(g.units[len(alive):])
	g.units = alive

	if len(removed) > 0 {
		logger.Game.Debug("Removed %d dead unit(s): %v", len(removed), removed)
	}
	return removed
}
