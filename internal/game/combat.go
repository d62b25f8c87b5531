package game

import (
	"github.com/NP-Dat/tcr-sim/internal/geom"
	"github.com/NP-Dat/tcr-sim/internal/models"
)

// ApplyDamage subtracts damage from the unit's health, clamping at zero.
// It returns the amount of health actually removed.
func ApplyDamage(unit *models.Unit, damage uint32) uint32 {
	if damage >= unit.Health {
		dealt := unit.Health
		unit.Health = 0
		return dealt
	}
	unit.Health -= damage
	return damage
}

// InRange reports whether the unit is strictly inside the tower's engagement radius
func InRange(tower models.Tower, unit models.Unit, radius float32) bool {
	return geom.Distance(tower.Position(), unit.Position()) < float64(radius)
}

// FindTarget returns the index of the first unit in storage order that the tower
// can reach, or -1. Units already at zero health are still candidates until cleanup.
func FindTarget(tower models.Tower, units []models.Unit, radius float32) int {
	for i, u := range units {
		if InRange(tower, u, radius) {
			return i
		}
	}
	return -1
}
