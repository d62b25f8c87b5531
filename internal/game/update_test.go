package game

import (
	"math"
	"testing"

	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreForTest builds a state holding exactly the given units and towers
func restoreForTest(t *testing.T, units []models.Unit, towers []models.Tower) *GameState {
	t.Helper()
	g, err := Restore(Snapshot{
		Players: []models.Player{{ID: 1, Elixir: 10}},
		Units:   units,
		Towers:  towers,
	})
	require.NoError(t, err)
	return g
}

func TestUpdateMovement(t *testing.T) {
	g := restoreForTest(t, []models.Unit{{ID: 1, X: 3, Y: 0, Health: 10, Velocity: 100}}, nil)

	_, err := g.Update(0.5)
	require.NoError(t, err)

	u, ok := g.Unit(1)
	require.True(t, ok)
	assert.InDelta(t, 50.0, u.Y, 1e-5)
	assert.Equal(t, float32(3), u.X)
}

func TestUpdateEmptyState(t *testing.T) {
	g := New()

	report, err := g.Update(1)
	require.NoError(t, err)
	assert.Empty(t, report.Attacks)
	assert.Empty(t, report.Removed)
	assert.Empty(t, g.Units())
}

func TestUpdateCombatSaturation(t *testing.T) {
	g := restoreForTest(t,
		[]models.Unit{{ID: 1, X: 0, Y: 10, Health: 1}},
		[]models.Tower{{ID: 7, X: 0, Y: 0, Damage: 1000, AttackCooldown: 0}},
	)

	report, err := g.Update(0.1)
	require.NoError(t, err)

	require.Len(t, report.Attacks, 1)
	assert.Equal(t, Attack{TowerID: 7, UnitID: 1, Dealt: 1, RemainingHealth: 0}, report.Attacks[0])
	assert.Equal(t, []uint32{1}, report.Removed)
	assert.Empty(t, g.Units())
	assert.Equal(t, float32(1.0), g.Towers()[0].AttackCooldown)
}

func TestUpdateOutOfRange(t *testing.T) {
	// Exactly on the engagement radius is out of range.
	g := restoreForTest(t,
		[]models.Unit{{ID: 1, X: 0, Y: 100, Health: 50}},
		[]models.Tower{{ID: 1, X: 0, Y: 0, Damage: 10, AttackCooldown: -50}},
	)

	for i := 0; i < 5; i++ {
		report, err := g.Update(1)
		require.NoError(t, err)
		assert.Empty(t, report.Attacks)
	}

	u, ok := g.Unit(1)
	require.True(t, ok)
	assert.Equal(t, uint32(50), u.Health)
	assert.Equal(t, float32(-55), g.Towers()[0].AttackCooldown)
}

func TestUpdateMissDoesNotResetCooldown(t *testing.T) {
	g, err := NewFromSetup(Setup{
		Players: []models.Player{{ID: 1, Elixir: 10}},
		Cards:   []models.Card{{ID: 1, Name: "Goblin", Cost: 2, Health: 100}},
		Towers:  []models.Tower{{ID: 1, X: 0, Y: 0, Damage: 10, AttackCooldown: 1}},
	})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := g.Update(1.5)
		require.NoError(t, err)
	}
	require.Equal(t, float32(-5), g.Towers()[0].AttackCooldown)

	unit, err := g.SpawnUnit(1, 0, 50)
	require.NoError(t, err)

	report, err := g.Update(0.01)
	require.NoError(t, err)

	require.Len(t, report.Attacks, 1)
	assert.Equal(t, unit.ID, report.Attacks[0].UnitID)
	assert.Equal(t, float32(1.0), g.Towers()[0].AttackCooldown)

	u, _ := g.Unit(unit.ID)
	assert.Equal(t, uint32(90), u.Health)
}

func TestUpdateZeroDeltaIsNoOp(t *testing.T) {
	// A ready tower with a unit in range still must not fire on a zero tick.
	g := restoreForTest(t,
		[]models.Unit{{ID: 1, X: 5, Y: 5, Health: 20, Velocity: 10}},
		[]models.Tower{{ID: 1, X: 0, Y: 0, Damage: 5, AttackCooldown: -2}},
	)
	before, err := g.Digest()
	require.NoError(t, err)
	players, units, towers := g.Players(), g.Units(), g.Towers()

	report, err := g.Update(0)
	require.NoError(t, err)
	assert.Empty(t, report.Attacks)

	after, err := g.Digest()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, players, g.Players())
	assert.Equal(t, units, g.Units())
	assert.Equal(t, towers, g.Towers())
}

func TestUpdateRejectsInvalidDelta(t *testing.T) {
	g := restoreForTest(t,
		[]models.Unit{{ID: 1, X: 5, Y: 5, Health: 20, Velocity: 10}},
		[]models.Tower{{ID: 1, X: 0, Y: 0, Damage: 5, AttackCooldown: 0.5}},
	)
	before, err := g.Digest()
	require.NoError(t, err)

	for _, dt := range []float32{
		float32(math.NaN()),
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		-0.25,
	} {
		_, err := g.Update(dt)
		assert.ErrorIs(t, err, ErrInvalidDelta, "dt=%v", dt)
	}

	after, err := g.Digest()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateRejectsOverflowingDelta(t *testing.T) {
	for _, tc := range []struct {
		name   string
		units  []models.Unit
		towers []models.Tower
	}{
		{"unit position", []models.Unit{{ID: 1, X: 0, Y: 0, Health: 20, Velocity: 10}}, nil},
		{"tower cooldown", nil, []models.Tower{{ID: 1, X: 0, Y: 0, Damage: 5, AttackCooldown: -3e38}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := restoreForTest(t, tc.units, tc.towers)
			before, err := g.Digest()
			require.NoError(t, err)

			_, err = g.Update(3e38)
			assert.ErrorIs(t, err, ErrInvalidDelta)

			require.NoError(t, g.CheckInvariants())
			after, err := g.Digest()
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestUpdateCombatPrecedesCleanup(t *testing.T) {
	// Both towers see the unit: the first kills it, the second still targets
	// it before cleanup runs.
	g := restoreForTest(t,
		[]models.Unit{{ID: 1, X: 0, Y: 0, Health: 500}},
		[]models.Tower{
			{ID: 1, X: 10, Y: 0, Damage: 1000},
			{ID: 2, X: -10, Y: 0, Damage: 1000},
		},
	)

	report, err := g.Update(0.1)
	require.NoError(t, err)

	assert.Equal(t, []Attack{
		{TowerID: 1, UnitID: 1, Dealt: 500, RemainingHealth: 0},
		{TowerID: 2, UnitID: 1, Dealt: 0, RemainingHealth: 0},
	}, report.Attacks)
	assert.Equal(t, []uint32{1}, report.Removed)
	assert.Empty(t, g.Units())
	for _, tower := range g.Towers() {
		assert.Equal(t, float32(1.0), tower.AttackCooldown)
	}
}

func TestUpdateMovementPrecedesCombat(t *testing.T) {
	// The unit starts out of range and only enters it after this tick's movement.
	g := restoreForTest(t,
		[]models.Unit{{ID: 1, X: 0, Y: -105, Health: 100, Velocity: 10}},
		[]models.Tower{{ID: 1, X: 0, Y: 0, Damage: 30}},
	)

	report, err := g.Update(1)
	require.NoError(t, err)
	require.Len(t, report.Attacks, 1)

	u, _ := g.Unit(1)
	assert.Equal(t, float32(-95), u.Y)
	assert.Equal(t, uint32(70), u.Health)
}

func TestUpdateSingleAttackPerTower(t *testing.T) {
	g := restoreForTest(t,
		[]models.Unit{
			{ID: 1, X: 0, Y: 90, Health: 5000},
			{ID: 2, X: 0, Y: 1, Health: 5000},
		},
		[]models.Tower{{ID: 1, X: 0, Y: 0, Damage: 10, AttackCooldown: -100}},
	)

	report, err := g.Update(0.1)
	require.NoError(t, err)

	// Storage order wins over proximity.
	require.Len(t, report.Attacks, 1)
	assert.Equal(t, uint32(1), report.Attacks[0].UnitID)

	units := g.Units()
	assert.Equal(t, uint32(4990), units[0].Health)
	assert.Equal(t, uint32(5000), units[1].Health)
	assert.Equal(t, float32(1.0), g.Towers()[0].AttackCooldown)
}

func TestUpdateCooldownGatesRefire(t *testing.T) {
	g := restoreForTest(t,
		[]models.Unit{{ID: 1, X: 0, Y: 0, Health: 1000}},
		[]models.Tower{{ID: 1, X: 0, Y: 50, Damage: 100}},
	)

	hits := 0
	for i := 0; i < 10; i++ {
		report, err := g.Update(0.25)
		require.NoError(t, err)
		hits += len(report.Attacks)
	}

	// Fires at t=0.25, then every 1.0s: 0.25, 1.25, 2.25.
	assert.Equal(t, 3, hits)
}

func TestUpdateKeepsSurvivorOrder(t *testing.T) {
	g := restoreForTest(t,
		[]models.Unit{
			{ID: 1, X: 500, Y: 0, Health: 10},
			{ID: 2, X: 0, Y: 0, Health: 10},
			{ID: 3, X: -500, Y: 0, Health: 10},
		},
		[]models.Tower{{ID: 1, X: 0, Y: 0, Damage: 10}},
	)

	report, err := g.Update(0.5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, report.Removed)

	units := g.Units()
	require.Len(t, units, 2)
	assert.Equal(t, uint32(1), units[0].ID)
	assert.Equal(t, uint32(3), units[1].ID)
	assert.NoError(t, g.CheckInvariants())
}
