package game

import (
	"math"
	"testing"

	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()

	assert.Equal(t, []models.Player{{ID: 1, Elixir: 10}}, g.Players())
	assert.Empty(t, g.Units())
	assert.Empty(t, g.Towers())
	assert.Empty(t, g.Queue())
	assert.Equal(t, []models.Card{{ID: 1, Name: "Pekka", Cost: 7, Health: 1000}}, g.Cards())
	assert.Equal(t, models.DefaultRules(), g.Rules())
	assert.NotEmpty(t, g.SessionID())
	assert.NotEqual(t, g.SessionID(), New().SessionID())
	assert.NoError(t, g.CheckInvariants())
}

func TestAccessorsReturnCopies(t *testing.T) {
	g := New()

	players := g.Players()
	players[0].Elixir = 999
	cards := g.Cards()
	cards[0].Cost = 0

	p, _ := g.Player(1)
	assert.Equal(t, StartingElixir, p.Elixir)
	assert.Equal(t, StartingCardCost, g.Cards()[0].Cost)
}

func TestNewFromSetup(t *testing.T) {
	valid := Setup{
		SessionID: "fixed-session",
		Players:   []models.Player{{ID: 1, Elixir: 10}, {ID: 2, Elixir: 10}},
		Cards:     []models.Card{{ID: 1, Name: "Goblin", Cost: 2, Health: 200}},
		Queue:     []models.Card{{ID: 2, Name: "Knight", Cost: 4, Health: 800}},
		Towers:    []models.Tower{{ID: 1, X: 240, Y: 700, Damage: 100, AttackCooldown: 1}},
	}

	t.Run("valid setup", func(t *testing.T) {
		g, err := NewFromSetup(valid)
		require.NoError(t, err)
		assert.Equal(t, "fixed-session", g.SessionID())
		assert.Len(t, g.Players(), 2)
		assert.Equal(t, valid.Towers, g.Towers())
		assert.Equal(t, models.DefaultRules(), g.Rules(), "zero rules take defaults")
	})

	t.Run("custom rules are kept", func(t *testing.T) {
		s := valid
		s.Rules = models.Rules{UnitVelocity: 100, EngagementRadius: 50, RefireInterval: 2}
		g, err := NewFromSetup(s)
		require.NoError(t, err)
		assert.Equal(t, s.Rules, g.Rules())
	})

	for _, tc := range []struct {
		name   string
		mutate func(s *Setup)
	}{
		{"no players", func(s *Setup) { s.Players = nil }},
		{"duplicate player", func(s *Setup) { s.Players = append(s.Players, models.Player{ID: 1}) }},
		{"card id shared by deck and queue", func(s *Setup) { s.Queue = []models.Card{{ID: 1, Health: 5}} }},
		{"zero health card", func(s *Setup) { s.Cards = []models.Card{{ID: 9, Name: "Ghost"}} }},
		{"duplicate tower", func(s *Setup) { s.Towers = append(s.Towers, models.Tower{ID: 1}) }},
		{"non-finite tower", func(s *Setup) { s.Towers = []models.Tower{{ID: 3, X: float32(math.Inf(1))}} }},
		{"negative radius", func(s *Setup) { s.Rules.EngagementRadius = -1 }},
		{"NaN velocity", func(s *Setup) { s.Rules.UnitVelocity = float32(math.NaN()) }},
		{"negative velocity", func(s *Setup) { s.Rules.UnitVelocity = -5 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			s.Players = append([]models.Player(nil), valid.Players...)
			s.Towers = append([]models.Tower(nil), valid.Towers...)
			tc.mutate(&s)

			_, err := NewFromSetup(s)
			assert.ErrorIs(t, err, ErrInvalidSetup)
		})
	}
}

func TestSetupFromConfig(t *testing.T) {
	cfg := &models.GameConfig{
		Deck: models.DeckSpec{
			Cards: []models.Card{{ID: 1, Name: "Goblin", Cost: 2, Health: 200}},
			Queue: []models.Card{{ID: 2, Name: "Knight", Cost: 4, Health: 800}},
		},
		Towers: []models.Tower{{ID: 1, X: 240, Y: 700, Damage: 100}},
		Scenario: models.ScenarioSpec{
			Players: []models.Player{{ID: 1, Elixir: 10}},
			Rules:   models.Rules{UnitVelocity: 20},
		},
	}

	g, err := NewFromSetup(SetupFromConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, float32(20), g.Rules().UnitVelocity)
	assert.Equal(t, models.DefaultEngagementRadius, g.Rules().EngagementRadius)
	assert.Equal(t, cfg.Deck.Cards, g.Cards())
	assert.Equal(t, cfg.Deck.Queue, g.Queue())
}

func TestCheckInvariants(t *testing.T) {
	g := New()
	_, err := g.SpawnUnit(StartingCardID, 0, 0)
	require.NoError(t, err)
	require.NoError(t, g.CheckInvariants())

	// Reach in to break the invariants the public API protects.
	g.units[0].Health = 0
	g.units = append(g.units, g.units[0])

	err = g.CheckInvariants()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero health")
	assert.Contains(t, err.Error(), "duplicate unit id 1")
}

func TestValidateRulesRequiresPositiveValues(t *testing.T) {
	require.NoError(t, validateRules(models.DefaultRules()))

	// WithDefaults treats zero as unset, so a zero that reaches validation is rejected.
	stationary := models.DefaultRules()
	stationary.UnitVelocity = 0
	err := validateRules(stationary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be finite and positive")

	assert.Equal(t, models.DefaultUnitVelocity, models.Rules{}.WithDefaults().UnitVelocity)
}
