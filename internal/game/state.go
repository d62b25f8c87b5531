package game

import (
	"fmt"
	"slices"

	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/google/uuid"
)

// Canonical starting values of a session created with New
const (
	StartingPlayerID   uint32 = 1
	StartingElixir     uint32 = 10
	StartingCardID     uint32 = 1
	StartingCardName   string = "Pekka"
	StartingCardCost   uint32 = 7
	StartingCardHealth uint32 = 1000
	firstUnitID        uint32 = 1
)

// GameState is the single source of truth for one game session.
// It is not safe for concurrent use; one control loop owns it.
type GameState struct {
	sessionID  string
	rules      models.Rules
	players    []models.Player
	units      []models.Unit
	towers     []models.Tower
	cards      []models.Card // active deck
	queue      []models.Card // preview queue that refills the deck after a deploy
	nextUnitID uint32
}

// Setup describes an alternate starting configuration for NewFromSetup
type Setup struct {
	SessionID string // Generated when empty
	Rules     models.Rules
	Players   []models.Player
	Cards     []models.Card
	Queue     []models.Card
	Towers    []models.Tower
}

// New creates the canonical starting state: one player with 10 elixir,
// a single Pekka card, no units and no towers
func New() *GameState {
	return &GameState{
		sessionID: uuid.New().String(),
		rules:     models.DefaultRules(),
		players:   []models.Player{{ID: StartingPlayerID, Elixir: StartingElixir}},
		units:     []models.Unit{},
		towers:    []models.Tower{},
		cards: []models.Card{{
			ID:     StartingCardID,
			Name:   StartingCardName,
			Cost:   StartingCardCost,
			Health: StartingCardHealth,
		}},
		queue:      []models.Card{},
		nextUnitID: firstUnitID,
	}
}

// NewFromSetup creates a state from an explicit configuration after validating it
func NewFromSetup(setup Setup) (*GameState, error) {
	setup.Rules = setup.Rules.WithDefaults()
	if err := validateSetup(setup); err != nil {
		return nil, err
	}

	sessionID := setup.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	return &GameState{
		sessionID:  sessionID,
		rules:      setup.Rules,
		players:    cloneOrEmpty(setup.Players),
		units:      []models.Unit{},
		towers:     cloneOrEmpty(setup.Towers),
		cards:      cloneOrEmpty(setup.Cards),
		queue:      cloneOrEmpty(setup.Queue),
		nextUnitID: firstUnitID,
	}, nil
}

// SetupFromConfig maps a loaded game configuration to a Setup
func SetupFromConfig(cfg *models.GameConfig) Setup {
	return Setup{
		Rules:   cfg.Scenario.Rules,
		Players: cfg.Scenario.Players,
		Cards:   cfg.Deck.Cards,
		Queue:   cfg.Deck.Queue,
		Towers:  cfg.Towers,
	}
}

// SessionID returns the identifier of this session
func (g *GameState) SessionID() string { return g.sessionID }

// Rules returns the rule set in effect
func (g *GameState) Rules() models.Rules { return g.rules }

// Players returns a copy of the players in order
func (g *GameState) Players() []models.Player { return slices.Clone(g.players) }

// Units returns a copy of the live units in storage order
func (g *GameState) Units() []models.Unit { return slices.Clone(g.units) }

// Towers returns a copy of the towers in order
func (g *GameState) Towers() []models.Tower { return slices.Clone(g.towers) }

// Cards returns a copy of the active deck
func (g *GameState) Cards() []models.Card { return slices.Clone(g.cards) }

// Queue returns a copy of the preview queue
func (g *GameState) Queue() []models.Card { return slices.Clone(g.queue) }

// Player looks up a player by id
func (g *GameState) Player(id uint32) (models.Player, bool) {
	idx := g.playerIndex(id)
	if idx < 0 {
		return models.Player{}, false
	}
	return g.players[idx], true
}

// NextCard returns the card that will refill the deck after the next deploy
func (g *GameState) NextCard() (models.Card, bool) {
	if len(g.queue) == 0 {
		return models.Card{}, false
	}
	return g.queue[0], true
}

// Unit looks up a live unit by id
func (g *GameState) Unit(id uint32) (models.Unit, bool) {
	for _, u := range g.units {
		if u.ID == id {
			return u, true
		}
	}
	return models.Unit{}, false
}

func (g *GameState) playerIndex(id uint32) int {
	return slices.IndexFunc(g.players, func(p models.Player) bool { return p.ID == id })
}

func (g *GameState) cardIndex(id uint32) int {
	return slices.IndexFunc(g.cards, func(c models.Card) bool { return c.ID == id })
}

// String summarises the state for log lines
func (g *GameState) String() string {
	return fmt.Sprintf("session=%s players=%d units=%d towers=%d cards=%d queue=%d",
		g.sessionID, len(g.players), len(g.units), len(g.towers), len(g.cards), len(g.queue))
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
