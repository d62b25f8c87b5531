package game

import (
	"fmt"
	"math"

	"github.com/NP-Dat/tcr-sim/internal/geom"
	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/NP-Dat/tcr-sim/pkg/logger"
)

// SpawnUnit spawns a unit from a card on behalf of the first player.
// The card stays in the deck. On error nothing changes, so callers that
// only care about the effect may ignore it.
func (g *GameState) SpawnUnit(cardID uint32, x, y float32) (models.Unit, error) {
	if len(g.players) == 0 {
		return models.Unit{}, ErrPlayerNotFound
	}
	unit, _, err := g.spawn(0, cardID, x, y)
	return unit, err
}

// SpawnUnitFor spawns a unit from a card on behalf of the given player
func (g *GameState) SpawnUnitFor(playerID, cardID uint32, x, y float32) (models.Unit, error) {
	idx := g.playerIndex(playerID)
	if idx < 0 {
		return models.Unit{}, fmt.Errorf("player %d: %w", playerID, ErrPlayerNotFound)
	}
	unit, _, err := g.spawn(idx, cardID, x, y)
	return unit, err
}

// Deploy spawns a unit for the player, consumes the card from the deck and
// refills the deck from the head of the preview queue
func (g *GameState) Deploy(playerID, cardID uint32, x, y float32) (models.Unit, error) {
	idx := g.playerIndex(playerID)
	if idx < 0 {
		return models.Unit{}, fmt.Errorf("player %d: %w", playerID, ErrPlayerNotFound)
	}

	unit, cardIdx, err := g.spawn(idx, cardID, x, y)
	if err != nil {
		return models.Unit{}, err
	}

	card := g.cards[cardIdx]
	g.cards = append(g.cards[:cardIdx], g.cards[cardIdx+1:]...)
	if len(g.queue) > 0 {
		g.cards = append(g.cards, g.queue[0])
		g.queue = g.queue[1:]
	}

	logger.Game.Info("Player %d deployed %s as unit %d at (%.2f, %.2f). Elixir: %d",
		playerID, card.Name, unit.ID, x, y, g.players[idx].Elixir)
	return unit, nil
}

// spawn validates and performs a spawn for the player at playerIdx.
// It returns the new unit and the deck index of the card used.
func (g *GameState) spawn(playerIdx int, cardID uint32, x, y float32) (models.Unit, int, error) {
	player := &g.players[playerIdx]

	cardIdx := g.cardIndex(cardID)
	if cardIdx < 0 {
		logger.Game.Debug("Player %d: card %d not in deck", player.ID, cardID)
		return models.Unit{}, -1, fmt.Errorf("card %d: %w", cardID, ErrCardNotFound)
	}
	card := g.cards[cardIdx]

	if player.Elixir < card.Cost {
		logger.Game.Debug("Player %d has insufficient elixir (%d) for %s (cost %d)",
			player.ID, player.Elixir, card.Name, card.Cost)
		return models.Unit{}, -1, fmt.Errorf("%s costs %d, player %d has %d: %w",
			card.Name, card.Cost, player.ID, player.Elixir, ErrInsufficientElixir)
	}

	if !geom.Vec(x, y).IsFinite() {
		return models.Unit{}, -1, fmt.Errorf("(%v, %v): %w", x, y, ErrInvalidPosition)
	}

	if g.nextUnitID == math.MaxUint32 {
		return models.Unit{}, -1, ErrUnitIDsExhausted
	}

	player.Elixir -= card.Cost
	unit := models.Unit{
		ID:       g.allocUnitID(),
		X:        x,
		Y:        y,
		Health:   card.Health,
		Velocity: g.rules.UnitVelocity,
	}
	g.units = append(g.units, unit)

	return unit, cardIdx, nil
}

// allocUnitID hands out unit ids that are never reused within a session
func (g *GameState) allocUnitID() uint32 {
	id := g.nextUnitID
	g.nextUnitID++
	return id
}
