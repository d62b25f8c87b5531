package game

import (
	"errors"
	"fmt"

	"github.com/NP-Dat/tcr-sim/internal/geom"
	"github.com/NP-Dat/tcr-sim/internal/models"
)

// CheckInvariants verifies the structural invariants of the state and
// returns every violation found, joined
func (g *GameState) CheckInvariants() error {
	var errs []error

	errs = append(errs, checkPlayers(g.players)...)
	errs = append(errs, checkCards(g.cards, g.queue)...)
	errs = append(errs, checkTowers(g.towers)...)
	errs = append(errs, checkUnits(g.units, g.nextUnitID)...)

	return errors.Join(errs...)
}

func validateRules(r models.Rules) error {
	switch {
	case !geom.IsFinite(r.UnitVelocity) || r.UnitVelocity <= 0:
		return fmt.Errorf("unit velocity %v must be finite and positive", r.UnitVelocity)
	case !geom.IsFinite(r.EngagementRadius) || r.EngagementRadius <= 0:
		return fmt.Errorf("engagement radius %v must be finite and positive", r.EngagementRadius)
	case !geom.IsFinite(r.RefireInterval) || r.RefireInterval <= 0:
		return fmt.Errorf("refire interval %v must be finite and positive", r.RefireInterval)
	}
	return nil
}

func validateSetup(s Setup) error {
	if len(s.Players) == 0 {
		return fmt.Errorf("%w: at least one player is required", ErrInvalidSetup)
	}

	var errs []error
	if err := validateRules(s.Rules); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, checkPlayers(s.Players)...)
	errs = append(errs, checkCards(s.Cards, s.Queue)...)
	errs = append(errs, checkTowers(s.Towers)...)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSetup, errors.Join(errs...))
	}
	return nil
}

func checkPlayers(players []models.Player) []error {
	var errs []error
	seen := make(map[uint32]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate player id %d", p.ID))
		}
		seen[p.ID] = true
	}
	return errs
}

// checkCards treats the deck and the preview queue as one id space,
// since queued cards move into the deck
func checkCards(deck, queue []models.Card) []error {
	var errs []error
	seen := make(map[uint32]bool, len(deck)+len(queue))
	for _, group := range [][]models.Card{deck, queue} {
		for _, c := range group {
			if seen[c.ID] {
				errs = append(errs, fmt.Errorf("duplicate card id %d", c.ID))
			}
			seen[c.ID] = true
			if c.Health == 0 {
				errs = append(errs, fmt.Errorf("card %d (%s) has zero health", c.ID, c.Name))
			}
		}
	}
	return errs
}

func checkTowers(towers []models.Tower) []error {
	var errs []error
	seen := make(map[uint32]bool, len(towers))
	for _, t := range towers {
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("duplicate tower id %d", t.ID))
		}
		seen[t.ID] = true
		if !t.Position().IsFinite() {
			errs = append(errs, fmt.Errorf("tower %d has a non-finite position", t.ID))
		}
		if !geom.IsFinite(t.AttackCooldown) {
			errs = append(errs, fmt.Errorf("tower %d has a non-finite cooldown", t.ID))
		}
	}
	return errs
}

func checkUnits(units []models.Unit, nextID uint32) []error {
	var errs []error
	seen := make(map[uint32]bool, len(units))
	for _, u := range units {
		if seen[u.ID] {
			errs = append(errs, fmt.Errorf("duplicate unit id %d", u.ID))
		}
		seen[u.ID] = true
		if !u.Alive() {
			errs = append(errs, fmt.Errorf("unit %d is stored with zero health", u.ID))
		}
		if u.ID >= nextID {
			errs = append(errs, fmt.Errorf("unit %d is not below the id allocator (%d)", u.ID, nextID))
		}
		if !u.Position().IsFinite() || !geom.IsFinite(u.Velocity) {
			errs = append(errs, fmt.Errorf("unit %d has a non-finite position or velocity", u.ID))
		}
	}
	return errs
}
