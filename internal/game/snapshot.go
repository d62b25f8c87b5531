package game

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Snapshot is the serialisable form of a GameState
type Snapshot struct {
	SessionID  string          `json:"session_id"`
	NextUnitID uint32          `json:"next_unit_id"`
	Rules      models.Rules    `json:"rules"`
	Players    []models.Player `json:"players"`
	Units      []models.Unit   `json:"units"`
	Towers     []models.Tower  `json:"towers"`
	Cards      []models.Card   `json:"cards"`
	Queue      []models.Card   `json:"queue"`
}

// Snapshot copies the full state into a Snapshot
func (g *GameState) Snapshot() Snapshot {
	return Snapshot{
		SessionID:  g.sessionID,
		NextUnitID: g.nextUnitID,
		Rules:      g.rules,
		Players:    cloneOrEmpty(g.players),
		Units:      cloneOrEmpty(g.units),
		Towers:     cloneOrEmpty(g.towers),
		Cards:      cloneOrEmpty(g.cards),
		Queue:      cloneOrEmpty(g.queue),
	}
}

// Restore rebuilds a GameState from a snapshot. Zero rule fields take their
// defaults, a zero NextUnitID is derived from the highest stored unit id and
// an empty session id gets a fresh one.
func Restore(s Snapshot) (*GameState, error) {
	if len(s.Players) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidSnapshot)
	}
	s.Rules = s.Rules.WithDefaults()
	if err := validateRules(s.Rules); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	nextID := s.NextUnitID
	if nextID == 0 {
		nextID = firstUnitID
		for _, u := range s.Units {
			if u.ID == math.MaxUint32 {
				return nil, fmt.Errorf("%w: unit id %d leaves no id for the allocator", ErrInvalidSnapshot, u.ID)
			}
			if u.ID >= nextID {
				nextID = u.ID + 1
			}
		}
	}

	g := &GameState{
		sessionID:  s.SessionID,
		rules:      s.Rules,
		players:    cloneOrEmpty(s.Players),
		units:      cloneOrEmpty(s.Units),
		towers:     cloneOrEmpty(s.Towers),
		cards:      cloneOrEmpty(s.Cards),
		queue:      cloneOrEmpty(s.Queue),
		nextUnitID: nextID,
	}
	if g.sessionID == "" {
		g.sessionID = uuid.New().String()
	}

	if err := g.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return g, nil
}

// EncodeSnapshot writes the state to w as JSON
func (g *GameState) EncodeSnapshot(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a JSON snapshot from r and restores it
func DecodeSnapshot(r io.Reader) (*GameState, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidSnapshot)
		}
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return Restore(s)
}

// Digest returns a hex blake2b-256 hash of the state's JSON form.
// Two states with equal digests are identical field for field.
func (g *GameState) Digest() (string, error) {
	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot for digest: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
