// Package sim drives a GameState forward in fixed steps, applying scripted
// and submitted deploys between ticks
package sim

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/NP-Dat/tcr-sim/internal/game"
	"github.com/NP-Dat/tcr-sim/internal/geom"
	"github.com/NP-Dat/tcr-sim/internal/models"
	"github.com/NP-Dat/tcr-sim/internal/stream"
	"github.com/NP-Dat/tcr-sim/pkg/logger"
)

// ErrInvalidTickDelta is returned by NewDriver for a non-positive or non-finite step
var ErrInvalidTickDelta = errors.New("tick delta must be finite and positive")

// Command asks for a card to be deployed
type Command struct {
	PlayerID uint32
	CardID   uint32
	X        float32
	Y        float32
}

// Summary aggregates what happened over a run
type Summary struct {
	Ticks        int
	Deployed     int
	Rejected     int
	Attacks      int
	UnitsRemoved int
	UnitsAlive   int
	Players      []models.Player
	Digest       string
}

// Driver owns a GameState and advances it one fixed step at a time.
// It is not safe for concurrent use.
type Driver struct {
	state  *game.GameState
	delta  float32
	script []models.ScriptedDeploy
	next   int // index of the first script entry not yet applied
	tick   int
	frames *stream.Writer

	deployed int
	rejected int
	attacks  int
	removed  int
}

// NewDriver creates a Driver stepping state by delta seconds per tick.
// Script entries are applied at the start of their tick, in tick order.
// frames may be nil.
func NewDriver(state *game.GameState, delta float32, script []models.ScriptedDeploy, frames *stream.Writer) (*Driver, error) {
	if !geom.IsFinite(delta) || delta <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTickDelta, delta)
	}

	sorted := slices.Clone(script)
	slices.SortStableFunc(sorted, func(a, b models.ScriptedDeploy) int {
		return cmp.Compare(a.Tick, b.Tick)
	})

	return &Driver{
		state:  state,
		delta:  delta,
		script: sorted,
		frames: frames,
	}, nil
}

// State returns the driven GameState
func (d *Driver) State() *game.GameState { return d.state }

// Tick returns the number of completed ticks
func (d *Driver) Tick() int { return d.tick }

// Delta returns the seconds simulated per tick
func (d *Driver) Delta() float32 { return d.delta }

// Deploy applies a deploy command immediately and publishes the outcome
func (d *Driver) Deploy(cmd Command) (models.Unit, error) {
	unit, err := d.state.Deploy(cmd.PlayerID, cmd.CardID, cmd.X, cmd.Y)

	payload := stream.DeployPayload{
		PlayerID: cmd.PlayerID,
		CardID:   cmd.CardID,
		UnitID:   unit.ID,
		X:        cmd.X,
		Y:        cmd.Y,
	}
	if p, ok := d.state.Player(cmd.PlayerID); ok {
		payload.Elixir = p.Elixir
	}

	if err != nil {
		d.rejected++
		payload.Reason = err.Error()
		logger.Sim.Warn("Tick %d: deploy of card %d by player %d rejected: %v", d.tick, cmd.CardID, cmd.PlayerID, err)
		d.publish(stream.MessageTypeDeployRejected, payload)
		return models.Unit{}, err
	}

	d.deployed++
	d.publish(stream.MessageTypeDeploy, payload)
	return unit, nil
}

// Step applies the script entries due at the current tick, then advances the state by one delta
func (d *Driver) Step() (game.TickReport, error) {
	for d.next < len(d.script) && d.script[d.next].Tick <= d.tick {
		entry := d.script[d.next]
		d.next++
		// rejected entries are counted and published, the run continues
		d.Deploy(Command{PlayerID: entry.PlayerID, CardID: entry.CardID, X: entry.X, Y: entry.Y})
	}

	report, err := d.state.Update(d.delta)
	if err != nil {
		return report, fmt.Errorf("tick %d: %w", d.tick, err)
	}
	d.tick++
	d.attacks += len(report.Attacks)
	d.removed += len(report.Removed)

	if d.frames != nil {
		digest, err := d.state.Digest()
		if err != nil {
			logger.Sim.Error("Tick %d: %v", d.tick, err)
		}
		d.publish(stream.MessageTypeTick, stream.TickPayload{
			Report:     report,
			UnitsAlive: len(d.state.Units()),
			Digest:     digest,
		})
	}

	return report, nil
}

// Replay runs ticks steps back to back without any wall clock
func (d *Driver) Replay(ticks int) (Summary, error) {
	for i := 0; i < ticks; i++ {
		if _, err := d.Step(); err != nil {
			return d.Summary(), err
		}
	}
	return d.Summary(), nil
}

// PublishSnapshot sends the full state as a snapshot frame
func (d *Driver) PublishSnapshot() {
	d.publish(stream.MessageTypeSnapshot, d.state.Snapshot())
}

// Summary reports the counters accumulated so far
func (d *Driver) Summary() Summary {
	digest, err := d.state.Digest()
	if err != nil {
		logger.Sim.Error("Failed to digest state: %v", err)
	}
	return Summary{
		Ticks:        d.tick,
		Deployed:     d.deployed,
		Rejected:     d.rejected,
		Attacks:      d.attacks,
		UnitsRemoved: d.removed,
		UnitsAlive:   len(d.state.Units()),
		Players:      d.state.Players(),
		Digest:       digest,
	}
}

// publish writes a frame if a stream is attached. A failed write detaches the stream.
func (d *Driver) publish(msgType stream.MessageType, payload interface{}) {
	if d.frames == nil {
		return
	}
	if err := d.frames.Send(msgType, d.tick, payload); err != nil {
		logger.Stream.Error("Dropping frame stream after write failure: %v", err)
		d.frames = nil
	}
}
