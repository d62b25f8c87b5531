package sim

import (
	"context"
	"time"

	"github.com/NP-Dat/tcr-sim/pkg/logger"
)

const (
	// DefaultCommandBuffer is the capacity of a session's command queue
	DefaultCommandBuffer = 16
	// MinInterval is the shortest tick interval derived from a driver's delta
	MinInterval = time.Microsecond
)

// Session runs a Driver on a wall-clock ticker. Run owns the driver and its
// state; other goroutines interact only through Submit.
type Session struct {
	driver   *Driver
	interval time.Duration
	maxTicks int
	commands chan Command
}

// NewSession creates a session ticking every interval. A zero interval uses
// the driver's delta, never shorter than MinInterval. A zero maxTicks runs
// until the context ends.
func NewSession(driver *Driver, interval time.Duration, maxTicks int) *Session {
	if interval <= 0 {
		interval = time.Duration(float64(driver.Delta()) * float64(time.Second)).Round(time.Microsecond)
		// time.NewTicker panics on a zero interval
		interval = max(interval, MinInterval)
	}
	return &Session{
		driver:   driver,
		interval: interval,
		maxTicks: maxTicks,
		commands: make(chan Command, DefaultCommandBuffer),
	}
}

// Submit queues a deploy command for the next tick. It never blocks and
// reports false when the queue is full and the command was dropped.
func (s *Session) Submit(cmd Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		logger.Sim.Warn("Command queue full, dropping deploy of card %d by player %d", cmd.CardID, cmd.PlayerID)
		return false
	}
}

// Run steps the driver until maxTicks is reached or ctx ends.
// Commands queued before a tick fires are applied before that tick.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	state := s.driver.State()
	logger.Sim.Info("Session %s started: tick every %v, limit %d", state.SessionID(), s.interval, s.maxTicks)

	for {
		select {
		case <-ctx.Done():
			logger.Sim.Info("Session %s stopped after %d ticks: %v", state.SessionID(), s.driver.Tick(), ctx.Err())
			return ctx.Err()

		case cmd := <-s.commands:
			s.driver.Deploy(cmd)

		case <-ticker.C:
			s.drainCommands()
			if _, err := s.driver.Step(); err != nil {
				return err
			}
			if s.maxTicks > 0 && s.driver.Tick() >= s.maxTicks {
				logger.Sim.Info("Session %s reached its tick limit (%d)", state.SessionID(), s.maxTicks)
				return nil
			}
		}
	}
}

// Driver returns the session's driver. Only read it once Run has returned.
func (s *Session) Driver() *Driver { return s.driver }

func (s *Session) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			s.driver.Deploy(cmd)
		default:
			return
		}
	}
}
