package models

// Default rule values used when a scenario does not override them
const (
	DefaultUnitVelocity     float32 = 10.0
	DefaultEngagementRadius float32 = 100.0
	DefaultRefireInterval   float32 = 1.0
	DefaultTickDelta        float32 = 1.0 / 60.0
)

// Rules are the fixed tuning constants of a game session
type Rules struct {
	UnitVelocity     float32 `json:"unit_velocity" yaml:"unit_velocity"`         // Speed given to every spawned unit
	EngagementRadius float32 `json:"engagement_radius" yaml:"engagement_radius"` // Towers only target units strictly inside this distance
	RefireInterval   float32 `json:"refire_interval" yaml:"refire_interval"`     // Cooldown a tower waits after a hit
}

// DefaultRules returns the canonical rule set
func DefaultRules() Rules {
	return Rules{
		UnitVelocity:     DefaultUnitVelocity,
		EngagementRadius: DefaultEngagementRadius,
		RefireInterval:   DefaultRefireInterval,
	}
}

// WithDefaults fills zero-valued fields from DefaultRules. Every rule must be
// positive, so zero always means unset.
func (r Rules) WithDefaults() Rules {
	def := DefaultRules()
	if r.UnitVelocity == 0 {
		r.UnitVelocity = def.UnitVelocity
	}
	if r.EngagementRadius == 0 {
		r.EngagementRadius = def.EngagementRadius
	}
	if r.RefireInterval == 0 {
		r.RefireInterval = def.RefireInterval
	}
	return r
}

// ScriptedDeploy is a deploy command scheduled at a given tick of a scenario
type ScriptedDeploy struct {
	Tick     int     `json:"tick" yaml:"tick"`
	PlayerID uint32  `json:"player_id" yaml:"player_id"`
	CardID   uint32  `json:"card_id" yaml:"card_id"`
	X        float32 `json:"x" yaml:"x"`
	Y        float32 `json:"y" yaml:"y"`
}

// ScenarioSpec describes the players, rules and scripted actions of a session
type ScenarioSpec struct {
	Name      string           `json:"name" yaml:"name"`
	Players   []Player         `json:"players" yaml:"players"`
	Rules     Rules            `json:"rules" yaml:"rules"`
	TickDelta float32          `json:"tick_delta" yaml:"tick_delta"` // Seconds simulated per tick
	Ticks     int              `json:"ticks" yaml:"ticks"`           // Default number of ticks to run
	Script    []ScriptedDeploy `json:"script" yaml:"script"`
}

// DeckSpec lists the cards in hand and the preview queue that refills it
type DeckSpec struct {
	Cards []Card `json:"cards" yaml:"cards"`
	Queue []Card `json:"queue" yaml:"queue"`
}

// GameConfig contains everything loaded from the config directory
type GameConfig struct {
	Deck     DeckSpec     `json:"deck" yaml:"deck"`
	Towers   []Tower      `json:"towers" yaml:"towers"`
	Scenario ScenarioSpec `json:"scenario" yaml:"scenario"`
}
