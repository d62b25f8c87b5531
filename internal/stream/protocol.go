// Package stream frames simulation output as newline-delimited JSON messages
// for read-only observers such as an external renderer
package stream

import "github.com/NP-Dat/tcr-sim/internal/game"

// MessageType defines the kinds of frames a session publishes
type MessageType string

const (
	MessageTypeSnapshot       MessageType = "snapshot"        // Full state, sent once at start and once at the end
	MessageTypeTick           MessageType = "tick"            // Result of one Update call
	MessageTypeDeploy         MessageType = "deploy"          // A unit entered the field
	MessageTypeDeployRejected MessageType = "deploy_rejected" // A deploy command failed; state is unchanged
)

// Message is the envelope for every frame
type Message struct {
	Type    MessageType `json:"type"`
	Tick    int         `json:"tick"`
	Payload interface{} `json:"payload"`
}

// TickPayload is the payload of a tick frame
type TickPayload struct {
	Report     game.TickReport `json:"report"`
	UnitsAlive int             `json:"units_alive"`
	Digest     string          `json:"digest"`
}

// DeployPayload is the payload of a deploy or deploy_rejected frame
type DeployPayload struct {
	PlayerID uint32  `json:"player_id"`
	CardID   uint32  `json:"card_id"`
	UnitID   uint32  `json:"unit_id,omitempty"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Elixir   uint32  `json:"elixir"`           // Player elixir after the command
	Reason   string  `json:"reason,omitempty"` // Set on rejection
}
