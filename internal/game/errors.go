package game

import "errors"

// Errors returned by GameState operations. A failed operation never mutates state.
var (
	ErrCardNotFound       = errors.New("card not found")
	ErrInsufficientElixir = errors.New("insufficient elixir")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInvalidPosition    = errors.New("invalid position")
	ErrInvalidDelta       = errors.New("invalid delta time")
	ErrInvalidSetup       = errors.New("invalid setup")
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
	ErrUnitIDsExhausted   = errors.New("unit ids exhausted")
)
