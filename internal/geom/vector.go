// Package geom holds the 2D primitives shared by the simulation records.
package geom

import "math"

// Vector2D is a point or offset in world space
type Vector2D struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// Vec returns a Vector2D for the given coordinates
func Vec(x, y float32) Vector2D {
	return Vector2D{X: x, Y: y}
}

// Distance returns the Euclidean distance between a and b.
// The difference is taken in float64 so far-apart points do not overflow float32.
func Distance(a, b Vector2D) float64 {
	return math.Hypot(float64(a.X)-float64(b.X), float64(a.Y)-float64(b.Y))
}

// IsFinite reports whether both components are neither NaN nor infinite
func (v Vector2D) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// IsFinite reports whether f is neither NaN nor infinite
func IsFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
