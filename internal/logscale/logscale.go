// Package logscale maps a linear control position onto a logarithmic value
// range, the way the duration sliders present 10ms..60s on a 0..100 track.
package logscale

import "math"

// Steps is the position range of the control: positions run 0..Steps.
const Steps = 100.0

// Scale is a logarithmic mapping between [Min, Max] and [0, Steps].
type Scale struct {
	Min, Max int

	minLog, span float64
}

// New builds a scale for the inclusive value range [min, max]. Both bounds
// must be positive and min < max.
func New(min, max int) Scale {
	if min < 1 {
		min = 1
	}
	if max <= min {
		max = min + 1
	}
	lo := math.Log(float64(min))
	return Scale{
		Min:    min,
		Max:    max,
		minLog: lo,
		span:   math.Log(float64(max)) - lo,
	}
}

// Value returns the integer value at pos, clamped to the control range.
func (s Scale) Value(pos float64) int {
	pos = clamp(pos, 0, Steps)
	v := int(math.Round(math.Exp(s.minLog + pos/Steps*s.span)))
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Position returns the control position that displays v.
func (s Scale) Position(v int) float64 {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	return (math.Log(float64(v)) - s.minLog) / s.span * Steps
}

// Step moves the value at v by delta positions and returns the new value.
// A step that would round back onto v is pushed one unit further so every
// keypress changes the value.
func (s Scale) Step(v int, delta float64) int {
	next := s.Value(s.Position(v) + delta)
	if next == v {
		switch {
		case delta > 0 && v < s.Max:
			next = v + 1
		case delta < 0 && v > s.Min:
			next = v - 1
		}
	}
	return next
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
