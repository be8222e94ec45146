// Package event defines the musical event shape produced by track
// evaluation and consumed by effects, the MIDI engine, and sinks.
package event

// Destination names where an event is routed: a MIDI channel plus an
// "extra" slot that pair-literal overrides can set (controller number
// for curve events, velocity for triggers).
type Destination struct {
	Channel int
	Extra   int
}

// Event is a single timed musical occurrence: either a trigger (note)
// or a control curve, never both.
type Event struct {
	Destination Destination
	OnsetMs     float64
	DurationMs  float64
	IsCurve     bool
	Trigger     float64
	Curve       [8]float64
}

// Effect transforms the flat event list a track produced during one
// cycle. Effects run in the order they were attached.
type Effect interface {
	Apply(durMs float64, events []Event) []Event
}

// Linear builds the cubic Bezier whose endpoints are (0,a) and (1,b)
// with handles spaced a third of the way along the line between them,
// matching the `linear` curve keyword.
func Linear(a, b float64) [8]float64 {
	return [8]float64{
		0, a,
		1.0 / 3.0, a + (b-a)/3.0,
		2.0 / 3.0, a + 2*(b-a)/3.0,
		1, b,
	}
}

// EvalCubicBezier evaluates the Bezier curve c at parameter t in [0,1],
// treating the four (t,value) control points as a standard cubic
// Bezier in the value dimension.
func EvalCubicBezier(c [8]float64, t float64) float64 {
	p0, p1, p2, p3 := c[1], c[3], c[5], c[7]
	mt := 1 - t
	return mt*mt*mt*p0 + 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t*p3
}
