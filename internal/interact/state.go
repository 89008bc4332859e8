// Package interact holds the pointer-driven editing state machines: drag
// for positions, resize for dimensions, and the single-focus tracker. State
// is plain records with pure transition functions; a Session ties one
// gesture to the host event loop and guarantees teardown on every exit
// path.
package interact

// Point is a pointer location in screen pixels.
type Point struct {
	X float64
	Y float64
}

// Offset is an element offset in canvas pixels: left/top for a drag,
// width/height for a resize.
type Offset struct {
	X float64
	Y float64
}

// Minimum dimensions a resize can reach. Positions clamp to zero instead.
const (
	MinWidth  = 250.0
	MinHeight = 100.0
)

// PositionFloor is the clamp floor for drag gestures.
var PositionFloor = Offset{X: 0, Y: 0}

// DimensionFloor is the clamp floor for resize gestures.
var DimensionFloor = Offset{X: MinWidth, Y: MinHeight}

// State is one active gesture between pointer-down and pointer-up.
type State struct {
	// Offset is the current clamped offset, re-derived on every move.
	Offset Offset

	// LastPointer is the screen position the next move's delta is taken
	// from. It advances with every move event.
	LastPointer Point
}

// Begin captures the element's committed offset and the pointer-down
// position.
func Begin(committed Offset, pointer Point) State {
	return State{Offset: committed, LastPointer: pointer}
}

// Move advances the gesture by one pointer event. The pointer delta is
// divided by the canvas zoom so a screen movement lands as the equivalent
// canvas movement, and the result is clamped to the floor immediately, not
// only at commit.
func Move(s State, pointer Point, zoom float64, floor Offset) State {
	deltaX := s.LastPointer.X - pointer.X
	deltaY := s.LastPointer.Y - pointer.Y

	next := Offset{
		X: s.Offset.X - deltaX/zoom,
		Y: s.Offset.Y - deltaY/zoom,
	}
	if next.X < floor.X {
		next.X = floor.X
	}
	if next.Y < floor.Y {
		next.Y = floor.Y
	}

	return State{Offset: next, LastPointer: pointer}
}
