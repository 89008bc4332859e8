package interact

import "sync"

// PointerEvent is one document-scope pointer message. Nested pannable or
// draggable ancestors all observe the same event; the innermost active
// gesture stops propagation so outer levels ignore it.
type PointerEvent struct {
	Point   Point
	stopped bool
}

// StopPropagation marks the event consumed for outer listeners.
func (e *PointerEvent) StopPropagation() { e.stopped = true }

// Propagating reports whether an outer listener may still act on the event.
func (e *PointerEvent) Propagating() bool { return !e.stopped }

// Dispatcher is the document-scope listener registry of the host loop.
// Listeners sit at the document rather than the element so a gesture keeps
// tracking when the pointer leaves the element mid-drag.
type Dispatcher interface {
	Install(move func(*PointerEvent), up func(*PointerEvent))
	Remove()
}

// Session runs one gesture from pointer-down to pointer-up. It owns the
// installed listeners: whichever way the session ends, through pointer-up
// or Abort, the listeners come down exactly once.
type Session struct {
	mu         sync.Mutex
	dispatcher Dispatcher
	state      State
	zoom       float64
	floor      Offset
	commit     func(Offset)
	done       bool
}

// BeginDrag starts a position gesture at the element's committed left/top.
// commit runs once on pointer-up with the final clamped offset; after it
// returns, the transient offset is conceptually zero and the next gesture
// re-derives its baseline from the committed position.
func BeginDrag(d Dispatcher, committed Offset, pointer Point, zoom float64, commit func(Offset)) *Session {
	return begin(d, committed, pointer, zoom, PositionFloor, commit)
}

// BeginResize starts a dimension gesture at the element's committed
// width/height, clamped to the minimum dimensions.
func BeginResize(d Dispatcher, committed Offset, pointer Point, zoom float64, commit func(Offset)) *Session {
	return begin(d, committed, pointer, zoom, DimensionFloor, commit)
}

func begin(d Dispatcher, committed Offset, pointer Point, zoom float64, floor Offset, commit func(Offset)) *Session {
	s := &Session{
		dispatcher: d,
		state:      Begin(committed, pointer),
		zoom:       zoom,
		floor:      floor,
		commit:     commit,
	}
	d.Install(s.onMove, s.onUp)
	return s
}

func (s *Session) onMove(e *PointerEvent) {
	if !e.Propagating() {
		return
	}
	e.StopPropagation()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.state = Move(s.state, e.Point, s.zoom, s.floor)
}

func (s *Session) onUp(e *PointerEvent) {
	if !e.Propagating() {
		return
	}
	e.StopPropagation()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	final := s.state.Offset
	s.mu.Unlock()

	// Listeners come down before the commit side effect runs, so a commit
	// that panics cannot leak them.
	s.dispatcher.Remove()
	s.commit(final)
}

// Abort tears the session down without committing. Safe to call after a
// normal pointer-up; the teardown runs at most once.
func (s *Session) Abort() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.mu.Unlock()

	s.dispatcher.Remove()
}

// Offset returns the gesture's current clamped offset, for live rendering
// between pointer events.
func (s *Session) Offset() Offset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Offset
}

// Active reports whether the session is still between down and up.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.done
}
