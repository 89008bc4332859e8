package interact

import "testing"

// mockDispatcher keeps the installed handlers so the test can play pointer
// events, and counts installs and removals.
type mockDispatcher struct {
	move     func(*PointerEvent)
	up       func(*PointerEvent)
	installs int
	removals int
}

func (d *mockDispatcher) Install(move func(*PointerEvent), up func(*PointerEvent)) {
	d.move = move
	d.up = up
	d.installs++
}

func (d *mockDispatcher) Remove() {
	d.removals++
}

func TestSession_CommitOnPointerUp(t *testing.T) {
	d := &mockDispatcher{}
	var committed *Offset
	s := BeginDrag(d, Offset{X: 10, Y: 10}, Point{X: 100, Y: 100}, 1, func(o Offset) {
		committed = &o
	})

	d.move(&PointerEvent{Point: Point{X: 110, Y: 120}})
	d.move(&PointerEvent{Point: Point{X: 130, Y: 120}})
	d.up(&PointerEvent{Point: Point{X: 130, Y: 120}})

	if committed == nil {
		t.Fatal("commit did not run")
	}
	if committed.X != 40 || committed.Y != 30 {
		t.Errorf("unexpected committed offset: %+v", *committed)
	}
	if d.removals != 1 {
		t.Errorf("expected one listener removal, got %d", d.removals)
	}
	if s.Active() {
		t.Error("session still active after pointer-up")
	}
}

func TestSession_AbortRemovesWithoutCommit(t *testing.T) {
	d := &mockDispatcher{}
	commits := 0
	s := BeginDrag(d, Offset{}, Point{}, 1, func(Offset) { commits++ })

	s.Abort()

	if commits != 0 {
		t.Error("abort must not commit")
	}
	if d.removals != 1 {
		t.Errorf("expected one listener removal, got %d", d.removals)
	}

	// Teardown is idempotent across exit paths.
	s.Abort()
	if d.removals != 1 {
		t.Errorf("double teardown: %d removals", d.removals)
	}
}

func TestSession_InnermostGestureStopsPropagation(t *testing.T) {
	// An inner drag and an outer pan both listen at the document scope.
	// The inner session consumes the event; the outer one must ignore it.
	inner := &mockDispatcher{}
	outerSaw := 0

	BeginDrag(inner, Offset{}, Point{}, 1, func(Offset) {})
	outerMove := func(e *PointerEvent) {
		if e.Propagating() {
			outerSaw++
		}
	}

	e := &PointerEvent{Point: Point{X: 5, Y: 5}}
	inner.move(e)
	outerMove(e)

	if outerSaw != 0 {
		t.Error("outer listener acted on a consumed event")
	}
}

func TestSession_ResizeUsesDimensionFloor(t *testing.T) {
	d := &mockDispatcher{}
	var committed Offset
	BeginResize(d, Offset{X: 400, Y: 300}, Point{X: 0, Y: 0}, 1, func(o Offset) {
		committed = o
	})

	d.move(&PointerEvent{Point: Point{X: -1000, Y: -1000}})
	d.up(&PointerEvent{Point: Point{X: -1000, Y: -1000}})

	if committed.X != MinWidth || committed.Y != MinHeight {
		t.Errorf("resize went below the minimum: %+v", committed)
	}
}

func TestSession_MoveAfterUpIgnored(t *testing.T) {
	d := &mockDispatcher{}
	s := BeginDrag(d, Offset{X: 10, Y: 10}, Point{}, 1, func(Offset) {})

	d.up(&PointerEvent{})
	d.move(&PointerEvent{Point: Point{X: 50, Y: 50}})

	if got := s.Offset(); got.X != 10 || got.Y != 10 {
		t.Errorf("stale move changed a finished session: %+v", got)
	}
}
