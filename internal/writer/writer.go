// Package writer coalesces rapid field edits into debounced modification
// batches. The caller applies each edit to local state synchronously and
// then queues a flush; only the last edit within a field's window ever
// reaches the server.
package writer

import (
	"sync"
	"time"

	"github.com/decode-detroit/minerva-sub000/internal/item"
)

// Default debounce windows. Free text gets a full second so a sentence can
// be typed in peace; short numeric fields flush almost immediately.
const (
	TextWindow    = 1000 * time.Millisecond
	NumericWindow = 100 * time.Millisecond
)

// Editor receives finished batches. *api.Client satisfies it.
type Editor interface {
	Edit(batch item.Batch)
}

// Timer is the controllable half of a scheduled flush.
type Timer interface {
	Stop() bool
}

// Clock schedules flush timers. The real clock is time.AfterFunc; tests
// substitute a manual one.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Field names one editable field of an item, e.g. "description" or
// "dmx-value". Each (item, field) pair owns its own debounce timer.
type Field string

type flushKey struct {
	id    item.ID
	field Field
}

type pendingFlush struct {
	timer    Timer
	snapshot func() item.Batch
}

// Writer debounces edits per (item, field) and sends each resulting batch
// exactly once, with no retry. Batches from different keys are never merged
// or ordered against each other; they flush whenever their timers fire.
type Writer struct {
	mu      sync.Mutex
	editor  Editor
	clock   Clock
	pending map[flushKey]*pendingFlush

	textWindow    time.Duration
	numericWindow time.Duration
}

// New creates a writer over editor with the default windows.
func New(editor Editor) *Writer {
	return NewWithClock(editor, realClock{}, TextWindow, NumericWindow)
}

// NewWithWindows creates a writer with the real clock and explicit windows.
func NewWithWindows(editor Editor, textWindow, numericWindow time.Duration) *Writer {
	return NewWithClock(editor, realClock{}, textWindow, numericWindow)
}

// NewWithClock creates a writer with explicit clock and windows, for tests
// and nonstandard configurations.
func NewWithClock(editor Editor, clock Clock, textWindow, numericWindow time.Duration) *Writer {
	return &Writer{
		editor:        editor,
		clock:         clock,
		pending:       make(map[flushKey]*pendingFlush),
		textWindow:    textWindow,
		numericWindow: numericWindow,
	}
}

// QueueText schedules a flush for a free-text field. Any pending flush for
// the same (item, field) is discarded first, so only the latest edit's
// snapshot is sent. snapshot runs at flush time and must build the batch
// from current local state, not from the value at the keystroke.
func (w *Writer) QueueText(id item.ID, field Field, snapshot func() item.Batch) {
	w.queue(id, field, w.textWindow, snapshot)
}

// QueueNumeric schedules a flush for a typed numeric or duration field,
// with the short window.
func (w *Writer) QueueNumeric(id item.ID, field Field, snapshot func() item.Batch) {
	w.queue(id, field, w.numericWindow, snapshot)
}

func (w *Writer) queue(id item.ID, field Field, window time.Duration, snapshot func() item.Batch) {
	key := flushKey{id: id, field: field}

	w.mu.Lock()
	if prev, ok := w.pending[key]; ok {
		prev.timer.Stop()
	}
	pf := &pendingFlush{snapshot: snapshot}
	pf.timer = w.clock.AfterFunc(window, func() { w.flush(key, pf) })
	w.pending[key] = pf
	w.mu.Unlock()
}

// flush sends pf's snapshot unless a later edit has superseded it.
func (w *Writer) flush(key flushKey, pf *pendingFlush) {
	w.mu.Lock()
	if w.pending[key] != pf {
		w.mu.Unlock()
		return
	}
	delete(w.pending, key)
	w.mu.Unlock()

	w.editor.Edit(pf.snapshot())
}

// WriteNow sends a batch immediately, bypassing debounce. Used by discrete
// controls such as steppers, whose values are already bounded per click.
func (w *Writer) WriteNow(batch item.Batch) {
	w.editor.Edit(batch)
}

// Flush fires every pending write immediately. Called when an editing view
// closes so the last keystrokes are not lost to a stopped timer.
func (w *Writer) Flush() {
	w.mu.Lock()
	flushes := make([]*pendingFlush, 0, len(w.pending))
	for key, pf := range w.pending {
		pf.timer.Stop()
		delete(w.pending, key)
		flushes = append(flushes, pf)
	}
	w.mu.Unlock()

	for _, pf := range flushes {
		w.editor.Edit(pf.snapshot())
	}
}

// ClampDmxChannel bounds a DMX channel to [1, 512].
func ClampDmxChannel(v int) uint16 {
	if v < 1 {
		return 1
	}
	if v > 512 {
		return 512
	}
	return uint16(v)
}

// ClampDmxValue bounds a DMX value to [0, 255].
func ClampDmxValue(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ClampMediaChannel bounds a media channel to be non-negative.
func ClampMediaChannel(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
