package interact

import (
	"sync"

	"github.com/decode-detroit/minerva-sub000/internal/item"
)

// Focus tracks the single item eligible for detailed editing on one canvas.
// Setting focus replaces the previous holder; there is no explicit release
// step between items.
type Focus struct {
	mu      sync.Mutex
	focused item.ID
	held    bool
	visible []item.ID
}

// NewFocus creates a focus tracker seeded with the visible id list.
func NewFocus(visible []item.ID) *Focus {
	f := &Focus{}
	f.SetVisible(visible)
	return f
}

// SetVisible replaces the visible id list. A focused id missing from the
// new list is re-materialized at the end, keeping the invariant that the
// focused item is always on screen.
func (f *Focus) SetVisible(visible []item.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = append([]item.ID(nil), visible...)
	if f.held {
		f.materializeLocked(f.focused)
	}
}

// Set focuses id, implicitly clearing any previous focus. An id not in the
// visible list is appended to it, so focusing an off-screen reference pulls
// it into view.
func (f *Focus) Set(id item.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = id
	f.held = true
	f.materializeLocked(id)
}

func (f *Focus) materializeLocked(id item.ID) {
	for _, v := range f.visible {
		if v == id {
			return
		}
	}
	f.visible = append(f.visible, id)
}

// Clear releases focus without focusing anything else.
func (f *Focus) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held = false
}

// Focused returns the current holder, if any.
func (f *Focus) Focused() (item.ID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused, f.held
}

// Visible returns the current visible id list, including any materialized
// focus target.
func (f *Focus) Visible() []item.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]item.ID(nil), f.visible...)
}
