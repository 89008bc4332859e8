// Package arbiter provides the single-slot exclusion token for transient
// selector popups. Each editing scope (one event's action list, say) owns
// one Arbiter; unrelated scopes can each have a selector open at once.
package arbiter

import "sync"

// Menu identifies an open selector. Any comparable handle works; views use
// a pointer to their own menu state.
type Menu any

// Arbiter admits at most one open menu. A holder that never releases blocks
// the scope for good; there is no timeout.
type Arbiter struct {
	mu   sync.Mutex
	held Menu
}

// New creates an empty arbiter.
func New() *Arbiter {
	return &Arbiter{}
}

// Claim attempts to open menu. A non-nil claim succeeds only while no menu
// is held; on false the caller must not open its popup. A nil claim always
// succeeds and releases the slot.
func (a *Arbiter) Claim(menu Menu) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if menu == nil {
		a.held = nil
		return true
	}
	if a.held != nil {
		return false
	}
	a.held = menu
	return true
}

// Held returns the currently open menu, or nil.
func (a *Arbiter) Held() Menu {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.held
}
