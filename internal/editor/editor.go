// Package editor wires the editing components together: one cache, one
// debounced writer, one style sheet and one focus tracker per open editor
// window, with membership operations and gesture commits routed to the
// right server writes.
package editor

import (
	"time"

	"github.com/decode-detroit/minerva-sub000/internal/arbiter"
	"github.com/decode-detroit/minerva-sub000/internal/cache"
	"github.com/decode-detroit/minerva-sub000/internal/interact"
	"github.com/decode-detroit/minerva-sub000/internal/item"
	"github.com/decode-detroit/minerva-sub000/internal/member"
	"github.com/decode-detroit/minerva-sub000/internal/style"
	"github.com/decode-detroit/minerva-sub000/internal/writer"
)

// Server is the full server surface the editor needs. *api.Client
// satisfies it.
type Server interface {
	cache.Fetcher
	member.Server
	style.Saver
	GetStatus(id item.ID) (item.Status, bool)
	AllItems() ([]item.Pair, bool)
}

// Editor owns the per-window editing state.
type Editor struct {
	server Server

	Cache   *cache.Cache
	Writer  *writer.Writer
	Members *member.Ops
	Sheet   *style.Sheet
	Focus   *interact.Focus
}

// New creates an editor over server with the given debounce windows.
func New(server Server, textWindow, numericWindow time.Duration) *Editor {
	sheet := style.NewSheet(server)
	return &Editor{
		server:  server,
		Cache:   cache.New(server),
		Writer:  writer.NewWithWindows(server, textWindow, numericWindow),
		Members: member.NewOps(server, sheet),
		Sheet:   sheet,
		Focus:   interact.NewFocus(nil),
	}
}

// NewScope creates the selection-menu arbiter for one editing scope. Each
// scope (one event's action list, one status editor) gets its own.
func (e *Editor) NewScope() *arbiter.Arbiter {
	return arbiter.New()
}

// SetDescription applies a keystroke's worth of description edit: the local
// state changes now, and a debounced modifyItem flushes later from whatever
// the description is at flush time.
func (e *Editor) SetDescription(id item.ID, text string) {
	e.Cache.SetDescription(id, text)
	e.Writer.QueueText(id, "description", func() item.Batch {
		pair, ok := e.Cache.Item(id)
		if !ok {
			return nil
		}
		return item.Batch{{Kind: item.ModifyItem, ItemPair: &pair}}
	})
}

// CreateItem allocates a fresh id, records the pair locally and writes it
// immediately. The id comes from scanning every id the client knows, so
// concurrent editors can still collide; see item.Allocate.
func (e *Editor) CreateItem(description string, display item.Display) item.ID {
	known := e.Cache.KnownIDs()
	if pairs, ok := e.server.AllItems(); ok {
		for _, p := range pairs {
			known[p.ID] = struct{}{}
		}
	}
	id := item.Allocate(known)

	pair := item.Pair{ID: id, Description: description, Display: display}
	e.Cache.SetDescription(id, description)
	e.Writer.WriteNow(item.Batch{{Kind: item.ModifyItem, ItemPair: &pair}})
	return id
}

// RemoveItem deletes an item from the show and drops the local copy.
func (e *Editor) RemoveItem(id item.ID) {
	e.Writer.WriteNow(item.Batch{{Kind: item.RemoveItem, ItemID: id}})
	e.Cache.Invalidate(id)
}

// RemoveStatusState drops the allowed state at index from a multistate
// status and writes the new list immediately.
func (e *Editor) RemoveStatusState(statusID item.ID, index int) {
	status, ok := e.server.GetStatus(statusID)
	if !ok || status.MultiState == nil {
		return
	}
	ms := *status.MultiState
	ms.Allowed = ms.RemoveState(index)
	if len(ms.Allowed) > 0 && !containsID(ms.Allowed, ms.Current) {
		// The removed state was current; fall back to the first remaining.
		ms.Current = ms.Allowed[0]
	}
	e.Writer.WriteNow(item.Batch{{
		Kind:   item.ModifyStatusPayload,
		ItemID: statusID,
		Status: &item.Status{MultiState: &ms},
	}})
}

// DragItem starts a position gesture for itemID within sceneID. The commit
// persists the final offset through the style side-channel.
func (e *Editor) DragItem(d interact.Dispatcher, sceneID, itemID item.ID, committed interact.Offset, pointer interact.Point, zoom float64) *interact.Session {
	return interact.BeginDrag(d, committed, pointer, zoom, func(final interact.Offset) {
		e.Sheet.Apply(style.Rule{
			SceneID: sceneID,
			ItemID:  itemID,
			Left:    final.X,
			Top:     final.Y,
		})
	})
}

// ResizeGroup starts a dimension gesture for a group. The commit writes the
// final width and height directly into the group payload.
func (e *Editor) ResizeGroup(d interact.Dispatcher, groupID item.ID, committed interact.Offset, pointer interact.Point, zoom float64) *interact.Session {
	return interact.BeginResize(d, committed, pointer, zoom, func(final interact.Offset) {
		group, ok := e.server.GetGroup(groupID)
		if !ok {
			return
		}
		group.Width = final.X
		group.Height = final.Y
		e.Writer.WriteNow(item.Batch{{
			Kind:   item.ModifyGroup,
			ItemID: groupID,
			Group:  &group,
		}})
	})
}

func containsID(ids []item.ID, id item.ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
