// Package member edits the member lists of scenes and groups. The server
// has no incremental add or remove: every change replaces the whole list.
package member

import (
	"github.com/decode-detroit/minerva-sub000/internal/item"
	"github.com/decode-detroit/minerva-sub000/internal/style"
)

// Kind selects which container type an operation targets.
type Kind int

const (
	KindScene Kind = iota
	KindGroup
)

// Server is the surface membership edits need. *api.Client satisfies it.
type Server interface {
	GetScene(id item.ID) (item.Scene, bool)
	GetGroup(id item.ID) (item.Group, bool)
	Edit(batch item.Batch)
}

// Ops performs membership edits against one server, persisting drop
// positions through the shared style sheet.
type Ops struct {
	server Server
	sheet  *style.Sheet
}

// NewOps creates membership operations over server and sheet.
func NewOps(server Server, sheet *style.Sheet) *Ops {
	return &Ops{server: server, sheet: sheet}
}

// Members returns the container's current member list with the container's
// own id filtered out. The filter is a rendering-time guard only: the server
// copy is left as-is, and the write path never re-adds the id.
func (o *Ops) Members(containerID item.ID, kind Kind) ([]item.ID, bool) {
	var members []item.ID
	switch kind {
	case KindScene:
		scene, ok := o.server.GetScene(containerID)
		if !ok {
			return nil, false
		}
		members = scene.Events
	case KindGroup:
		group, ok := o.server.GetGroup(containerID)
		if !ok {
			return nil, false
		}
		members = group.Items
	default:
		return nil, false
	}
	return excludeSelf(members, containerID), true
}

// Add appends memberID to the container and replaces the remote list.
// Adding an existing member is a no-op, so Add is idempotent.
func (o *Ops) Add(containerID, memberID item.ID, kind Kind) {
	switch kind {
	case KindScene:
		scene, ok := o.server.GetScene(containerID)
		if !ok || contains(scene.Events, memberID) {
			return
		}
		scene.Events = append(scene.Events, memberID)
		o.replaceScene(containerID, scene)
	case KindGroup:
		group, ok := o.server.GetGroup(containerID)
		if !ok || contains(group.Items, memberID) {
			return
		}
		group.Items = append(group.Items, memberID)
		o.replaceGroup(containerID, group)
	}
}

// Remove filters memberID out of the container and replaces the remote
// list. Removing an absent member is a no-op.
func (o *Ops) Remove(containerID, memberID item.ID, kind Kind) {
	switch kind {
	case KindScene:
		scene, ok := o.server.GetScene(containerID)
		if !ok || !contains(scene.Events, memberID) {
			return
		}
		scene.Events = without(scene.Events, memberID)
		o.replaceScene(containerID, scene)
	case KindGroup:
		group, ok := o.server.GetGroup(containerID)
		if !ok || !contains(group.Items, memberID) {
			return
		}
		group.Items = without(group.Items, memberID)
		o.replaceGroup(containerID, group)
	}
}

// AddAt adds memberID at a screen drop point, persisting the canvas-local
// position through the style side-channel as part of the same logical
// operation.
func (o *Ops) AddAt(containerID, memberID item.ID, kind Kind, sx, sy, zoom, panX, panY float64) {
	o.Add(containerID, memberID, kind)

	pos := DropPosition(sx, sy, zoom, panX, panY)
	o.sheet.Apply(style.Rule{
		SceneID: containerID,
		ItemID:  memberID,
		Left:    pos.Left,
		Top:     pos.Top,
	})
}

// DropPosition converts a screen point into the canvas-local position that
// is persisted: the screen point unzoomed, then unpanned.
func DropPosition(sx, sy, zoom, panX, panY float64) item.Position {
	return item.Position{
		Left: (sx / zoom) - panX,
		Top:  (sy / zoom) - panY,
	}
}

func (o *Ops) replaceScene(id item.ID, scene item.Scene) {
	o.server.Edit(item.Batch{{
		Kind:   item.ModifyScene,
		ItemID: id,
		Scene:  &scene,
	}})
}

func (o *Ops) replaceGroup(id item.ID, group item.Group) {
	o.server.Edit(item.Batch{{
		Kind:   item.ModifyGroup,
		ItemID: id,
		Group:  &group,
	}})
}

func contains(ids []item.ID, id item.ID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func without(ids []item.ID, id item.ID) []item.ID {
	out := make([]item.ID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func excludeSelf(ids []item.ID, self item.ID) []item.ID {
	return without(ids, self)
}
