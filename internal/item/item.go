// Package item holds the client-side model of the show graph: identified
// items, their typed payloads, the action union attached to events, and the
// modification batches sent back to the server.
package item

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ID identifies an item across the whole show. Ids are positive and unique;
// the server never reassigns one.
type ID uint32

// AllocationFloor is the lowest id the client will hand out for new items.
// Ids below it are reserved for the system items shipped with a show file.
const AllocationFloor ID = 1000

// Allocate returns the first unused id at or above the allocation floor.
//
// Allocation is client-side: two editors allocating at the same moment can
// pick the same id, and the server does not arbitrate. The race window is
// accepted for now; routing every allocation through this one function keeps
// the door open for a server-side allocator later.
func Allocate(known map[ID]struct{}) ID {
	id := AllocationFloor
	for {
		if _, taken := known[id]; !taken {
			return id
		}
		id++
	}
}

// Type is the resolved kind of an item. It is fetched separately from the
// item description, so a pair can exist with its type still unresolved.
type Type int

const (
	// TypeUnresolved means the type fetch has not succeeded yet. An item
	// with an unresolved type must not be rendered at all.
	TypeUnresolved Type = iota
	TypeEvent
	TypeStatus
	TypeScene
	TypeGroup
	TypeLabel
	TypeNone
)

var typeNames = map[Type]string{
	TypeEvent:  "event",
	TypeStatus: "status",
	TypeScene:  "scene",
	TypeGroup:  "group",
	TypeLabel:  "label",
	TypeNone:   "none",
}

// ParseType maps a server type string to a Type. Unrecognized strings map
// to TypeUnresolved so the caller retains its previous value.
func ParseType(s string) Type {
	for t, name := range typeNames {
		if name == s {
			return t
		}
	}
	return TypeUnresolved
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unresolved"
}

// MarshalJSON encodes the type as its server string.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a server type string.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseType(s)
	return nil
}

// Position is a canvas-local location in unzoomed pixels.
type Position struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// DisplayKind is the closed set of layout hints an item can carry.
type DisplayKind int

const (
	DisplayControl DisplayKind = iota
	DisplayWith
	DisplayDebug
	LabelControl
	LabelHidden
	DisplayHidden
)

var displayTags = map[DisplayKind]string{
	DisplayControl: "DisplayControl",
	DisplayWith:    "DisplayWith",
	DisplayDebug:   "DisplayDebug",
	LabelControl:   "LabelControl",
	LabelHidden:    "LabelHidden",
	DisplayHidden:  "Hidden",
}

// Display is an item's layout hint, optionally carrying a persisted edit
// position. The wire form is a single-key object tagged by the variant name.
type Display struct {
	Kind    DisplayKind
	EditPos *Position
}

type displayBody struct {
	EditLocation *Position `json:"edit_location,omitempty"`
}

// MarshalJSON writes the single-key tagged form, e.g.
// {"DisplayWith":{"edit_location":{"left":120,"top":80}}}.
func (d Display) MarshalJSON() ([]byte, error) {
	tag, ok := displayTags[d.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown display kind %d", d.Kind)
	}
	return json.Marshal(map[string]displayBody{tag: {EditLocation: d.EditPos}})
}

// UnmarshalJSON reads the single-key tagged form. An unrecognized tag decodes
// to a hidden display rather than an error so a newer server cannot wedge an
// older client.
func (d *Display) UnmarshalJSON(data []byte) error {
	var raw map[string]displayBody
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for kind, tag := range displayTags {
		if body, ok := raw[tag]; ok {
			d.Kind = kind
			d.EditPos = body.EditLocation
			return nil
		}
	}
	d.Kind = DisplayHidden
	d.EditPos = nil
	return nil
}

// Pair is an item's description and layout hint. The type lives apart from
// the pair: it resolves through its own fetch.
type Pair struct {
	ID          ID      `json:"id"`
	Description string  `json:"description"`
	Display     Display `json:"display"`
}

// Delay is a coarse duration in the server's wire form.
type Delay struct {
	Secs  uint64 `json:"secs"`
	Nanos uint32 `json:"nanos"`
}

// SortedIDs returns the ids of a member set in ascending order, for display.
// Insertion order is not preserved across reloads, so views always sort.
func SortedIDs(members []ID) []ID {
	out := make([]ID, len(members))
	copy(out, members)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
