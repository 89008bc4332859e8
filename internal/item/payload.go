package item

import (
	"encoding/json"
	"fmt"
)

// MultiState is the only status kind the client edits: a current state drawn
// from an ordered list of allowed states.
type MultiState struct {
	Current        ID   `json:"current"`
	Allowed        []ID `json:"allowed"`
	NoChangeSilent bool `json:"no_change_silent"`
}

// RemoveState drops the allowed state at index i, returning the new list.
// Out-of-range indexes return the list unchanged.
func (m MultiState) RemoveState(i int) []ID {
	if i < 0 || i >= len(m.Allowed) {
		return m.Allowed
	}
	out := make([]ID, 0, len(m.Allowed)-1)
	out = append(out, m.Allowed[:i]...)
	return append(out, m.Allowed[i+1:]...)
}

// Status is the tagged status payload. Only MultiState is modeled; other
// server status kinds decode to an unknown that re-encodes verbatim.
type Status struct {
	MultiState *MultiState

	Raw json.RawMessage
}

// MarshalJSON writes {"MultiState":{...}} or the retained unknown bytes.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.MultiState != nil {
		return json.Marshal(map[string]*MultiState{"MultiState": s.MultiState})
	}
	if len(s.Raw) == 0 {
		return nil, fmt.Errorf("unknown status with no retained bytes")
	}
	return s.Raw, nil
}

// UnmarshalJSON reads the tagged form, retaining unrecognized kinds.
func (s *Status) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if body, ok := probe["MultiState"]; ok {
		ms := new(MultiState)
		if err := json.Unmarshal(body, ms); err != nil {
			return err
		}
		*s = Status{MultiState: ms}
		return nil
	}
	*s = Status{Raw: append(json.RawMessage(nil), data...)}
	return nil
}

// Scene is a set of member item ids. The wire order is whatever the server
// holds; views sort ascending before rendering.
type Scene struct {
	Events []ID `json:"events"`
}

// Group is a set of member item ids with a visibility flag and a rendered
// size on the canvas.
type Group struct {
	Items  []ID    `json:"items"`
	Hidden bool    `json:"hidden"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Event is an ordered action sequence.
type Event struct {
	Actions []Action `json:"actions"`
}
