package item

import (
	"encoding/json"
	"fmt"
)

// ModKind tags one operation in a modification batch.
type ModKind int

const (
	ModifyItem ModKind = iota
	ModifyEvent
	ModifyStatusPayload
	ModifyScene
	ModifyGroup
	ModifyParameters
	RemoveItem
)

var modTags = map[ModKind]string{
	ModifyItem:          "modifyItem",
	ModifyEvent:         "modifyEvent",
	ModifyStatusPayload: "modifyStatus",
	ModifyScene:         "modifyScene",
	ModifyGroup:         "modifyGroup",
	ModifyParameters:    "modifyParameters",
	RemoveItem:          "removeItem",
}

// Modification is one server-bound edit operation. Exactly one payload field
// matching Kind is meaningful.
type Modification struct {
	Kind ModKind

	ItemPair   *Pair
	ItemID     ID
	Event      *Event
	Status     *Status
	Scene      *Scene
	Group      *Group
	Parameters map[string]string
}

type modifyItemBody struct {
	ItemPair Pair `json:"itemPair"`
}

type modifyEventBody struct {
	ItemID ID    `json:"itemId"`
	Event  Event `json:"event"`
}

type modifyStatusBody struct {
	ItemID ID     `json:"itemId"`
	Status Status `json:"status"`
}

type modifySceneBody struct {
	ItemID ID    `json:"itemId"`
	Scene  Scene `json:"scene"`
}

type modifyGroupBody struct {
	ItemID ID    `json:"itemId"`
	Group  Group `json:"group"`
}

type modifyParametersBody struct {
	Parameters map[string]string `json:"parameters"`
}

type removeItemBody struct {
	ItemID ID `json:"itemId"`
}

// MarshalJSON writes the single-key tagged form the /edit endpoint expects.
func (m Modification) MarshalJSON() ([]byte, error) {
	tag := modTags[m.Kind]
	var body any
	switch m.Kind {
	case ModifyItem:
		if m.ItemPair == nil {
			return nil, fmt.Errorf("modifyItem without an item pair")
		}
		body = modifyItemBody{ItemPair: *m.ItemPair}
	case ModifyEvent:
		if m.Event == nil {
			return nil, fmt.Errorf("modifyEvent without an event")
		}
		body = modifyEventBody{ItemID: m.ItemID, Event: *m.Event}
	case ModifyStatusPayload:
		if m.Status == nil {
			return nil, fmt.Errorf("modifyStatus without a status")
		}
		body = modifyStatusBody{ItemID: m.ItemID, Status: *m.Status}
	case ModifyScene:
		if m.Scene == nil {
			return nil, fmt.Errorf("modifyScene without a scene")
		}
		body = modifySceneBody{ItemID: m.ItemID, Scene: *m.Scene}
	case ModifyGroup:
		if m.Group == nil {
			return nil, fmt.Errorf("modifyGroup without a group")
		}
		body = modifyGroupBody{ItemID: m.ItemID, Group: *m.Group}
	case ModifyParameters:
		body = modifyParametersBody{Parameters: m.Parameters}
	case RemoveItem:
		body = removeItemBody{ItemID: m.ItemID}
	default:
		return nil, fmt.Errorf("invalid modification kind %d", m.Kind)
	}
	return json.Marshal(map[string]any{tag: body})
}

// UnmarshalJSON reads the single-key tagged form. Unknown tags are an error
// here: the client only decodes batches it built itself.
func (m *Modification) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	for kind, tag := range modTags {
		body, ok := probe[tag]
		if !ok {
			continue
		}
		*m = Modification{Kind: kind}
		switch kind {
		case ModifyItem:
			var b modifyItemBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			m.ItemPair = &b.ItemPair
		case ModifyEvent:
			var b modifyEventBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			m.ItemID, m.Event = b.ItemID, &b.Event
		case ModifyStatusPayload:
			var b modifyStatusBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			m.ItemID, m.Status = b.ItemID, &b.Status
		case ModifyScene:
			var b modifySceneBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			m.ItemID, m.Scene = b.ItemID, &b.Scene
		case ModifyGroup:
			var b modifyGroupBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			m.ItemID, m.Group = b.ItemID, &b.Group
		case ModifyParameters:
			var b modifyParametersBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			m.Parameters = b.Parameters
		case RemoveItem:
			var b removeItemBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			m.ItemID = b.ItemID
		}
		return nil
	}
	return fmt.Errorf("unknown modification tag in %s", data)
}

// Batch is an ordered list of modifications sent to the server as one unit.
// The server applies it best-effort; the client never consumes an
// acknowledgement, so consistency is eventual rather than transactional.
type Batch []Modification
