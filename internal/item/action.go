package item

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ActionKind tags the ten operations an event can carry.
type ActionKind int

const (
	// ActionUnknown is the explicit fallback for wire tags this client does
	// not recognize. The raw frame is retained and re-encoded verbatim.
	ActionUnknown ActionKind = iota
	KindNewScene
	KindModifyStatus
	KindCueDmx
	KindCueEvent
	KindCueMedia
	KindAdjustMedia
	KindCancelEvent
	KindSaveData
	KindSendData
	KindSelectEvent
)

// NewScene switches the show to another scene.
type NewScene struct {
	NewScene ID `json:"new_scene"`
}

// ModifyStatus sets a status to a new state.
type ModifyStatus struct {
	StatusID ID `json:"status_id"`
	NewState ID `json:"new_state"`
}

// DmxFade drives one DMX channel toward a value, optionally over time.
type DmxFade struct {
	Channel  uint16 `json:"channel"`
	Value    uint8  `json:"value"`
	Duration *Delay `json:"duration,omitempty"`
}

// CueDmx queues a DMX fade.
type CueDmx struct {
	Fade DmxFade `json:"fade"`
}

// EventDelay cues another event, optionally after a delay.
type EventDelay struct {
	EventID ID     `json:"event_id"`
	Delay   *Delay `json:"delay,omitempty"`
}

// CueEvent queues another event.
type CueEvent struct {
	Event EventDelay `json:"event"`
}

// MediaCue starts media playback on a channel.
type MediaCue struct {
	Channel   uint32  `json:"channel"`
	URI       string  `json:"uri"`
	LoopMedia *string `json:"loop_media,omitempty"`
}

// CueMedia queues a media cue.
type CueMedia struct {
	Cue MediaCue `json:"cue"`
}

// MediaAdjustment nudges a playing media channel.
type MediaAdjustment struct {
	Channel   uint32 `json:"channel"`
	Direction string `json:"direction"`
}

// AdjustMedia adjusts a media channel.
type AdjustMedia struct {
	Adjustment MediaAdjustment `json:"adjustment"`
}

// CancelEvent removes a queued event.
type CancelEvent struct {
	Event ID `json:"event"`
}

// SaveData stores a piece of game data on the server.
type SaveData struct {
	Data DataType `json:"data"`
}

// SendData forwards a piece of game data to the connected systems.
type SendData struct {
	Data DataType `json:"data"`
}

// SelectEvent cues one of several events keyed by the current state of a
// status.
type SelectEvent struct {
	StatusID ID    `json:"status_id"`
	EventMap IDMap `json:"event_map"`
}

// Action is one entry in an event's ordered action list. Exactly one of the
// kind pointers is set, matching Kind; for ActionUnknown the original wire
// bytes are kept in Raw.
type Action struct {
	Kind ActionKind

	NewScene     *NewScene
	ModifyStatus *ModifyStatus
	CueDmx       *CueDmx
	CueEvent     *CueEvent
	CueMedia     *CueMedia
	AdjustMedia  *AdjustMedia
	CancelEvent  *CancelEvent
	SaveData     *SaveData
	SendData     *SendData
	SelectEvent  *SelectEvent

	Raw json.RawMessage
}

var actionTags = map[ActionKind]string{
	KindNewScene:     "NewScene",
	KindModifyStatus: "ModifyStatus",
	KindCueDmx:       "CueDmx",
	KindCueEvent:     "CueEvent",
	KindCueMedia:     "CueMedia",
	KindAdjustMedia:  "AdjustMedia",
	KindCancelEvent:  "CancelEvent",
	KindSaveData:     "SaveData",
	KindSendData:     "SendData",
	KindSelectEvent:  "SelectEvent",
}

// MarshalJSON writes the single-key tagged form, e.g.
// {"CueEvent":{"event":{"event_id":12}}}. Unknown actions re-encode their
// retained wire bytes unchanged.
func (a Action) MarshalJSON() ([]byte, error) {
	var body any
	switch a.Kind {
	case KindNewScene:
		body = a.NewScene
	case KindModifyStatus:
		body = a.ModifyStatus
	case KindCueDmx:
		body = a.CueDmx
	case KindCueEvent:
		body = a.CueEvent
	case KindCueMedia:
		body = a.CueMedia
	case KindAdjustMedia:
		body = a.AdjustMedia
	case KindCancelEvent:
		body = a.CancelEvent
	case KindSaveData:
		body = a.SaveData
	case KindSendData:
		body = a.SendData
	case KindSelectEvent:
		body = a.SelectEvent
	case ActionUnknown:
		if len(a.Raw) == 0 {
			return nil, fmt.Errorf("unknown action with no retained bytes")
		}
		return a.Raw, nil
	default:
		return nil, fmt.Errorf("invalid action kind %d", a.Kind)
	}
	return json.Marshal(map[string]any{actionTags[a.Kind]: body})
}

// UnmarshalJSON probes the single wire tag against the ten known kinds and
// falls back to ActionUnknown, retaining the raw bytes.
func (a *Action) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	decode := func(body json.RawMessage, dst any) error {
		return json.Unmarshal(body, dst)
	}

	for kind, tag := range actionTags {
		body, ok := probe[tag]
		if !ok {
			continue
		}
		*a = Action{Kind: kind}
		switch kind {
		case KindNewScene:
			a.NewScene = new(NewScene)
			return decode(body, a.NewScene)
		case KindModifyStatus:
			a.ModifyStatus = new(ModifyStatus)
			return decode(body, a.ModifyStatus)
		case KindCueDmx:
			a.CueDmx = new(CueDmx)
			return decode(body, a.CueDmx)
		case KindCueEvent:
			a.CueEvent = new(CueEvent)
			return decode(body, a.CueEvent)
		case KindCueMedia:
			a.CueMedia = new(CueMedia)
			return decode(body, a.CueMedia)
		case KindAdjustMedia:
			a.AdjustMedia = new(AdjustMedia)
			return decode(body, a.AdjustMedia)
		case KindCancelEvent:
			a.CancelEvent = new(CancelEvent)
			return decode(body, a.CancelEvent)
		case KindSaveData:
			a.SaveData = new(SaveData)
			return decode(body, a.SaveData)
		case KindSendData:
			a.SendData = new(SendData)
			return decode(body, a.SendData)
		case KindSelectEvent:
			a.SelectEvent = new(SelectEvent)
			return decode(body, a.SelectEvent)
		}
	}

	*a = Action{Kind: ActionUnknown, Raw: append(json.RawMessage(nil), data...)}
	return nil
}

// ReferencedIDs returns the item ids this action points at. The references
// across all actions form a directed graph that may contain cycles; nothing
// here forbids them.
func (a Action) ReferencedIDs() []ID {
	switch a.Kind {
	case KindNewScene:
		return []ID{a.NewScene.NewScene}
	case KindModifyStatus:
		return []ID{a.ModifyStatus.StatusID, a.ModifyStatus.NewState}
	case KindCueEvent:
		return []ID{a.CueEvent.Event.EventID}
	case KindCancelEvent:
		return []ID{a.CancelEvent.Event}
	case KindSaveData:
		return a.SaveData.Data.ReferencedIDs()
	case KindSendData:
		return a.SendData.Data.ReferencedIDs()
	case KindSelectEvent:
		ids := []ID{a.SelectEvent.StatusID}
		for state, event := range a.SelectEvent.EventMap {
			ids = append(ids, state, event)
		}
		return SortedIDs(ids)
	}
	return nil
}

// IDMap is a state-to-event map with string wire keys, as JSON objects
// cannot carry numeric keys.
type IDMap map[ID]ID

// MarshalJSON writes keys as decimal strings in ascending key order.
func (m IDMap) MarshalJSON() ([]byte, error) {
	keys := make([]ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make(map[string]ID, len(m))
	for _, k := range keys {
		out[strconv.FormatUint(uint64(k), 10)] = m[k]
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads decimal string keys.
func (m *IDMap) UnmarshalJSON(data []byte) error {
	var raw map[string]ID
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(IDMap, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid id key %q: %w", k, err)
		}
		out[ID(id)] = v
	}
	*m = out
	return nil
}

// DataKind tags the small data union carried by SaveData and SendData.
type DataKind int

const (
	DataUnknown DataKind = iota
	DataStaticString
	DataUserString
	DataTimeUntil
	DataTimeLeft
)

// DataType is a piece of game data: a fixed string, a string asked of the
// operator, or a time readout derived from a queued event.
type DataType struct {
	Kind DataKind

	StaticString string
	EventID      ID

	Raw json.RawMessage
}

// MarshalJSON writes the single-key tagged form.
func (d DataType) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DataStaticString:
		return json.Marshal(map[string]any{"StaticString": map[string]string{"string": d.StaticString}})
	case DataUserString:
		return json.Marshal("UserString")
	case DataTimeUntil:
		return json.Marshal(map[string]any{"TimeUntil": map[string]ID{"event_id": d.EventID}})
	case DataTimeLeft:
		return json.Marshal(map[string]any{"TimeLeft": map[string]ID{"event_id": d.EventID}})
	case DataUnknown:
		if len(d.Raw) == 0 {
			return nil, fmt.Errorf("unknown data with no retained bytes")
		}
		return d.Raw, nil
	}
	return nil, fmt.Errorf("invalid data kind %d", d.Kind)
}

// UnmarshalJSON reads the single-key tagged form, falling back to
// DataUnknown with retained bytes.
func (d *DataType) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag == "UserString" {
			*d = DataType{Kind: DataUserString}
			return nil
		}
		*d = DataType{Kind: DataUnknown, Raw: append(json.RawMessage(nil), data...)}
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if body, ok := probe["StaticString"]; ok {
		var inner struct {
			String string `json:"string"`
		}
		if err := json.Unmarshal(body, &inner); err != nil {
			return err
		}
		*d = DataType{Kind: DataStaticString, StaticString: inner.String}
		return nil
	}
	for tag, kind := range map[string]DataKind{"TimeUntil": DataTimeUntil, "TimeLeft": DataTimeLeft} {
		if body, ok := probe[tag]; ok {
			var inner struct {
				EventID ID `json:"event_id"`
			}
			if err := json.Unmarshal(body, &inner); err != nil {
				return err
			}
			*d = DataType{Kind: kind, EventID: inner.EventID}
			return nil
		}
	}
	*d = DataType{Kind: DataUnknown, Raw: append(json.RawMessage(nil), data...)}
	return nil
}

// ReferencedIDs returns the event id for time readouts, nil otherwise.
func (d DataType) ReferencedIDs() []ID {
	switch d.Kind {
	case DataTimeUntil, DataTimeLeft:
		return []ID{d.EventID}
	}
	return nil
}
