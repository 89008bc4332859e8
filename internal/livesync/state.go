// Package livesync maintains the read-only runtime view by merging
// server-pushed frames into a local state record. The channel is receive
// only; runtime commands go out through the api package.
package livesync

import (
	"encoding/json"
	"time"

	"github.com/decode-detroit/minerva-sub000/internal/item"
)

// Settings are the display toggles the server can flip remotely.
type Settings struct {
	Fullscreen   bool `json:"fullscreen"`
	Debug        bool `json:"debug"`
	LargeFont    bool `json:"largeFont"`
	HighContrast bool `json:"highContrast"`
}

// Notice is a transient operator message, timestamped on receipt.
type Notice struct {
	Message string
	At      time.Time
}

// Notification is one entry of the server's notification list.
type Notification struct {
	Message string `json:"message"`
	Time    string `json:"time,omitempty"`
}

// UpcomingEvent is one entry of the server's timeline.
type UpcomingEvent struct {
	Event item.Pair  `json:"event"`
	Delay item.Delay `json:"delay"`
}

// Window is the full set of items composing the runtime window.
type Window struct {
	Items []item.Pair `json:"items"`
}

// State is the runtime view. It is a plain record: frames apply through the
// pure Apply function, and the channel swaps whole states under its lock.
type State struct {
	// Connected drives the connectivity-unavailable overlay.
	Connected bool

	Settings      Settings
	Notice        *Notice
	Window        Window
	Statuses      map[item.ID]item.ID
	Notifications []Notification
	Timeline      []UpcomingEvent
	CurrentScene  item.Pair
	AllItems      []item.Pair

	// RefreshSeq increments on every refreshAll directive; the consuming
	// view reloads everything when it observes a change.
	RefreshSeq uint64
}

type statusDelta struct {
	StatusID item.ID `json:"statusId"`
	NewState item.ID `json:"newState"`
}

type sceneAndStatus struct {
	Scene    item.Pair  `json:"scene"`
	Statuses item.IDMap `json:"statuses"`
}

// Apply merges one server frame into the state and returns the new state
// along with the recognized tag. A frame is a JSON object with exactly one
// recognized top-level tag; frames with no recognized tag return the state
// unchanged and an empty tag, never an error. now supplies the notice
// timestamp.
func Apply(s State, frame []byte, now time.Time) (State, string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(frame, &probe); err != nil {
		return s, "", err
	}

	if body, ok := probe["changeSettings"]; ok {
		var settings Settings
		if err := json.Unmarshal(body, &settings); err != nil {
			return s, "", err
		}
		s.Settings = settings
		return s, "changeSettings", nil
	}

	if body, ok := probe["notify"]; ok {
		var inner struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &inner); err != nil {
			return s, "", err
		}
		s.Notice = &Notice{Message: inner.Message, At: now}
		return s, "notify", nil
	}

	if body, ok := probe["updateConfig"]; ok {
		var inner struct {
			Items []item.Pair `json:"items"`
		}
		if err := json.Unmarshal(body, &inner); err != nil {
			return s, "", err
		}
		s.AllItems = inner.Items
		return s, "updateConfig", nil
	}

	if body, ok := probe["updateWindow"]; ok {
		var inner struct {
			Window Window `json:"window"`
		}
		if err := json.Unmarshal(body, &inner); err != nil {
			return s, "", err
		}
		s.Window = inner.Window
		return s, "updateWindow", nil
	}

	if body, ok := probe["updateStatus"]; ok {
		var delta statusDelta
		if err := json.Unmarshal(body, &delta); err != nil {
			return s, "", err
		}
		statuses := make(map[item.ID]item.ID, len(s.Statuses)+1)
		for k, v := range s.Statuses {
			statuses[k] = v
		}
		statuses[delta.StatusID] = delta.NewState
		s.Statuses = statuses
		return s, "updateStatus", nil
	}

	if body, ok := probe["updateNotifications"]; ok {
		var inner struct {
			Notifications []Notification `json:"notifications"`
		}
		if err := json.Unmarshal(body, &inner); err != nil {
			return s, "", err
		}
		s.Notifications = inner.Notifications
		return s, "updateNotifications", nil
	}

	if body, ok := probe["updateTimeline"]; ok {
		var inner struct {
			Events []UpcomingEvent `json:"events"`
		}
		if err := json.Unmarshal(body, &inner); err != nil {
			return s, "", err
		}
		s.Timeline = inner.Events
		return s, "updateTimeline", nil
	}

	if body, ok := probe["updateScene"]; ok {
		var inner struct {
			Scene item.Pair `json:"scene"`
		}
		if err := json.Unmarshal(body, &inner); err != nil {
			return s, "", err
		}
		s.CurrentScene = inner.Scene
		return s, "updateScene", nil
	}

	if body, ok := probe["currentSceneAndStatus"]; ok {
		var inner sceneAndStatus
		if err := json.Unmarshal(body, &inner); err != nil {
			return s, "", err
		}
		s.CurrentScene = inner.Scene
		statuses := make(map[item.ID]item.ID, len(inner.Statuses))
		for k, v := range inner.Statuses {
			statuses[k] = v
		}
		s.Statuses = statuses
		return s, "currentSceneAndStatus", nil
	}

	if _, ok := probe["refreshAll"]; ok {
		s.RefreshSeq++
		return s, "refreshAll", nil
	}

	return s, "", nil
}
