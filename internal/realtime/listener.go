package realtime

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/logging"
)

// GreetingType marks the first message a viewer receives.
const GreetingType = "hello"

// Message is the JSON pushed to dashboard viewers.
type Message struct {
	Type      string                 `json:"type"`
	At        time.Time              `json:"at"`
	Visitors  dashboard.VisitorStats `json:"visitors"`
	SubjectID string                 `json:"subject_id,omitempty"`
}

// Encode renders ev as a client message.
func Encode(ev dashboard.Event) ([]byte, error) {
	return json.Marshal(Message{
		Type:      string(ev.Kind),
		At:        ev.At,
		Visitors:  ev.Visitors,
		SubjectID: ev.SubjectID,
	})
}

// Greeting returns a hub greeting that reports the current visitor counters.
func Greeting(store *dashboard.Store) func() []byte {
	return func() []byte {
		data, err := json.Marshal(Message{
			Type:     GreetingType,
			At:       time.Now().UTC(),
			Visitors: store.VisitorStats(),
		})
		if err != nil {
			return nil
		}
		return data
	}
}

// Subscribe publishes every store change to hub under the event kind.
func Subscribe(store *dashboard.Store, hub *Hub) {
	store.OnChange(func(ev dashboard.Event) {
		data, err := Encode(ev)
		if err != nil {
			logging.L().Warn("failed to marshal realtime payload", zap.Error(err))
			return
		}
		hub.Publish(string(ev.Kind), data)
	})
}
