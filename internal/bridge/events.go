package bridge

import (
	"time"

	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// Event is a JSON message pushed to every connected client when the
// processor reports a state change
type Event struct {
	Type      string    `json:"type"` // always "update"
	Kind      string    `json:"kind"`
	Fields    []string  `json:"fields,omitempty"`
	Raw       string    `json:"raw"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent converts a state update into the wire event
func NewEvent(update protocol.StateUpdate) Event {
	return Event{
		Type:      "update",
		Kind:      string(update.Kind),
		Fields:    update.Fields,
		Raw:       update.Raw,
		Timestamp: time.Now(),
	}
}

// CommandRequest is a client-submitted protocol command. ID is echoed
// back in the response so clients can correlate.
type CommandRequest struct {
	ID      string `json:"id,omitempty"`
	Command string `json:"command"`
	Wait    bool   `json:"wait"`
}

// CommandResponse is the reply to a CommandRequest
type CommandResponse struct {
	Type  string `json:"type"` // always "response"
	ID    string `json:"id,omitempty"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}
