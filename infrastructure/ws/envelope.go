// Package ws carries the sync protocol over WebSocket using a JSON envelope.
// The envelope type names the event kind; the payload is the command or event
// body. The core never sees transport types.
package ws

import (
	"encoding/json"

	"draw-lab/domain/event"
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeEnvelope parses one inbound frame. A frame without a type is
// structurally invalid and gets dropped by the caller.
func DecodeEnvelope(frame []byte) (Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, false
	}
	if env.Type == "" {
		return Envelope{}, false
	}
	return env, true
}

// EncodeEvent wraps an outbound event into its wire envelope.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: e.Kind(), Payload: payload})
}
