package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"draw-lab/domain/event"
)

func TestDecodeEnvelope(t *testing.T) {
	req := require.New(t)

	// A well-formed frame keeps its raw payload for the dispatch table
	env, ok := DecodeEnvelope([]byte(`{"type":"stroke:end","payload":{"strokeId":"s1"}}`))
	req.True(ok)
	req.Equal("stroke:end", env.Type)
	req.JSONEq(`{"strokeId":"s1"}`, string(env.Payload))

	// A payload-less frame is fine, bare events carry none
	env, ok = DecodeEnvelope([]byte(`{"type":"undo"}`))
	req.True(ok)
	req.Equal("undo", env.Type)
	req.Empty(env.Payload)

	// Garbage and untyped frames are structurally invalid
	_, ok = DecodeEnvelope([]byte(`not json`))
	req.False(ok)
	_, ok = DecodeEnvelope([]byte(`{"payload":{}}`))
	req.False(ok)
}

func TestEncodeEvent(t *testing.T) {
	req := require.New(t)

	frame, err := EncodeEvent(event.StrokeUndone{StrokeID: "s1"})
	req.NoError(err)

	var env Envelope
	req.NoError(json.Unmarshal(frame, &env))
	req.Equal("stroke:undo", env.Type)
	req.JSONEq(`{"strokeId":"s1"}`, string(env.Payload))
}

func TestEncodeEvent_CursorCarriesIdentity(t *testing.T) {
	req := require.New(t)

	frame, err := EncodeEvent(event.Cursor{UserID: "u1", X: 1, Y: 2, Color: "#fff", Name: "alice"})
	req.NoError(err)

	var env Envelope
	req.NoError(json.Unmarshal(frame, &env))
	req.Equal("cursor", env.Type)

	var payload event.Cursor
	req.NoError(json.Unmarshal(env.Payload, &payload))
	req.Equal("alice", payload.Name)
	req.Equal(1.0, payload.X)
}
