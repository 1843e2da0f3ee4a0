package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"draw-lab/domain/event"
	"draw-lab/observability"
	"draw-lab/runtime"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := runtime.NewGateway(log, runtime.NewRooms(), runtime.NewRegistry())
	server := NewServer(log, gateway, 64)
	ts := httptest.NewServer(Router(server, observability.Handler()))
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func send(t *testing.T, conn *websocket.Conn, kind string, payload any) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = b
	}
	require.NoError(t, conn.WriteJSON(Envelope{Type: kind, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestServer_JoinRoundTrip(t *testing.T) {
	req := require.New(t)
	url := startTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)
	defer conn.Close()

	// When joining over the wire
	send(t, conn, "join", map[string]string{"name": "alice"})

	// Then the init snapshot comes back on the same connection
	env := receive(t, conn)
	req.Equal("init", env.Type)
	var init event.Init
	req.NoError(json.Unmarshal(env.Payload, &init))
	req.Equal("alice", init.User.Name)
	req.Len(init.Users, 1)
}

func TestServer_FanoutBetweenConnections(t *testing.T) {
	req := require.New(t)
	url := startTestServer(t)

	alice, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)
	defer alice.Close()
	send(t, alice, "join", map[string]string{"name": "alice"})
	req.Equal("init", receive(t, alice).Type)

	bob, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)
	defer bob.Close()
	send(t, bob, "join", map[string]string{"name": "bob"})
	req.Equal("init", receive(t, bob).Type)
	req.Equal("user:joined", receive(t, alice).Type)

	// When bob draws a full stroke
	send(t, bob, "stroke:start", map[string]any{"strokeId": "s1", "tool": "pen", "color": "#fff", "size": 2})
	send(t, bob, "stroke:points", map[string]any{"strokeId": "s1", "points": []map[string]float64{{"x": 1, "y": 1}}})
	send(t, bob, "stroke:end", map[string]any{"strokeId": "s1"})

	// Then alice sees the whole lifecycle and bob only the commit
	req.Equal("stroke:start", receive(t, alice).Type)
	req.Equal("stroke:points", receive(t, alice).Type)
	req.Equal("stroke:commit", receive(t, alice).Type)
	req.Equal("stroke:commit", receive(t, bob).Type)
}

func TestServer_MalformedFrameKeepsConnectionAlive(t *testing.T) {
	req := require.New(t)
	url := startTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)
	defer conn.Close()

	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	send(t, conn, "ping", map[string]int64{"ts": 7})

	env := receive(t, conn)
	req.Equal("pong", env.Type)
	var pong event.Pong
	req.NoError(json.Unmarshal(env.Payload, &pong))
	req.Equal(int64(7), pong.TS)
}
