package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"draw-lab/runtime"
	"draw-lab/sink"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second
	maxFrame   = 256 * 1024
)

// Server owns the WebSocket endpoint. Each connection gets a session bound to
// the gateway, a buffered sink, and a write pump; the read loop feeds frames
// into the dispatch table until the peer goes away.
type Server struct {
	log        *slog.Logger
	gateway    *runtime.Gateway
	upgrader   websocket.Upgrader
	bufferSize int
}

func NewServer(log *slog.Logger, gateway *runtime.Gateway, connectionBufferSize int) *Server {
	return &Server{
		log:     log,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The HTTP edge already applies the CORS policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		bufferSize: connectionBufferSize,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("ws upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	connSink := sink.NewConnSink(s.bufferSize)
	sess := &runtime.Session{ID: uuid.NewString(), Sink: connSink}
	s.log.Info("connection opened", "conn", sess.ID)

	go s.writePump(ctx, conn, connSink)
	s.readLoop(ctx, conn, sess)

	s.gateway.Disconnect(context.WithoutCancel(ctx), sess)
	cancel()
	_ = conn.Close()
	s.log.Info("connection closed", "conn", sess.ID)
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sess *runtime.Session) {
	conn.SetReadLimit(maxFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read failed", "conn", sess.ID, "error", err)
			}
			return
		}
		env, ok := DecodeEnvelope(frame)
		if !ok {
			s.log.Debug("malformed frame dropped", "conn", sess.ID)
			continue
		}
		if _, err := s.gateway.Dispatch(ctx, sess, env.Type, env.Payload); err != nil {
			// Unknown kinds and invalid payloads drop without closing the
			// connection; shared state stays untouched.
			s.log.Debug("event dropped", "conn", sess.ID, "kind", env.Type, "error", err)
		}
	}
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, connSink *sink.ConnSink) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-connSink.Events():
			frame, err := EncodeEvent(evt)
			if err != nil {
				s.log.Error("encode failed", "kind", evt.Kind(), "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Router wires the WebSocket endpoint next to health and metrics.
func Router(s *Server, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	mux.Handle("/metrics", metrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "draw-lab sync server")
	})
	return mux
}
