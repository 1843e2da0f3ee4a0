package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"draw-lab/contract"
	"draw-lab/domain"
	"draw-lab/domain/draw"
	"draw-lab/domain/event"
	"draw-lab/errors"
	"draw-lab/observability"
)

const defaultRoom = "main"

// Audience selects which subscriber set of the session's room (or the
// instruction's overriding room) receives an event.
type Audience int

const (
	AudienceSender Audience = iota // the originating connection only
	AudienceOthers                 // every room member except the sender
	AudienceAll                    // every room member including the sender
)

// Instruction is one declarative fan-out step produced by a handler.
// Room overrides the session's current room, which only happens when a room
// switch notifies the room being left.
type Instruction struct {
	Audience Audience
	Room     domain.RoomID
	Event    event.DomainEvent
}

// Session is the per-connection binding maintained by the gateway:
// Unjoined (nil Room/User) until the first successful join, then Joined, with
// room switches rebinding in place.
type Session struct {
	ID   string
	Room *domain.Room
	User *domain.Presence
	Sink contract.EventSink
}

func (s *Session) joined() bool { return s.Room != nil && s.User != nil }

type handlerFunc func(sess *Session, payload json.RawMessage) ([]Instruction, error)

// Gateway translates inbound client events into room mutations and decides
// which connections receive which outbound events. Fan-out policy lives in the
// instructions each handler returns, so it is testable without a transport.
type Gateway struct {
	log      *slog.Logger
	rooms    contract.IRooms
	registry contract.IRegistry
	validate *validator.Validate
	handlers map[string]handlerFunc
}

func NewGateway(log *slog.Logger, rooms contract.IRooms, registry contract.IRegistry) *Gateway {
	g := &Gateway{
		log:      log,
		rooms:    rooms,
		registry: registry,
		validate: validator.New(),
	}
	g.handlers = map[string]handlerFunc{
		"join":          g.handleJoin,
		"stroke:start":  g.handleStrokeStart,
		"stroke:points": g.handleStrokePoints,
		"stroke:end":    g.handleStrokeEnd,
		"undo":          g.handleUndo,
		"redo":          g.handleRedo,
		"cursor:move":   g.handleCursorMove,
		"ping":          g.handlePing,
	}
	return g
}

// Dispatch routes one inbound event through the dispatch table, applies the
// mutation, and fans the resulting instructions out. The returned instructions
// describe what was delivered. Per the protocol's permissive error model,
// ignorable situations (unknown stroke, empty undo history, not yet joined)
// produce no instructions and no error; only structural problems surface.
func (g *Gateway) Dispatch(ctx context.Context, sess *Session, kind string, payload json.RawMessage) ([]Instruction, error) {
	handler, ok := g.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownEvent, kind)
	}
	observability.IncEvent(kind)

	instructions, err := handler(sess, payload)
	if err != nil {
		return nil, err
	}
	g.fanOut(ctx, sess, instructions)
	return instructions, nil
}

// Disconnect tears down a session: presence removed, in-progress strokes
// dropped, departure fanned out to the remaining members.
func (g *Gateway) Disconnect(ctx context.Context, sess *Session) {
	if !sess.joined() {
		return
	}
	room, user := sess.Room, sess.User
	room.Leave(user.ID)
	g.registry.Unsubscribe(user.ID, room.ID)
	sess.Room, sess.User = nil, nil

	g.fanOut(ctx, sess, []Instruction{
		{Audience: AudienceAll, Room: room.ID, Event: event.UserLeft{UserID: user.ID}},
	})
	observability.AddConnectedUsers(-1)
}

func (g *Gateway) handleJoin(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	cmd, err := decode[draw.JoinCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	roomID := domain.RoomID(strings.TrimSpace(cmd.Room))
	if roomID == "" {
		roomID = defaultRoom
	}
	target := g.rooms.Ensure(roomID)

	var instructions []Instruction
	if sess.joined() {
		if sess.Room.ID == roomID {
			// Same room: re-confirm membership with a fresh snapshot, no churn.
			return []Instruction{
				{Audience: AudienceSender, Event: event.Init{
					User:    *sess.User,
					Users:   sess.Room.Users(),
					Strokes: sess.Room.Strokes(),
				}},
			}, nil
		}
		old, user := sess.Room, sess.User
		old.Leave(user.ID)
		g.registry.Unsubscribe(user.ID, old.ID)
		instructions = append(instructions, Instruction{
			Audience: AudienceAll, Room: old.ID,
			Event: event.UserLeft{UserID: user.ID},
		})
	} else {
		observability.AddConnectedUsers(1)
	}

	user, users, strokes := target.Join(sess.ID, cmd.Name)
	g.registry.Subscribe(user.ID, target.ID, sess.Sink)
	sess.Room, sess.User = target, &user
	observability.SetRooms(g.rooms.Count())

	instructions = append(instructions,
		Instruction{Audience: AudienceSender, Event: event.Init{User: user, Users: users, Strokes: strokes}},
		Instruction{Audience: AudienceOthers, Event: event.UserJoined{Presence: user}},
	)
	return instructions, nil
}

func (g *Gateway) handleStrokeStart(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	if !sess.joined() {
		return nil, nil
	}
	cmd, err := decode[draw.StrokeStartCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	stroke, err := sess.Room.StartStroke(cmd.StrokeID, sess.User.ID, cmd.Tool, cmd.Color, cmd.Size,
		domain.StrokeExtras{Text: cmd.Text, Src: cmd.Src})
	if err != nil {
		// Colliding ids keep the first in-progress stroke; the late start drops.
		g.log.Debug("stroke start rejected", "strokeId", cmd.StrokeID, "error", err)
		return nil, nil
	}
	// Receivers only need the descriptor, never the (empty) initial points.
	stroke.Points = []domain.Point{}
	return []Instruction{
		{Audience: AudienceOthers, Event: event.StrokeStarted{Stroke: stroke}},
	}, nil
}

func (g *Gateway) handleStrokePoints(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	if !sess.joined() {
		return nil, nil
	}
	cmd, err := decode[draw.StrokePointsCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	// A batch for an unknown or already-finalized stroke does not mutate the
	// log, but the raw batch still echoes so live renderers stay consistent
	// with their own reduction.
	sess.Room.AddPoints(cmd.StrokeID, cmd.Points)
	return []Instruction{
		{Audience: AudienceOthers, Event: event.StrokePoints{
			StrokeID: cmd.StrokeID,
			UserID:   sess.User.ID,
			Points:   cmd.Points,
		}},
	}, nil
}

func (g *Gateway) handleStrokeEnd(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	if !sess.joined() {
		return nil, nil
	}
	cmd, err := decode[draw.StrokeEndCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	stroke := sess.Room.CommitStroke(cmd.StrokeID)
	if stroke == nil {
		return nil, nil
	}
	observability.IncCommitted()
	// Commit content is authoritative, so the sender receives it too.
	return []Instruction{
		{Audience: AudienceAll, Event: event.StrokeCommitted{Stroke: *stroke}},
	}, nil
}

func (g *Gateway) handleUndo(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	if !sess.joined() {
		return nil, nil
	}
	cmd, err := decode[draw.UndoCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	stroke := sess.Room.Undo(cmd.Tool)
	if stroke == nil {
		return nil, nil
	}
	return []Instruction{
		{Audience: AudienceAll, Event: event.StrokeUndone{StrokeID: stroke.ID}},
	}, nil
}

func (g *Gateway) handleRedo(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	if !sess.joined() {
		return nil, nil
	}
	cmd, err := decode[draw.RedoCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	stroke := sess.Room.Redo(cmd.Tool)
	if stroke == nil {
		return nil, nil
	}
	// Receivers never saw the undone content leave with a payload, so the
	// full stroke travels back.
	return []Instruction{
		{Audience: AudienceAll, Event: event.StrokeRedone{Stroke: *stroke}},
	}, nil
}

func (g *Gateway) handleCursorMove(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	if !sess.joined() {
		return nil, nil
	}
	cmd, err := decode[draw.CursorMoveCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	return []Instruction{
		{Audience: AudienceOthers, Event: event.Cursor{
			UserID: sess.User.ID,
			X:      cmd.X,
			Y:      cmd.Y,
			Color:  sess.User.Color,
			Name:   sess.User.Name,
		}},
	}, nil
}

func (g *Gateway) handlePing(sess *Session, payload json.RawMessage) ([]Instruction, error) {
	cmd, err := decode[draw.PingCommand](g.validate, payload)
	if err != nil {
		return nil, err
	}
	return []Instruction{
		{Audience: AudienceSender, Event: event.Pong{TS: cmd.TS}},
	}, nil
}

// fanOut delivers instructions in order. Delivery is fire-and-forget: a slow
// or gone subscriber loses the event, it never blocks the room.
func (g *Gateway) fanOut(ctx context.Context, sess *Session, instructions []Instruction) {
	for _, ins := range instructions {
		for _, sink := range g.resolve(sess, ins) {
			if err := sink.Consume(ctx, ins.Event); err != nil {
				observability.IncDropped()
				g.log.Debug("event delivery dropped", "kind", ins.Event.Kind(), "error", err)
			}
		}
	}
}

func (g *Gateway) resolve(sess *Session, ins Instruction) []contract.EventSink {
	if ins.Audience == AudienceSender {
		if sess.Sink == nil {
			return nil
		}
		return []contract.EventSink{sess.Sink}
	}
	roomID := ins.Room
	if roomID == "" && sess.Room != nil {
		roomID = sess.Room.ID
	}
	if roomID == "" {
		return nil
	}
	if ins.Audience == AudienceOthers && sess.User != nil {
		return g.registry.SinksForRoomExcept(roomID, sess.User.ID)
	}
	return g.registry.SinksForRoom(roomID)
}

// decode unmarshals and validates an envelope payload. A missing payload
// decodes to the command's zero value so bare events like undo stay legal.
func decode[T any](validate *validator.Validate, payload json.RawMessage) (T, error) {
	var cmd T
	if len(payload) == 0 {
		return cmd, nil
	}
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return cmd, fmt.Errorf("malformed payload: %w", err)
	}
	if err := validate.Struct(cmd); err != nil {
		return cmd, fmt.Errorf("invalid payload: %w", err)
	}
	return cmd, nil
}
