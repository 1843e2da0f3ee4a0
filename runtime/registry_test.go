package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"draw-lab/domain"
	"draw-lab/domain/event"
)

type Sink struct {
	id string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	roomID := domain.RoomID("main")
	sink := Sink{id: "a"}

	// Given no user is connected
	// And no room exists
	req.Empty(registry.sessions)
	req.Empty(registry.roomMembers)

	// When a participant subscribes a room
	registry.Subscribe(participantID, roomID, sink)

	// Then
	req.Len(registry.sessions, 1)
	req.Equal(sink, registry.sessions[participantID])

	req.Len(registry.roomMembers, 1)
	req.Contains(registry.roomMembers[roomID], participantID)

	req.Len(registry.SinksForRoom(roomID), 1)
	req.Contains(registry.SinksForRoom(roomID), sink)
}

func TestRegistry_Subscribe_One_Room_Multiple_Participants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID1 := uuid.NewString()
	participantID2 := uuid.NewString()
	roomID := domain.RoomID("main")
	sink1 := Sink{id: "a"}
	sink2 := Sink{id: "b"}

	// When participants subscribe a room
	registry.Subscribe(participantID1, roomID, sink1)
	registry.Subscribe(participantID2, roomID, sink2)

	// Then
	req.Len(registry.sessions, 2)
	req.Len(registry.roomMembers[roomID], 2)

	req.Len(registry.SinksForRoom(roomID), 2)
	req.Contains(registry.SinksForRoom(roomID), sink1)
}

func TestRegistry_SinksForRoomExcept_SkipsSender(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	roomID := domain.RoomID("main")
	sink1 := Sink{id: "a"}
	sink2 := Sink{id: "b"}

	// Given two members of the same room
	registry.Subscribe("u1", roomID, sink1)
	registry.Subscribe("u2", roomID, sink2)

	// When asking for everyone but u1
	sinks := registry.SinksForRoomExcept(roomID, "u1")

	// Then only u2's sink remains
	req.Len(sinks, 1)
	req.Contains(sinks, sink2)
}

func TestRegistry_UnSubscribe_One_Room_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	roomID := domain.RoomID("main")
	sink := Sink{id: "a"}

	// Given a participant subscribes a room
	registry.Subscribe(participantID, roomID, sink)

	// When a participant unsubscribe a room
	registry.Unsubscribe(participantID, roomID)

	// Then no participant left
	// And the room doesn't exist anymore
	req.Empty(registry.sessions)
	req.Empty(registry.roomMembers)

	// And no participant connected left in room
	req.Nil(registry.SinksForRoom(roomID))
}

func TestRegistry_UnSubscribe_One_Room_Multiple_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID1 := uuid.NewString()
	participantID2 := uuid.NewString()
	roomID := domain.RoomID("main")
	sink1 := Sink{id: "a"}
	sink2 := Sink{id: "b"}

	// When participants subscribe a room
	registry.Subscribe(participantID1, roomID, sink1)
	registry.Subscribe(participantID2, roomID, sink2)

	// When a participant unsubscribe a room
	registry.Unsubscribe(participantID1, roomID)

	// Then only one participant left
	req.Len(registry.sessions, 1)
	req.Len(registry.roomMembers[roomID], 1)

	req.Len(registry.SinksForRoom(roomID), 1)
	req.Contains(registry.SinksForRoom(roomID), sink2)
}
