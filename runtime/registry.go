// Package runtime handles session registration, room lookup, and event fan-out.
// It orchestrates the system without containing domain rules.
package runtime

import (
	"sync"

	"draw-lab/contract"
	"draw-lab/domain"
)

type Set map[string]struct{}

type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]contract.EventSink // map participant -> Sink
	roomMembers map[domain.RoomID]Set         // map room to users
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]contract.EventSink),
		roomMembers: make(map[domain.RoomID]Set),
	}
}

// Subscribe registers a participant's active connection and assigns them to a
// specific room. If the room does not yet exist in the registry, it is
// initialized on the fly.
func (r *Registry) Subscribe(participantID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[participantID] = sink

	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][participantID] = struct{}{}
}

// Unsubscribe removes a participant from the registry and their current room.
// Empty rooms are pruned from the membership map; the Room itself lives on in
// the Rooms registry.
func (r *Registry) Unsubscribe(participantID string, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, participantID)
	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, participantID)
		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}

// SinksForRoom retrieves all active communication channels for a room.
// Returns nil if the room doesn't exist or has no members.
func (r *Registry) SinksForRoom(roomID domain.RoomID) []contract.EventSink {
	return r.sinks(roomID, "")
}

// SinksForRoomExcept is SinksForRoom minus one participant, used for the
// all-but-sender fan-out of echo events.
func (r *Registry) SinksForRoomExcept(roomID domain.RoomID, participantID string) []contract.EventSink {
	return r.sinks(roomID, participantID)
}

// SessionCount reports how many connections currently hold a live sink.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) sinks(roomID domain.RoomID, except string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if except != "" && participantID == except {
			continue
		}
		if sink, exists := r.sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}
