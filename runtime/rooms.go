package runtime

import (
	"sync"

	"draw-lab/domain"
)

// Rooms lazily creates and looks up rooms by id. The map only grows: abandoned
// rooms stay in memory empty, which is acceptable without a persistence goal.
type Rooms struct {
	mu    sync.Mutex
	rooms map[domain.RoomID]*domain.Room
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[domain.RoomID]*domain.Room)}
}

// Ensure returns the room for an id, creating it on first reference.
// Creation is atomic per id: concurrent first joins get the same room.
func (r *Rooms) Ensure(roomID domain.RoomID) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		room = domain.NewRoom(roomID)
		r.rooms[roomID] = room
	}
	return room
}

func (r *Rooms) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
