package domain

import "sync"

// Room is the unit of isolation: one stroke log plus one roster behind a single
// mutex. Every mutation goes through a Room method and is therefore one atomic
// step relative to other events on the same room; rooms never share state, so
// cross-room traffic proceeds in parallel.
type Room struct {
	ID RoomID

	mu     sync.Mutex
	log    *StrokeLog
	roster *Roster
}

func NewRoom(id RoomID) *Room {
	return &Room{
		ID:     id,
		log:    NewStrokeLog(),
		roster: NewRoster(),
	}
}

// Join adds a participant and returns the assigned presence together with the
// full room snapshot the joiner needs to render.
func (r *Room) Join(candidateID, candidateName string) (Presence, []Presence, []Stroke) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := r.roster.AddUser(candidateID, candidateName)
	return user, r.roster.ListUsers(), r.log.All()
}

// Leave removes a participant and discards their in-progress strokes.
// Committed strokes stay.
func (r *Room) Leave(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roster.RemoveUser(userID)
	r.log.DropActiveByUser(userID)
}

func (r *Room) Users() []Presence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roster.ListUsers()
}

func (r *Room) Strokes() []Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.All()
}

func (r *Room) StartStroke(strokeID, userID string, tool Tool, color string, size float64, extras StrokeExtras) (Stroke, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Start(strokeID, userID, tool, color, size, extras)
}

func (r *Room) AddPoints(strokeID string, batch []Point) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.AddPoints(strokeID, batch)
}

func (r *Room) CommitStroke(strokeID string) *Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Commit(strokeID)
}

func (r *Room) Undo(tool Tool) *Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Undo(tool)
}

func (r *Room) Redo(tool Tool) *Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Redo(tool)
}

// Clear resets the whole document, including in-progress strokes.
func (r *Room) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Clear()
}
