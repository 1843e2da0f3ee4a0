// Package domain contains core concepts of the drawing system.
// This file defines Presence entities and per-room membership.
package domain

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// palette rotates over joiners; the index is monotonic per room so colors cycle
// but never get reassigned to fill gaps left by departures.
var palette = []string{
	"#06b6d4", "#f472b6", "#a78bfa", "#22d3ee",
	"#f97316", "#10b981", "#ef4444", "#eab308",
}

var guestAnimals = []string{
	"fox", "lynx", "otter", "kite", "orca",
	"sparrow", "panda", "lemur", "yak", "ibis",
}

// Presence is a connected participant's identity within a room.
// It lives from join to disconnect or room switch.
type Presence struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Roster tracks the participants of one room in join order.
// Like StrokeLog it holds no lock of its own; the owning Room serializes access.
type Roster struct {
	users     map[string]*Presence
	order     []string
	joinCount int
}

func NewRoster() *Roster {
	return &Roster{users: make(map[string]*Presence)}
}

// AddUser registers a participant. A blank candidate id gets a generated uuid,
// a blank candidate name gets a guest label, and the color comes from the
// rotating palette.
func (r *Roster) AddUser(candidateID, candidateName string) Presence {
	id := candidateID
	if id == "" {
		id = uuid.NewString()
	}
	name := strings.TrimSpace(candidateName)
	if name == "" {
		name = guestName()
	}
	p := &Presence{
		ID:       id,
		Name:     name,
		Color:    palette[r.joinCount%len(palette)],
		JoinedAt: time.Now().UTC(),
	}
	r.joinCount++
	if _, ok := r.users[id]; !ok {
		r.order = append(r.order, id)
	}
	r.users[id] = p
	return *p
}

// RemoveUser deletes a participant; unknown ids are a no-op.
func (r *Roster) RemoveUser(userID string) {
	if _, ok := r.users[userID]; !ok {
		return
	}
	delete(r.users, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ListUsers returns the current participants in join order.
func (r *Roster) ListUsers() []Presence {
	return lo.Map(r.order, func(id string, _ int) Presence {
		return *r.users[id]
	})
}

// guestName builds a lightweight label for anonymous participants.
func guestName() string {
	animal := guestAnimals[rand.Intn(len(guestAnimals))]
	return "guest-" + animal + "-" + strconv.Itoa(rand.Intn(900)+100)
}
