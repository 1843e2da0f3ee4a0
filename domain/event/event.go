// Package event defines the outbound events fanned out to room subscribers.
// Each event marshals directly to the wire payload of the JSON envelope; the
// Kind is the envelope type.
package event

import (
	"draw-lab/domain"
)

type DomainEvent interface {
	Kind() string
}

// Init is the full snapshot sent to a joiner only.
type Init struct {
	User    domain.Presence   `json:"user"`
	Users   []domain.Presence `json:"users"`
	Strokes []domain.Stroke   `json:"strokes"`
}

func (Init) Kind() string { return "init" }

type UserJoined struct {
	domain.Presence
}

func (UserJoined) Kind() string { return "user:joined" }

type UserLeft struct {
	UserID string `json:"userId"`
}

func (UserLeft) Kind() string { return "user:left" }

// StrokeStarted echoes a new stroke descriptor; the gateway forces Points
// empty since receivers only need the descriptor.
type StrokeStarted struct {
	domain.Stroke
}

func (StrokeStarted) Kind() string { return "stroke:start" }

// StrokePoints carries the raw incoming batch, not the store's reduced
// representation; receivers apply their own reduction if they render live.
type StrokePoints struct {
	StrokeID string         `json:"strokeId"`
	UserID   string         `json:"userId"`
	Points   []domain.Point `json:"points"`
}

func (StrokePoints) Kind() string { return "stroke:points" }

// StrokeCommitted carries the finalized stroke from commit, which is the
// authoritative content, so it goes to every member including the sender.
type StrokeCommitted struct {
	domain.Stroke
}

func (StrokeCommitted) Kind() string { return "stroke:commit" }

type StrokeUndone struct {
	StrokeID string `json:"strokeId"`
}

func (StrokeUndone) Kind() string { return "stroke:undo" }

type StrokeRedone struct {
	domain.Stroke
}

func (StrokeRedone) Kind() string { return "stroke:redo" }

// Cursor is ephemeral presence, never stored.
type Cursor struct {
	UserID string  `json:"userId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Name   string  `json:"name"`
}

func (Cursor) Kind() string { return "cursor" }

type Pong struct {
	TS int64 `json:"ts"`
}

func (Pong) Kind() string { return "pong" }
