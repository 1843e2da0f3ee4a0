// Package draw defines the inbound client commands of the sync protocol.
// Commands are unmarshalled from envelope payloads and validated before the
// gateway touches any room state.
package draw

import (
	"draw-lab/domain"
)

type JoinCommand struct {
	Room string `json:"room" validate:"omitempty,max=64"`
	Name string `json:"name" validate:"omitempty,max=64"`
}

type StrokeStartCommand struct {
	StrokeID string      `json:"strokeId" validate:"required,max=128"`
	Tool     domain.Tool `json:"tool" validate:"required,max=32"`
	Color    string      `json:"color" validate:"omitempty,max=32"`
	Size     float64     `json:"size" validate:"omitempty,gte=0"`
	Text     string      `json:"text" validate:"omitempty,max=4096"`
	Src      string      `json:"src" validate:"omitempty,max=4096"`
}

type StrokePointsCommand struct {
	StrokeID string         `json:"strokeId" validate:"required,max=128"`
	Points   []domain.Point `json:"points" validate:"max=4096"`
}

type StrokeEndCommand struct {
	StrokeID string `json:"strokeId" validate:"required,max=128"`
}

// UndoCommand and RedoCommand are unscoped in the baseline protocol; the
// optional tool narrows them to that tool's history.
type UndoCommand struct {
	Tool domain.Tool `json:"tool,omitempty" validate:"omitempty,max=32"`
}

type RedoCommand struct {
	Tool domain.Tool `json:"tool,omitempty" validate:"omitempty,max=32"`
}

type CursorMoveCommand struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PingCommand struct {
	TS int64 `json:"ts"`
}
