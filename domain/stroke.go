// Package domain contains core concepts of the drawing system.
// This file defines Stroke entities and the per-tool point policies.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"
)

type RoomID string

// Tool identifies the drawing tool a stroke was made with.
// The tool drives the point-reduction policy applied while the stroke is active.
type Tool string

const (
	ToolPen     Tool = "pen"
	ToolEraser  Tool = "eraser"
	ToolLine    Tool = "line"
	ToolRect    Tool = "rect"
	ToolEllipse Tool = "ellipse"
	ToolImage   Tool = "image"
	ToolText    Tool = "text"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StrokeExtras is the bounded set of optional stroke attributes.
// Arbitrary caller-supplied keys never flow into the log.
type StrokeExtras struct {
	Text string `json:"text,omitempty"` // text tool content
	Src  string `json:"src,omitempty"`  // image tool source
}

// Stroke is one drawn unit, from first input point to commit.
// Seq orders committed strokes and is reassigned when a stroke is redone,
// so a redone stroke reappears at the logical end of the document.
type Stroke struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Tool      Tool         `json:"tool"`
	Color     string       `json:"color"`
	Size      float64      `json:"size"`
	Points    []Point      `json:"points"`
	Seq       uint64       `json:"seq"`
	CreatedAt time.Time    `json:"createdAt"`
	Extras    StrokeExtras `json:"extras,omitempty"`
}

// appendPoints applies the tool-specific reduction policy to an incoming batch.
// Shape tools keep a fixed anchor plus the live endpoint, anchor tools keep only
// the latest position, everything else accumulates a freehand path.
func (s *Stroke) appendPoints(batch []Point) {
	if len(batch) == 0 {
		return
	}
	latest := batch[len(batch)-1]
	switch s.Tool {
	case ToolLine, ToolRect, ToolEllipse:
		anchor := batch[0]
		if len(s.Points) > 0 {
			anchor = s.Points[0]
		}
		s.Points = []Point{anchor, latest}
	case ToolImage, ToolText:
		s.Points = []Point{latest}
	default:
		s.Points = append(s.Points, batch...)
	}
}

// clone returns a copy whose point slice is detached from the original.
func (s *Stroke) clone() Stroke {
	out := *s
	out.Points = make([]Point, len(s.Points))
	copy(out.Points, s.Points)
	return out
}
