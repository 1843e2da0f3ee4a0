package domain

import (
	"time"

	"github.com/samber/lo"

	"draw-lab/errors"
)

// StrokeLog owns the ordered log of committed strokes, the set of in-progress
// strokes, and the per-tool redo stacks for one room.
// A stroke is in exactly one place at a time: active, committed, or on a single
// redo stack. StrokeLog is pure state, it performs no I/O and no locking of its
// own; the owning Room serializes access.
type StrokeLog struct {
	committed []*Stroke
	active    map[string]*Stroke
	redo      map[Tool][]*Stroke
	undoOrder []Tool // recency of undos across tools, for unscoped redo
	seq       uint64
}

func NewStrokeLog() *StrokeLog {
	return &StrokeLog{
		active: make(map[string]*Stroke),
		redo:   make(map[Tool][]*Stroke),
	}
}

// All returns a snapshot of the committed log in current order.
// The snapshot is detached: mutating it never touches internal state.
func (l *StrokeLog) All() []Stroke {
	return lo.Map(l.committed, func(s *Stroke, _ int) Stroke {
		return s.clone()
	})
}

// Start begins tracking a new in-progress stroke.
// A stroke id that is already active is rejected with ErrDuplicateStroke rather
// than silently overwritten: the previous in-progress work stays intact.
func (l *StrokeLog) Start(strokeID, userID string, tool Tool, color string, size float64, extras StrokeExtras) (Stroke, error) {
	if _, ok := l.active[strokeID]; ok {
		return Stroke{}, errors.ErrDuplicateStroke
	}
	l.seq++
	stroke := &Stroke{
		ID:        strokeID,
		UserID:    userID,
		Tool:      tool,
		Color:     color,
		Size:      size,
		Points:    []Point{},
		Seq:       l.seq,
		CreatedAt: time.Now().UTC(),
		Extras:    extras,
	}
	l.active[strokeID] = stroke
	return stroke.clone(), nil
}

// AddPoints feeds a batch of points into an active stroke, applying the
// tool-specific reduction policy. Returns false if the stroke is not active;
// a late or unknown batch is ignored, never an error.
func (l *StrokeLog) AddPoints(strokeID string, batch []Point) bool {
	stroke, ok := l.active[strokeID]
	if !ok {
		return false
	}
	stroke.appendPoints(batch)
	return true
}

// Commit finalizes an active stroke: it leaves the active set, invalidates the
// redo future for its own tool only, and joins the committed log.
// Returns nil if the stroke is not active.
func (l *StrokeLog) Commit(strokeID string) *Stroke {
	stroke, ok := l.active[strokeID]
	if !ok {
		return nil
	}
	delete(l.active, strokeID)
	l.clearRedo(stroke.Tool)
	l.committed = append(l.committed, stroke)
	out := stroke.clone()
	return &out
}

// Undo removes the most recent committed stroke and parks it on its own tool's
// redo stack. With a tool filter it removes the most recent stroke of that tool
// from wherever it sits in the log; later strokes keep their positions.
// Returns nil when there is nothing to undo.
func (l *StrokeLog) Undo(tool Tool) *Stroke {
	idx := -1
	if tool == "" {
		if len(l.committed) > 0 {
			idx = len(l.committed) - 1
		}
	} else {
		for i := len(l.committed) - 1; i >= 0; i-- {
			if l.committed[i].Tool == tool {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil
	}
	stroke := l.committed[idx]
	l.committed = append(l.committed[:idx], l.committed[idx+1:]...)
	l.redo[stroke.Tool] = append(l.redo[stroke.Tool], stroke)
	l.undoOrder = append(l.undoOrder, stroke.Tool)
	out := stroke.clone()
	return &out
}

// Redo restores the top of the given tool's redo stack with a fresh seq, so the
// stroke reappears at the logical end of the document rather than at its old
// position. An empty tool falls back to the most recently undone stroke across
// all tools. Returns nil when there is nothing to redo.
func (l *StrokeLog) Redo(tool Tool) *Stroke {
	if tool == "" {
		if len(l.undoOrder) == 0 {
			return nil
		}
		tool = l.undoOrder[len(l.undoOrder)-1]
	}
	stack := l.redo[tool]
	if len(stack) == 0 {
		return nil
	}
	stroke := stack[len(stack)-1]
	l.redo[tool] = stack[:len(stack)-1]
	l.dropLastUndo(stroke.Tool)
	l.seq++
	stroke.Seq = l.seq
	l.committed = append(l.committed, stroke)
	out := stroke.clone()
	return &out
}

// DropActiveByUser discards every in-progress stroke owned by a user, e.g. on
// disconnect. Committed strokes are never touched.
func (l *StrokeLog) DropActiveByUser(userID string) {
	for id, stroke := range l.active {
		if stroke.UserID == userID {
			delete(l.active, id)
		}
	}
}

// Clear performs a full document reset: committed log, redo stacks, and any
// in-progress strokes are all emptied.
func (l *StrokeLog) Clear() {
	l.committed = nil
	l.active = make(map[string]*Stroke)
	l.redo = make(map[Tool][]*Stroke)
	l.undoOrder = nil
}

// clearRedo empties one tool's redo stack and its entries in the undo order.
func (l *StrokeLog) clearRedo(tool Tool) {
	delete(l.redo, tool)
	kept := l.undoOrder[:0]
	for _, t := range l.undoOrder {
		if t != tool {
			kept = append(kept, t)
		}
	}
	l.undoOrder = kept
}

// dropLastUndo removes the most recent undo-order entry for a tool.
func (l *StrokeLog) dropLastUndo(tool Tool) {
	for i := len(l.undoOrder) - 1; i >= 0; i-- {
		if l.undoOrder[i] == tool {
			l.undoOrder = append(l.undoOrder[:i], l.undoOrder[i+1:]...)
			return
		}
	}
}
