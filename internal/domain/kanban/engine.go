// Package kanban implements the board graph operations: position-preserving
// moves, deep copies, board templates, archiving and cascading deletes.
//
// The engine mutates an in-memory graph and reports every touched entity to a
// Tracker. It never persists anything itself; the caller flushes the tracker
// inside one transaction. All validation runs before the first mutation, so a
// failed operation leaves the graph untouched.
package kanban

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// Tracker records graph mutations for a later flush.
type Tracker interface {
	Save(e entities.Entity)
	Delete(e entities.Entity)
}

type discardTracker struct{}

func (discardTracker) Save(entities.Entity)   {}
func (discardTracker) Delete(entities.Entity) {}

// Engine applies operations to board graphs.
type Engine struct {
	tracker Tracker
	now     func() time.Time
	newID   func() uuid.UUID
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for creation stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how fresh entity ids are produced.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an engine reporting to tracker. A nil tracker discards events.
func New(tracker Tracker, opts ...Option) *Engine {
	if tracker == nil {
		tracker = discardTracker{}
	}
	e := &Engine{
		tracker: tracker,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func pickTitle(override, original string) string {
	if override != "" {
		return override
	}
	return original
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
