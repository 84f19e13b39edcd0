package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskmaster/boards/internal/domain/entities"
)

// BoardStore opens units of work against the persistent board graph.
type BoardStore interface {
	// WithinSession runs fn in one transaction. Pending writes are flushed
	// when fn returns nil and discarded otherwise.
	WithinSession(ctx context.Context, fn func(Session) error) error
	HealthCheck(ctx context.Context) error
}

// Session is a unit of work. Entities returned by Get are attached to their
// whole board graph, and one board is loaded at most once per session.
type Session interface {
	// Get loads an entity by identity. Missing ids yield *entities.NotFoundError.
	Get(ctx context.Context, kind entities.Kind, id uuid.UUID) (entities.Entity, error)
	// Save marks e as new or changed.
	Save(e entities.Entity)
	// Delete marks e for removal.
	Delete(e entities.Entity)
	// FlushAndClear writes pending changes and detaches every loaded graph.
	FlushAndClear(ctx context.Context) error
}

// BoardCache holds board read models keyed by board id.
type BoardCache interface {
	Get(ctx context.Context, boardID uuid.UUID) (*entities.BoardView, bool)
	Set(ctx context.Context, view *entities.BoardView)
	Evict(ctx context.Context, boardIDs ...uuid.UUID)
}

// EngineMetrics records the outcome of engine operations.
type EngineMetrics interface {
	ObserveOperation(op string, err error, elapsed time.Duration)
}
