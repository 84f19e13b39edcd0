package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/ports"
)

// MemoryStore keeps committed boards as encoded snapshots. A session decodes
// the boards it touches, so a failed session leaves nothing behind. Sessions
// are serialized by one store-wide lock.
type MemoryStore struct {
	mu     sync.Mutex
	boards map[uuid.UUID][]byte
	index  map[uuid.UUID]indexEntry
}

type indexEntry struct {
	kind    entities.Kind
	boardID uuid.UUID
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		boards: make(map[uuid.UUID][]byte),
		index:  make(map[uuid.UUID]indexEntry),
	}
}

var _ ports.BoardStore = (*MemoryStore)(nil)

func (m *MemoryStore) WithinSession(ctx context.Context, fn func(ports.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.newSession()
	if err := fn(sess); err != nil {
		return err
	}
	return sess.FlushAndClear(ctx)
}

func (m *MemoryStore) HealthCheck(context.Context) error { return nil }

// Len returns the number of committed entities of the given kind.
func (m *MemoryStore) Len(kind entities.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.index {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func (m *MemoryStore) newSession() *memorySession {
	return &memorySession{
		store:   m,
		loaded:  make(map[uuid.UUID]*entities.Board),
		nodes:   make(map[uuid.UUID]entities.Entity),
		dirty:   make(map[uuid.UUID]*entities.Board),
		dropped: make(map[uuid.UUID]struct{}),
	}
}

// memorySession is only used while the store lock is held.
type memorySession struct {
	store   *MemoryStore
	loaded  map[uuid.UUID]*entities.Board
	nodes   map[uuid.UUID]entities.Entity
	dirty   map[uuid.UUID]*entities.Board
	dropped map[uuid.UUID]struct{}
}

func (s *memorySession) Get(ctx context.Context, kind entities.Kind, id uuid.UUID) (entities.Entity, error) {
	if e, ok := s.nodes[id]; ok {
		if e.EntityKind() != kind {
			return nil, &entities.NotFoundError{Kind: kind, ID: id}
		}
		return e, nil
	}

	entry, ok := s.store.index[id]
	if !ok || entry.kind != kind {
		return nil, &entities.NotFoundError{Kind: kind, ID: id}
	}
	if _, gone := s.dropped[entry.boardID]; gone {
		return nil, &entities.NotFoundError{Kind: kind, ID: id}
	}
	if _, err := s.loadBoard(entry.boardID); err != nil {
		return nil, err
	}
	e, ok := s.nodes[id]
	if !ok {
		// Removed earlier in this session.
		return nil, &entities.NotFoundError{Kind: kind, ID: id}
	}
	return e, nil
}

func (s *memorySession) loadBoard(id uuid.UUID) (*entities.Board, error) {
	if b, ok := s.loaded[id]; ok {
		return b, nil
	}
	data, ok := s.store.boards[id]
	if !ok {
		return nil, &entities.NotFoundError{Kind: entities.KindBoard, ID: id}
	}
	var b entities.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode board %s: %w", id, err)
	}
	b.Relink()
	s.loaded[id] = &b
	b.Walk(func(e entities.Entity) {
		if _, ok := s.nodes[e.EntityID()]; !ok {
			s.nodes[e.EntityID()] = e
		}
	})
	return &b, nil
}

func (s *memorySession) Save(e entities.Entity) {
	s.nodes[e.EntityID()] = e
	if b := entities.OwningBoard(e); b != nil {
		s.loaded[b.ID] = b
		s.dirty[b.ID] = b
	}
}

func (s *memorySession) Delete(e entities.Entity) {
	delete(s.nodes, e.EntityID())
	if b, ok := e.(*entities.Board); ok {
		delete(s.dirty, b.ID)
		s.dropped[b.ID] = struct{}{}
		return
	}
	if b := entities.OwningBoard(e); b != nil {
		s.dirty[b.ID] = b
	}
}

func (s *memorySession) FlushAndClear(context.Context) error {
	st := s.store
	for id := range s.dropped {
		st.unindex(id)
		delete(st.boards, id)
	}
	for id, b := range s.dirty {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode board %s: %w", id, err)
		}
		st.unindex(id)
		st.boards[id] = data
		b.Walk(func(e entities.Entity) {
			st.index[e.EntityID()] = indexEntry{kind: e.EntityKind(), boardID: id}
		})
	}

	s.loaded = make(map[uuid.UUID]*entities.Board)
	s.nodes = make(map[uuid.UUID]entities.Entity)
	s.dirty = make(map[uuid.UUID]*entities.Board)
	s.dropped = make(map[uuid.UUID]struct{})
	return nil
}

func (m *MemoryStore) unindex(boardID uuid.UUID) {
	for id, e := range m.index {
		if e.boardID == boardID {
			delete(m.index, id)
		}
	}
}
