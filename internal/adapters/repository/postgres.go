package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/infrastructure/database"
	"github.com/taskmaster/boards/internal/infrastructure/logger"
	"github.com/taskmaster/boards/internal/ports"
)

// PostgresStore persists board graphs in PostgreSQL. A session is one
// transaction; every board it touches is locked with SELECT ... FOR UPDATE,
// which serializes concurrent edits of the same board.
type PostgresStore struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPostgresStore creates a new postgres-backed board store
func NewPostgresStore(db *database.DB, logger *logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger.WithComponent("postgres_store")}
}

var _ ports.BoardStore = (*PostgresStore)(nil)

func (p *PostgresStore) WithinSession(ctx context.Context, fn func(ports.Session) error) error {
	return p.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		sess := &pgSession{tx: tx, logger: p.logger}
		sess.reset()
		if err := fn(sess); err != nil {
			return err
		}
		return sess.FlushAndClear(ctx)
	})
}

func (p *PostgresStore) HealthCheck(ctx context.Context) error {
	return p.db.HealthCheck(ctx)
}

// Each query maps an entity id to the id of the board that owns it.
var boardOfQueries = map[entities.Kind]string{
	entities.KindBoard: `SELECT id FROM boards WHERE id = $1`,
	entities.KindList:  `SELECT board_id FROM lists WHERE id = $1`,
	entities.KindLabel: `SELECT board_id FROM labels WHERE id = $1`,
	entities.KindCard: `SELECT l.board_id FROM cards c
		JOIN lists l ON l.id = c.list_id WHERE c.id = $1`,
	entities.KindChecklist: `SELECT l.board_id FROM checklists cl
		JOIN cards c ON c.id = cl.card_id
		JOIN lists l ON l.id = c.list_id WHERE cl.id = $1`,
	entities.KindTask: `SELECT l.board_id FROM tasks t
		JOIN checklists cl ON cl.id = t.checklist_id
		JOIN cards c ON c.id = cl.card_id
		JOIN lists l ON l.id = c.list_id WHERE t.id = $1`,
	entities.KindComment: `SELECT l.board_id FROM comments cm
		JOIN cards c ON c.id = cm.card_id
		JOIN lists l ON l.id = c.list_id WHERE cm.id = $1`,
	entities.KindDocument: `SELECT l.board_id FROM documents d
		JOIN cards c ON c.id = d.card_id
		JOIN lists l ON l.id = c.list_id WHERE d.id = $1`,
}

// Deletes run child tables first; the engine reports removals bottom-up.
var deleteQueries = map[entities.Kind][]string{
	entities.KindBoard: {
		`DELETE FROM board_owners WHERE board_id = $1`,
		`DELETE FROM board_members WHERE board_id = $1`,
		`DELETE FROM board_teams WHERE board_id = $1`,
		`DELETE FROM boards WHERE id = $1`,
	},
	entities.KindList: {`DELETE FROM lists WHERE id = $1`},
	entities.KindCard: {
		`DELETE FROM card_labels WHERE card_id = $1`,
		`DELETE FROM card_assignees WHERE card_id = $1`,
		`DELETE FROM cards WHERE id = $1`,
	},
	entities.KindChecklist: {`DELETE FROM checklists WHERE id = $1`},
	entities.KindTask:      {`DELETE FROM tasks WHERE id = $1`},
	entities.KindComment:   {`DELETE FROM comments WHERE id = $1`},
	entities.KindLabel: {
		`DELETE FROM card_labels WHERE label_id = $1`,
		`DELETE FROM labels WHERE id = $1`,
	},
	entities.KindDocument: {`DELETE FROM documents WHERE id = $1`},
}

type pgSession struct {
	tx     *sqlx.Tx
	logger *logger.Logger

	loaded  map[uuid.UUID]*entities.Board
	nodes   map[uuid.UUID]entities.Entity
	dirty   map[uuid.UUID]*entities.Board
	order   []uuid.UUID
	dropped map[uuid.UUID]struct{}
	deletes []entities.Entity
}

func (s *pgSession) reset() {
	s.loaded = make(map[uuid.UUID]*entities.Board)
	s.nodes = make(map[uuid.UUID]entities.Entity)
	s.dirty = make(map[uuid.UUID]*entities.Board)
	s.order = nil
	s.dropped = make(map[uuid.UUID]struct{})
	s.deletes = nil
}

func (s *pgSession) Get(ctx context.Context, kind entities.Kind, id uuid.UUID) (entities.Entity, error) {
	if e, ok := s.nodes[id]; ok {
		if e.EntityKind() != kind {
			return nil, &entities.NotFoundError{Kind: kind, ID: id}
		}
		return e, nil
	}

	q, ok := boardOfQueries[kind]
	if !ok {
		return nil, &entities.NotFoundError{Kind: kind, ID: id}
	}
	var boardID uuid.UUID
	if err := s.tx.GetContext(ctx, &boardID, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: kind, ID: id}
		}
		return nil, fmt.Errorf("resolve %s %s: %w", kind, id, err)
	}
	if _, gone := s.dropped[boardID]; gone {
		return nil, &entities.NotFoundError{Kind: kind, ID: id}
	}
	if _, err := s.loadBoard(ctx, boardID); err != nil {
		return nil, err
	}

	e, ok := s.nodes[id]
	if !ok || e.EntityKind() != kind {
		return nil, &entities.NotFoundError{Kind: kind, ID: id}
	}
	return e, nil
}

type listRow struct {
	entities.List
	Position int `db:"position"`
}

type cardRow struct {
	entities.Card
	ListID   uuid.UUID `db:"list_id"`
	Position int       `db:"position"`
}

type checklistRow struct {
	entities.Checklist
	CardID   uuid.UUID `db:"card_id"`
	Position int       `db:"position"`
}

type taskRow struct {
	entities.Task
	ChecklistID uuid.UUID `db:"checklist_id"`
	Position    int       `db:"position"`
}

type commentRow struct {
	entities.Comment
	CardID    uuid.UUID `db:"card_id"`
	CreatorID uuid.UUID `db:"creator_id"`
}

type documentRow struct {
	entities.Document
	CardID uuid.UUID `db:"card_id"`
}

type cardLabelRow struct {
	CardID  uuid.UUID `db:"card_id"`
	LabelID uuid.UUID `db:"label_id"`
}

type cardUserRow struct {
	CardID uuid.UUID `db:"card_id"`
	UserID uuid.UUID `db:"user_id"`
}

// loadBoard locks a board row and assembles its whole graph.
func (s *pgSession) loadBoard(ctx context.Context, id uuid.UUID) (*entities.Board, error) {
	if b, ok := s.loaded[id]; ok {
		return b, nil
	}

	var b entities.Board
	err := s.tx.GetContext(ctx, &b, `
		SELECT id, title, accessibility, is_template, created_by, created_at, archived_at
		FROM boards WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: entities.KindBoard, ID: id}
		}
		return nil, fmt.Errorf("load board: %w", err)
	}

	if err := s.tx.SelectContext(ctx, &b.Owners, `SELECT user_id FROM board_owners WHERE board_id = $1 ORDER BY user_id`, id); err != nil {
		return nil, fmt.Errorf("load board owners: %w", err)
	}
	if err := s.tx.SelectContext(ctx, &b.Members, `SELECT user_id FROM board_members WHERE board_id = $1 ORDER BY user_id`, id); err != nil {
		return nil, fmt.Errorf("load board members: %w", err)
	}
	if err := s.tx.SelectContext(ctx, &b.Teams, `SELECT team_id FROM board_teams WHERE board_id = $1 ORDER BY team_id`, id); err != nil {
		return nil, fmt.Errorf("load board teams: %w", err)
	}

	var labels []*entities.Label
	if err := s.tx.SelectContext(ctx, &labels, `SELECT id, name, color FROM labels WHERE board_id = $1 ORDER BY name, id`, id); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	for _, l := range labels {
		b.AddLabel(l)
	}

	var lists []listRow
	if err := s.tx.SelectContext(ctx, &lists, `
		SELECT id, title, archived_at, position
		FROM lists WHERE board_id = $1 ORDER BY position, id`, id); err != nil {
		return nil, fmt.Errorf("load lists: %w", err)
	}
	listByID := make(map[uuid.UUID]*entities.List, len(lists))
	for _, row := range lists {
		l := row.List
		b.InsertList(&l, len(b.Lists))
		listByID[l.ID] = &l
	}

	if len(listByID) > 0 {
		if err := s.loadCards(ctx, listByID); err != nil {
			return nil, err
		}
	}

	s.loaded[id] = &b
	b.Walk(func(e entities.Entity) {
		if _, ok := s.nodes[e.EntityID()]; !ok {
			s.nodes[e.EntityID()] = e
		}
	})
	return &b, nil
}

func (s *pgSession) loadCards(ctx context.Context, listByID map[uuid.UUID]*entities.List) error {
	var cards []cardRow
	if err := s.tx.SelectContext(ctx, &cards, `
		SELECT id, list_id, position, title, description, due, created_at, archived_at
		FROM cards WHERE list_id = ANY($1) ORDER BY list_id, position, id`, pq.Array(idStrings(listByID))); err != nil {
		return fmt.Errorf("load cards: %w", err)
	}
	if len(cards) == 0 {
		return nil
	}

	cardByID := make(map[uuid.UUID]*entities.Card, len(cards))
	for _, row := range cards {
		c := row.Card
		if l, ok := listByID[row.ListID]; ok {
			l.InsertCard(&c, len(l.Cards))
			cardByID[c.ID] = &c
		}
	}
	cardIDs := pq.Array(idStrings(cardByID))

	var labelRefs []cardLabelRow
	if err := s.tx.SelectContext(ctx, &labelRefs, `SELECT card_id, label_id FROM card_labels WHERE card_id = ANY($1) ORDER BY card_id, label_id`, cardIDs); err != nil {
		return fmt.Errorf("load card labels: %w", err)
	}
	for _, ref := range labelRefs {
		if c, ok := cardByID[ref.CardID]; ok {
			c.Labels = append(c.Labels, entities.LabelRef{ID: ref.LabelID})
		}
	}

	var assignees []cardUserRow
	if err := s.tx.SelectContext(ctx, &assignees, `SELECT card_id, user_id FROM card_assignees WHERE card_id = ANY($1) ORDER BY card_id, user_id`, cardIDs); err != nil {
		return fmt.Errorf("load card assignees: %w", err)
	}
	for _, ref := range assignees {
		if c, ok := cardByID[ref.CardID]; ok {
			c.AssignedUsers = append(c.AssignedUsers, entities.UserRef{ID: ref.UserID})
		}
	}

	var checklists []checklistRow
	if err := s.tx.SelectContext(ctx, &checklists, `
		SELECT id, card_id, position, title
		FROM checklists WHERE card_id = ANY($1) ORDER BY card_id, position, id`, cardIDs); err != nil {
		return fmt.Errorf("load checklists: %w", err)
	}
	checklistByID := make(map[uuid.UUID]*entities.Checklist, len(checklists))
	for _, row := range checklists {
		cl := row.Checklist
		if c, ok := cardByID[row.CardID]; ok {
			c.InsertChecklist(&cl, len(c.Checklists))
			checklistByID[cl.ID] = &cl
		}
	}

	if len(checklistByID) > 0 {
		var tasks []taskRow
		if err := s.tx.SelectContext(ctx, &tasks, `
			SELECT id, checklist_id, position, title, is_done
			FROM tasks WHERE checklist_id = ANY($1) ORDER BY checklist_id, position, id`, pq.Array(idStrings(checklistByID))); err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		for _, row := range tasks {
			t := row.Task
			if cl, ok := checklistByID[row.ChecklistID]; ok {
				cl.AppendTask(&t)
			}
		}
	}

	var comments []commentRow
	if err := s.tx.SelectContext(ctx, &comments, `
		SELECT id, card_id, creator_id, text, created_at, is_deleted
		FROM comments WHERE card_id = ANY($1) ORDER BY card_id, position, id`, cardIDs); err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	for _, row := range comments {
		cm := row.Comment
		cm.Creator = entities.UserRef{ID: row.CreatorID}
		if c, ok := cardByID[row.CardID]; ok {
			c.AppendComment(&cm)
		}
	}

	var documents []documentRow
	if err := s.tx.SelectContext(ctx, &documents, `
		SELECT id, card_id, name, content_type, size, storage_key, uploaded_at
		FROM documents WHERE card_id = ANY($1) ORDER BY card_id, position, id`, cardIDs); err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	for _, row := range documents {
		d := row.Document
		if c, ok := cardByID[row.CardID]; ok {
			c.AppendDocument(&d)
		}
	}
	return nil
}

func (s *pgSession) Save(e entities.Entity) {
	s.nodes[e.EntityID()] = e
	if b := entities.OwningBoard(e); b != nil {
		s.loaded[b.ID] = b
		s.markDirty(b)
	}
}

func (s *pgSession) Delete(e entities.Entity) {
	delete(s.nodes, e.EntityID())
	s.deletes = append(s.deletes, e)
	if b, ok := e.(*entities.Board); ok {
		delete(s.dirty, b.ID)
		s.dropped[b.ID] = struct{}{}
		return
	}
	if b := entities.OwningBoard(e); b != nil {
		s.markDirty(b)
	}
}

func (s *pgSession) markDirty(b *entities.Board) {
	if _, gone := s.dropped[b.ID]; gone {
		return
	}
	if _, ok := s.dirty[b.ID]; !ok {
		s.order = append(s.order, b.ID)
	}
	s.dirty[b.ID] = b
}

// FlushAndClear upserts every dirty board graph, positions taken from slice
// order, then applies the recorded deletes in order.
func (s *pgSession) FlushAndClear(ctx context.Context) error {
	for _, id := range s.order {
		b, ok := s.dirty[id]
		if !ok {
			continue
		}
		if err := s.upsertBoard(ctx, b); err != nil {
			return err
		}
	}
	for _, e := range s.deletes {
		for _, q := range deleteQueries[e.EntityKind()] {
			if err := s.exec(ctx, q, e.EntityID()); err != nil {
				return fmt.Errorf("delete %s %s: %w", e.EntityKind(), e.EntityID(), err)
			}
		}
	}
	s.reset()
	return nil
}

func (s *pgSession) upsertBoard(ctx context.Context, b *entities.Board) error {
	err := s.exec(ctx, `
		INSERT INTO boards (id, title, accessibility, is_template, created_by, created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, accessibility = EXCLUDED.accessibility,
			is_template = EXCLUDED.is_template, archived_at = EXCLUDED.archived_at`,
		b.ID, b.Title, b.Accessibility, b.IsTemplate, b.CreatedBy, b.CreatedAt, b.ArchivedAt)
	if err != nil {
		return fmt.Errorf("upsert board: %w", err)
	}

	if err := s.replaceRefs(ctx, "board_owners", "board_id", "user_id", b.ID, userIDStrings(b.Owners)); err != nil {
		return err
	}
	if err := s.replaceRefs(ctx, "board_members", "board_id", "user_id", b.ID, userIDStrings(b.Members)); err != nil {
		return err
	}
	teams := make([]string, 0, len(b.Teams))
	for _, t := range b.Teams {
		teams = append(teams, t.ID.String())
	}
	if err := s.replaceRefs(ctx, "board_teams", "board_id", "team_id", b.ID, teams); err != nil {
		return err
	}

	for _, l := range b.Labels {
		err := s.exec(ctx, `
			INSERT INTO labels (id, board_id, name, color) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET board_id = EXCLUDED.board_id, name = EXCLUDED.name, color = EXCLUDED.color`,
			l.ID, b.ID, l.Name, l.Color)
		if err != nil {
			return fmt.Errorf("upsert label: %w", err)
		}
	}

	for i, l := range b.Lists {
		err := s.exec(ctx, `
			INSERT INTO lists (id, board_id, position, title, archived_at) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET board_id = EXCLUDED.board_id, position = EXCLUDED.position,
				title = EXCLUDED.title, archived_at = EXCLUDED.archived_at`,
			l.ID, b.ID, i, l.Title, l.ArchivedAt)
		if err != nil {
			return fmt.Errorf("upsert list: %w", err)
		}
		for j, c := range l.Cards {
			if err := s.upsertCard(ctx, l.ID, j, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *pgSession) upsertCard(ctx context.Context, listID uuid.UUID, pos int, c *entities.Card) error {
	err := s.exec(ctx, `
		INSERT INTO cards (id, list_id, position, title, description, due, created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET list_id = EXCLUDED.list_id, position = EXCLUDED.position,
			title = EXCLUDED.title, description = EXCLUDED.description, due = EXCLUDED.due,
			archived_at = EXCLUDED.archived_at`,
		c.ID, listID, pos, c.Title, c.Description, c.Due, c.CreatedAt, c.ArchivedAt)
	if err != nil {
		return fmt.Errorf("upsert card: %w", err)
	}

	labels := make([]string, 0, len(c.Labels))
	for _, ref := range c.Labels {
		labels = append(labels, ref.ID.String())
	}
	if err := s.replaceRefs(ctx, "card_labels", "card_id", "label_id", c.ID, labels); err != nil {
		return err
	}
	if err := s.replaceRefs(ctx, "card_assignees", "card_id", "user_id", c.ID, userIDStrings(c.AssignedUsers)); err != nil {
		return err
	}

	for k, cl := range c.Checklists {
		err := s.exec(ctx, `
			INSERT INTO checklists (id, card_id, position, title) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET card_id = EXCLUDED.card_id, position = EXCLUDED.position, title = EXCLUDED.title`,
			cl.ID, c.ID, k, cl.Title)
		if err != nil {
			return fmt.Errorf("upsert checklist: %w", err)
		}
		for m, t := range cl.Tasks {
			err := s.exec(ctx, `
				INSERT INTO tasks (id, checklist_id, position, title, is_done) VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET checklist_id = EXCLUDED.checklist_id, position = EXCLUDED.position,
					title = EXCLUDED.title, is_done = EXCLUDED.is_done`,
				t.ID, cl.ID, m, t.Title, t.IsDone)
			if err != nil {
				return fmt.Errorf("upsert task: %w", err)
			}
		}
	}

	for k, cm := range c.Comments {
		err := s.exec(ctx, `
			INSERT INTO comments (id, card_id, position, creator_id, text, created_at, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET card_id = EXCLUDED.card_id, position = EXCLUDED.position,
				text = EXCLUDED.text, is_deleted = EXCLUDED.is_deleted`,
			cm.ID, c.ID, k, cm.Creator.ID, cm.Text, cm.CreatedAt, cm.IsDeleted)
		if err != nil {
			return fmt.Errorf("upsert comment: %w", err)
		}
	}

	for k, d := range c.Documents {
		err := s.exec(ctx, `
			INSERT INTO documents (id, card_id, position, name, content_type, size, storage_key, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET card_id = EXCLUDED.card_id, position = EXCLUDED.position, name = EXCLUDED.name`,
			d.ID, c.ID, k, d.Name, d.ContentType, d.Size, d.StorageKey, d.UploadedAt)
		if err != nil {
			return fmt.Errorf("upsert document: %w", err)
		}
	}
	return nil
}

// replaceRefs rewrites a join table for one owner. Table and column names
// come from the constants above, never from input.
func (s *pgSession) replaceRefs(ctx context.Context, table, ownerCol, refCol string, ownerID uuid.UUID, refs []string) error {
	if err := s.exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, ownerCol), ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if len(refs) == 0 {
		return nil
	}
	q := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, unnest($2::uuid[])`, table, ownerCol, refCol)
	if err := s.exec(ctx, q, ownerID, pq.Array(refs)); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (s *pgSession) exec(ctx context.Context, query string, args ...interface{}) error {
	start := time.Now()
	_, err := s.tx.ExecContext(ctx, query, args...)
	s.logger.LogDatabaseQuery(query, time.Since(start), err)
	return err
}

func idStrings[T any](m map[uuid.UUID]T) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id.String())
	}
	return out
}

func userIDStrings(refs []entities.UserRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID.String())
	}
	return out
}
