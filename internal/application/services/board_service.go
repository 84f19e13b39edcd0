package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/domain/kanban"
	"github.com/taskmaster/boards/internal/infrastructure/logger"
	"github.com/taskmaster/boards/internal/ports"
)

// BoardService runs engine operations inside store sessions
type BoardService struct {
	store   ports.BoardStore
	cache   ports.BoardCache
	metrics ports.EngineMetrics
	logger  *logger.Logger

	now        func() time.Time
	engineOpts []kanban.Option

	// evictions counts cache evictions. A read that saw it change did not
	// observe the latest commit and must not fill the cache.
	evictions atomic.Uint64
}

// Option configures a BoardService
type Option func(*BoardService)

// WithClock overrides the time source for creation and archive stamps
func WithClock(now func() time.Time) Option {
	return func(s *BoardService) { s.now = now }
}

// WithIDGenerator overrides how new entity ids are produced
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *BoardService) { s.engineOpts = append(s.engineOpts, kanban.WithIDGenerator(fn)) }
}

// NewBoardService creates a new board service. cache and metrics may be nil.
func NewBoardService(store ports.BoardStore, cache ports.BoardCache, metrics ports.EngineMetrics, logger *logger.Logger, opts ...Option) *BoardService {
	s := &BoardService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger.WithComponent("board_service"),
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.cache == nil {
		s.cache = nopCache{}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engineOpts = append(s.engineOpts, kanban.WithClock(s.now))
	return s
}

var _ ports.BoardService = (*BoardService)(nil)

// GetBoard returns the read model of a board, served from cache when possible.
// A miss fills the cache unless a mutation evicted boards while the read ran.
// Evictions are counted per process, so with several replicas a stale fill
// can survive until the cache TTL expires.
func (s *BoardService) GetBoard(ctx context.Context, id uuid.UUID) (*entities.BoardView, error) {
	if v, ok := s.cache.Get(ctx, id); ok {
		return v, nil
	}

	gen := s.evictions.Load()
	var view *entities.BoardView
	err := s.store.WithinSession(ctx, func(sess ports.Session) error {
		b, err := load[*entities.Board](ctx, sess, entities.KindBoard, id)
		if err != nil {
			return err
		}
		view = b.View()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}

	if s.evictions.Load() != gen {
		return view, nil
	}
	s.cache.Set(ctx, view)
	if s.evictions.Load() != gen {
		s.cache.Evict(ctx, id)
	}
	return view, nil
}

// CreateBoard creates a board owned by actor
func (s *BoardService) CreateBoard(ctx context.Context, actor entities.UserRef, req ports.CreateBoardRequest) (*entities.Board, error) {
	var out *entities.Board
	err := s.run(ctx, "create_board", func(sess ports.Session, eng *kanban.Engine) (err error) {
		out, err = eng.CreateBoard(req.Title, req.Accessibility, actor)
		return err
	})
	return out, err
}

func (s *BoardService) CreateList(ctx context.Context, req ports.CreateListRequest) (*entities.List, error) {
	var out *entities.List
	err := s.run(ctx, "create_list", func(sess ports.Session, eng *kanban.Engine) error {
		b, err := load[*entities.Board](ctx, sess, entities.KindBoard, req.BoardID)
		if err != nil {
			return err
		}
		out, err = eng.CreateList(b, req.Title, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) CreateCard(ctx context.Context, req ports.CreateCardRequest) (*entities.Card, error) {
	var out *entities.Card
	err := s.run(ctx, "create_card", func(sess ports.Session, eng *kanban.Engine) error {
		l, err := load[*entities.List](ctx, sess, entities.KindList, req.ListID)
		if err != nil {
			return err
		}
		out, err = eng.CreateCard(l, req.Title, req.Description, req.Due, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) CreateChecklist(ctx context.Context, req ports.CreateChecklistRequest) (*entities.Checklist, error) {
	var out *entities.Checklist
	err := s.run(ctx, "create_checklist", func(sess ports.Session, eng *kanban.Engine) error {
		c, err := load[*entities.Card](ctx, sess, entities.KindCard, req.CardID)
		if err != nil {
			return err
		}
		out, err = eng.CreateChecklist(c, req.Title, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	var out *entities.Task
	err := s.run(ctx, "create_task", func(sess ports.Session, eng *kanban.Engine) error {
		cl, err := load[*entities.Checklist](ctx, sess, entities.KindChecklist, req.ChecklistID)
		if err != nil {
			return err
		}
		out, err = eng.CreateTask(cl, req.Title, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) SetTaskDone(ctx context.Context, taskID uuid.UUID, done bool) error {
	return s.run(ctx, "set_task_done", func(sess ports.Session, eng *kanban.Engine) error {
		t, err := load[*entities.Task](ctx, sess, entities.KindTask, taskID)
		if err != nil {
			return err
		}
		return eng.SetTaskDone(t, done)
	})
}

// AddComment posts a comment by actor on a card
func (s *BoardService) AddComment(ctx context.Context, actor entities.UserRef, req ports.AddCommentRequest) (*entities.Comment, error) {
	var out *entities.Comment
	err := s.run(ctx, "add_comment", func(sess ports.Session, eng *kanban.Engine) error {
		c, err := load[*entities.Card](ctx, sess, entities.KindCard, req.CardID)
		if err != nil {
			return err
		}
		out, err = eng.CreateComment(c, actor, req.Text)
		return err
	})
	return out, err
}

// DeleteComment soft-deletes a comment
func (s *BoardService) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	return s.run(ctx, "delete_comment", func(sess ports.Session, eng *kanban.Engine) error {
		cm, err := load[*entities.Comment](ctx, sess, entities.KindComment, commentID)
		if err != nil {
			return err
		}
		return eng.DeleteComment(cm)
	})
}

func (s *BoardService) CreateLabel(ctx context.Context, req ports.CreateLabelRequest) (*entities.Label, error) {
	var out *entities.Label
	err := s.run(ctx, "create_label", func(sess ports.Session, eng *kanban.Engine) error {
		b, err := load[*entities.Board](ctx, sess, entities.KindBoard, req.BoardID)
		if err != nil {
			return err
		}
		out, err = eng.CreateLabel(b, req.Name, req.Color)
		return err
	})
	return out, err
}

func (s *BoardService) AttachDocument(ctx context.Context, req ports.AttachDocumentRequest) (*entities.Document, error) {
	var out *entities.Document
	err := s.run(ctx, "attach_document", func(sess ports.Session, eng *kanban.Engine) error {
		c, err := load[*entities.Card](ctx, sess, entities.KindCard, req.CardID)
		if err != nil {
			return err
		}
		out, err = eng.AttachDocument(c, req.Name, req.ContentType, req.Size, req.StorageKey)
		return err
	})
	return out, err
}

// MoveList moves a list onto the target board and returns that board
func (s *BoardService) MoveList(ctx context.Context, listID uuid.UUID, req ports.MoveRequest) (*entities.Board, error) {
	var out *entities.Board
	err := s.run(ctx, "move_list", func(sess ports.Session, eng *kanban.Engine) error {
		l, err := load[*entities.List](ctx, sess, entities.KindList, listID)
		if err != nil {
			return err
		}
		target, err := load[*entities.Board](ctx, sess, entities.KindBoard, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.MoveList(l, target, req.Position)
		return err
	})
	return out, err
}

// MoveCard moves a card into the target list and returns that list
func (s *BoardService) MoveCard(ctx context.Context, cardID uuid.UUID, req ports.MoveRequest) (*entities.List, error) {
	var out *entities.List
	err := s.run(ctx, "move_card", func(sess ports.Session, eng *kanban.Engine) error {
		c, err := load[*entities.Card](ctx, sess, entities.KindCard, cardID)
		if err != nil {
			return err
		}
		target, err := load[*entities.List](ctx, sess, entities.KindList, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.MoveCard(c, target, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) MoveChecklist(ctx context.Context, checklistID uuid.UUID, req ports.MoveRequest) (*entities.Card, error) {
	var out *entities.Card
	err := s.run(ctx, "move_checklist", func(sess ports.Session, eng *kanban.Engine) error {
		cl, err := load[*entities.Checklist](ctx, sess, entities.KindChecklist, checklistID)
		if err != nil {
			return err
		}
		target, err := load[*entities.Card](ctx, sess, entities.KindCard, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.MoveChecklist(cl, target, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) MoveTask(ctx context.Context, taskID uuid.UUID, req ports.MoveRequest) (*entities.Checklist, error) {
	var out *entities.Checklist
	err := s.run(ctx, "move_task", func(sess ports.Session, eng *kanban.Engine) error {
		t, err := load[*entities.Task](ctx, sess, entities.KindTask, taskID)
		if err != nil {
			return err
		}
		target, err := load[*entities.Checklist](ctx, sess, entities.KindChecklist, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.MoveTask(t, target, req.Position)
		return err
	})
	return out, err
}

// CopyBoard clones a board, or instantiates a template, owned by actor
func (s *BoardService) CopyBoard(ctx context.Context, actor entities.UserRef, boardID uuid.UUID, req ports.CopyBoardRequest) (*entities.Board, error) {
	var out *entities.Board
	err := s.run(ctx, "copy_board", func(sess ports.Session, eng *kanban.Engine) error {
		src, err := load[*entities.Board](ctx, sess, entities.KindBoard, boardID)
		if err != nil {
			return err
		}
		out, err = eng.CopyBoard(src, req.Title, actor)
		return err
	})
	return out, err
}

func (s *BoardService) CopyList(ctx context.Context, listID uuid.UUID, req ports.CopyRequest) (*entities.List, error) {
	var out *entities.List
	err := s.run(ctx, "copy_list", func(sess ports.Session, eng *kanban.Engine) error {
		src, err := load[*entities.List](ctx, sess, entities.KindList, listID)
		if err != nil {
			return err
		}
		target, err := load[*entities.Board](ctx, sess, entities.KindBoard, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.CopyList(src, target, req.Title, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) CopyCard(ctx context.Context, cardID uuid.UUID, req ports.CopyRequest) (*entities.Card, error) {
	var out *entities.Card
	err := s.run(ctx, "copy_card", func(sess ports.Session, eng *kanban.Engine) error {
		src, err := load[*entities.Card](ctx, sess, entities.KindCard, cardID)
		if err != nil {
			return err
		}
		target, err := load[*entities.List](ctx, sess, entities.KindList, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.CopyCard(src, target, req.Title, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) CopyChecklist(ctx context.Context, checklistID uuid.UUID, req ports.CopyRequest) (*entities.Checklist, error) {
	var out *entities.Checklist
	err := s.run(ctx, "copy_checklist", func(sess ports.Session, eng *kanban.Engine) error {
		src, err := load[*entities.Checklist](ctx, sess, entities.KindChecklist, checklistID)
		if err != nil {
			return err
		}
		target, err := load[*entities.Card](ctx, sess, entities.KindCard, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.CopyChecklist(src, target, req.Title, req.Position)
		return err
	})
	return out, err
}

func (s *BoardService) CopyTask(ctx context.Context, taskID uuid.UUID, req ports.CopyRequest) (*entities.Task, error) {
	var out *entities.Task
	err := s.run(ctx, "copy_task", func(sess ports.Session, eng *kanban.Engine) error {
		src, err := load[*entities.Task](ctx, sess, entities.KindTask, taskID)
		if err != nil {
			return err
		}
		target, err := load[*entities.Checklist](ctx, sess, entities.KindChecklist, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.CopyTask(src, target, req.Title)
		return err
	})
	return out, err
}

func (s *BoardService) CopyComment(ctx context.Context, commentID uuid.UUID, req ports.CopyRequest) (*entities.Comment, error) {
	var out *entities.Comment
	err := s.run(ctx, "copy_comment", func(sess ports.Session, eng *kanban.Engine) error {
		src, err := load[*entities.Comment](ctx, sess, entities.KindComment, commentID)
		if err != nil {
			return err
		}
		target, err := load[*entities.Card](ctx, sess, entities.KindCard, req.TargetID)
		if err != nil {
			return err
		}
		out, err = eng.CopyComment(src, target)
		return err
	})
	return out, err
}

// CreateTemplate builds a template board from an existing board
func (s *BoardService) CreateTemplate(ctx context.Context, actor entities.UserRef, boardID uuid.UUID) (*entities.Board, error) {
	var out *entities.Board
	err := s.run(ctx, "create_template", func(sess ports.Session, eng *kanban.Engine) error {
		src, err := load[*entities.Board](ctx, sess, entities.KindBoard, boardID)
		if err != nil {
			return err
		}
		out, err = eng.CreateTemplateFromBoard(src, actor)
		return err
	})
	return out, err
}

func (s *BoardService) Archive(ctx context.Context, kind entities.Kind, id uuid.UUID) error {
	return s.run(ctx, "archive_"+string(kind), func(sess ports.Session, eng *kanban.Engine) error {
		item, err := sess.Get(ctx, kind, id)
		if err != nil {
			return err
		}
		return eng.Archive(item, s.now())
	})
}

func (s *BoardService) Restore(ctx context.Context, kind entities.Kind, id uuid.UUID) error {
	return s.run(ctx, "restore_"+string(kind), func(sess ports.Session, eng *kanban.Engine) error {
		item, err := sess.Get(ctx, kind, id)
		if err != nil {
			return err
		}
		return eng.Restore(item)
	})
}

// Delete removes an entity and everything it owns
func (s *BoardService) Delete(ctx context.Context, kind entities.Kind, id uuid.UUID) error {
	return s.run(ctx, "delete_"+string(kind), func(sess ports.Session, eng *kanban.Engine) error {
		item, err := sess.Get(ctx, kind, id)
		if err != nil {
			return err
		}
		return eng.Delete(item)
	})
}

func (s *BoardService) AddLabelToCard(ctx context.Context, cardID, labelID uuid.UUID) error {
	return s.withCardAndLabel(ctx, "add_card_label", cardID, labelID, (*kanban.Engine).AddLabelToCard)
}

func (s *BoardService) RemoveLabelFromCard(ctx context.Context, cardID, labelID uuid.UUID) error {
	return s.withCardAndLabel(ctx, "remove_card_label", cardID, labelID, (*kanban.Engine).RemoveLabelFromCard)
}

func (s *BoardService) AssignUser(ctx context.Context, cardID, userID uuid.UUID) error {
	return s.withCardAndUser(ctx, "assign_user", cardID, userID, (*kanban.Engine).AssignUser)
}

func (s *BoardService) UnassignUser(ctx context.Context, cardID, userID uuid.UUID) error {
	return s.withCardAndUser(ctx, "unassign_user", cardID, userID, (*kanban.Engine).UnassignUser)
}

func (s *BoardService) AddMember(ctx context.Context, boardID, userID uuid.UUID) error {
	return s.withBoardAndUser(ctx, "add_member", boardID, userID, (*kanban.Engine).AddMember)
}

func (s *BoardService) AddOwner(ctx context.Context, boardID, userID uuid.UUID) error {
	return s.withBoardAndUser(ctx, "add_owner", boardID, userID, (*kanban.Engine).AddOwner)
}

func (s *BoardService) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	return s.withBoardAndUser(ctx, "remove_member", boardID, userID, (*kanban.Engine).RemoveMember)
}

func (s *BoardService) RemoveOwner(ctx context.Context, boardID, userID uuid.UUID) error {
	return s.withBoardAndUser(ctx, "remove_owner", boardID, userID, (*kanban.Engine).RemoveOwner)
}

func (s *BoardService) AssignTeam(ctx context.Context, boardID, teamID uuid.UUID) error {
	return s.run(ctx, "assign_team", func(sess ports.Session, eng *kanban.Engine) error {
		b, err := load[*entities.Board](ctx, sess, entities.KindBoard, boardID)
		if err != nil {
			return err
		}
		return eng.AssignTeam(b, entities.TeamRef{ID: teamID})
	})
}

func (s *BoardService) withCardAndLabel(ctx context.Context, op string, cardID, labelID uuid.UUID, fn func(*kanban.Engine, *entities.Card, *entities.Label) error) error {
	return s.run(ctx, op, func(sess ports.Session, eng *kanban.Engine) error {
		c, err := load[*entities.Card](ctx, sess, entities.KindCard, cardID)
		if err != nil {
			return err
		}
		l, err := load[*entities.Label](ctx, sess, entities.KindLabel, labelID)
		if err != nil {
			return err
		}
		return fn(eng, c, l)
	})
}

func (s *BoardService) withCardAndUser(ctx context.Context, op string, cardID, userID uuid.UUID, fn func(*kanban.Engine, *entities.Card, entities.UserRef) error) error {
	return s.run(ctx, op, func(sess ports.Session, eng *kanban.Engine) error {
		c, err := load[*entities.Card](ctx, sess, entities.KindCard, cardID)
		if err != nil {
			return err
		}
		return fn(eng, c, entities.UserRef{ID: userID})
	})
}

func (s *BoardService) withBoardAndUser(ctx context.Context, op string, boardID, userID uuid.UUID, fn func(*kanban.Engine, *entities.Board, entities.UserRef) error) error {
	return s.run(ctx, op, func(sess ports.Session, eng *kanban.Engine) error {
		b, err := load[*entities.Board](ctx, sess, entities.KindBoard, boardID)
		if err != nil {
			return err
		}
		return fn(eng, b, entities.UserRef{ID: userID})
	})
}

// run executes fn in one session with an engine bound to it. On success the
// read models of every board fn touched are evicted.
func (s *BoardService) run(ctx context.Context, op string, fn func(ports.Session, *kanban.Engine) error) error {
	start := time.Now()
	touched := &touchTracker{boards: make(map[uuid.UUID]struct{})}

	err := s.store.WithinSession(ctx, func(sess ports.Session) error {
		touched.Session = sess
		return fn(sess, kanban.New(touched, s.engineOpts...))
	})
	elapsed := time.Since(start)
	s.metrics.ObserveOperation(op, err, elapsed)

	if err != nil {
		s.logger.LogBoardOperation(op, elapsed, err, nil)
		return fmt.Errorf("%s: %w", op, err)
	}

	ids := touched.ids()
	s.evictions.Add(1)
	s.cache.Evict(ctx, ids...)
	s.logger.LogBoardOperation(op, elapsed, nil, map[string]interface{}{"boards": ids})
	return nil
}

// touchTracker forwards engine events to the session and remembers which
// boards they belong to.
type touchTracker struct {
	ports.Session
	boards map[uuid.UUID]struct{}
}

func (t *touchTracker) Save(e entities.Entity) {
	t.touch(e)
	t.Session.Save(e)
}

func (t *touchTracker) Delete(e entities.Entity) {
	t.touch(e)
	t.Session.Delete(e)
}

func (t *touchTracker) touch(e entities.Entity) {
	if b := entities.OwningBoard(e); b != nil {
		t.boards[b.ID] = struct{}{}
	}
}

func (t *touchTracker) ids() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(t.boards))
	for id := range t.boards {
		out = append(out, id)
	}
	return out
}

func load[T entities.Entity](ctx context.Context, sess ports.Session, kind entities.Kind, id uuid.UUID) (T, error) {
	var zero T
	e, err := sess.Get(ctx, kind, id)
	if err != nil {
		return zero, err
	}
	v, ok := e.(T)
	if !ok {
		return zero, &entities.NotFoundError{Kind: kind, ID: id}
	}
	return v, nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, uuid.UUID) (*entities.BoardView, bool) { return nil, false }
func (nopCache) Set(context.Context, *entities.BoardView)                    {}
func (nopCache) Evict(context.Context, ...uuid.UUID)                         {}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error, time.Duration) {}
