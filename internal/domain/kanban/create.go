package kanban

import (
	"strings"
	"time"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// CreateBoard starts a new board owned by creator.
func (e *Engine) CreateBoard(title string, access entities.Accessibility, creator entities.UserRef) (*entities.Board, error) {
	const op = "create board"
	if strings.TrimSpace(title) == "" {
		return nil, entities.Invalid(op, "title is required", nil)
	}
	if !access.IsValid() {
		return nil, entities.Invalid(op, "unknown accessibility "+string(access), nil)
	}
	b := &entities.Board{
		ID:            e.newID(),
		Title:         title,
		Accessibility: access,
		CreatedBy:     creator.ID,
		CreatedAt:     e.now(),
		Owners:        []entities.UserRef{creator},
	}
	e.tracker.Save(b)
	return b, nil
}

// CreateList adds an empty list to b at pos.
func (e *Engine) CreateList(b *entities.Board, title string, pos int) (*entities.List, error) {
	if err := validateBoardContent(b, "create list"); err != nil {
		return nil, err
	}
	l := &entities.List{ID: e.newID(), Title: title}
	b.InsertList(l, pos)
	e.tracker.Save(b)
	e.tracker.Save(l)
	return l, nil
}

// CreateCard adds a card to l at pos.
func (e *Engine) CreateCard(l *entities.List, title, description string, due *time.Time, pos int) (*entities.Card, error) {
	if err := validateBoardContent(l, "create card"); err != nil {
		return nil, err
	}
	c := &entities.Card{
		ID:          e.newID(),
		Title:       title,
		Description: description,
		Due:         copyTime(due),
		CreatedAt:   e.now(),
	}
	l.InsertCard(c, pos)
	e.tracker.Save(l)
	e.tracker.Save(c)
	return c, nil
}

func (e *Engine) CreateChecklist(c *entities.Card, title string, pos int) (*entities.Checklist, error) {
	if err := validateBoardContent(c, "create checklist"); err != nil {
		return nil, err
	}
	cl := &entities.Checklist{ID: e.newID(), Title: title}
	c.InsertChecklist(cl, pos)
	e.tracker.Save(c)
	e.tracker.Save(cl)
	return cl, nil
}

func (e *Engine) CreateTask(cl *entities.Checklist, title string, pos int) (*entities.Task, error) {
	if err := validateBoardContent(cl, "create task"); err != nil {
		return nil, err
	}
	t := &entities.Task{ID: e.newID(), Title: title}
	cl.InsertTask(t, pos)
	e.tracker.Save(cl)
	e.tracker.Save(t)
	return t, nil
}

// SetTaskDone toggles the completion state of t.
func (e *Engine) SetTaskDone(t *entities.Task, done bool) error {
	if err := validateBoardContent(t, "update task"); err != nil {
		return err
	}
	if t.IsDone == done {
		return nil
	}
	t.IsDone = done
	e.tracker.Save(t)
	return nil
}

// CreateComment appends a comment by creator to c.
func (e *Engine) CreateComment(c *entities.Card, creator entities.UserRef, text string) (*entities.Comment, error) {
	const op = "create comment"
	if strings.TrimSpace(text) == "" {
		return nil, entities.Invalid(op, "text is required", nil)
	}
	if err := validateBoardContent(c, op); err != nil {
		return nil, err
	}
	cm := &entities.Comment{
		ID:        e.newID(),
		Creator:   creator,
		Text:      text,
		CreatedAt: e.now(),
	}
	c.AppendComment(cm)
	e.tracker.Save(cm)
	return cm, nil
}

// CreateLabel adds a label to b.
func (e *Engine) CreateLabel(b *entities.Board, name, color string) (*entities.Label, error) {
	if err := validateBoardContent(b, "create label"); err != nil {
		return nil, err
	}
	l := &entities.Label{ID: e.newID(), Name: name, Color: color}
	b.AddLabel(l)
	e.tracker.Save(l)
	return l, nil
}

// AttachDocument records attachment metadata on c. The blob itself must
// already be stored under storageKey.
func (e *Engine) AttachDocument(c *entities.Card, name, contentType string, size int64, storageKey string) (*entities.Document, error) {
	const op = "attach document"
	if storageKey == "" {
		return nil, entities.Invalid(op, "storage key is required", nil)
	}
	if size < 0 {
		return nil, entities.Invalid(op, "size must not be negative", nil)
	}
	if err := validateBoardContent(c, op); err != nil {
		return nil, err
	}
	d := &entities.Document{
		ID:          e.newID(),
		Name:        name,
		ContentType: contentType,
		Size:        size,
		StorageKey:  storageKey,
		UploadedAt:  e.now(),
	}
	c.AppendDocument(d)
	e.tracker.Save(d)
	return d, nil
}
