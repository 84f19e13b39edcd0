package kanban

import (
	"fmt"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// Copy clones item into target at pos and returns the new entity. Boards have
// no container, so target must be nil for them; copier becomes the owner of a
// copied board. newTitle, when not empty, replaces the copied title.
func (e *Engine) Copy(item, target entities.Entity, newTitle string, copier entities.UserRef, pos int) (entities.Entity, error) {
	switch v := item.(type) {
	case *entities.Board:
		if target != nil {
			return nil, wrongTarget("copy", item, target)
		}
		b, err := e.CopyBoard(v, newTitle, copier)
		if err != nil {
			return nil, err
		}
		return b, nil
	case *entities.List:
		b, ok := target.(*entities.Board)
		if !ok {
			return nil, wrongTarget("copy", item, target)
		}
		l, err := e.CopyList(v, b, newTitle, pos)
		if err != nil {
			return nil, err
		}
		return l, nil
	case *entities.Card:
		l, ok := target.(*entities.List)
		if !ok {
			return nil, wrongTarget("copy", item, target)
		}
		c, err := e.CopyCard(v, l, newTitle, pos)
		if err != nil {
			return nil, err
		}
		return c, nil
	case *entities.Checklist:
		c, ok := target.(*entities.Card)
		if !ok {
			return nil, wrongTarget("copy", item, target)
		}
		cl, err := e.CopyChecklist(v, c, newTitle, pos)
		if err != nil {
			return nil, err
		}
		return cl, nil
	case *entities.Comment:
		c, ok := target.(*entities.Card)
		if !ok {
			return nil, wrongTarget("copy", item, target)
		}
		cm, err := e.CopyComment(v, c)
		if err != nil {
			return nil, err
		}
		return cm, nil
	case *entities.Task:
		cl, ok := target.(*entities.Checklist)
		if !ok {
			return nil, wrongTarget("copy", item, target)
		}
		t, err := e.CopyTask(v, cl, newTitle)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, entities.Invalid("copy", fmt.Sprintf("a %s cannot be copied", item.EntityKind()), nil)
	}
}

// CopyBoard clones src into a new board owned by copier. Labels are copied
// with fresh ids; archived lists and cards are skipped. Templates may be
// copied, which is how a board is created from a template.
func (e *Engine) CopyBoard(src *entities.Board, newTitle string, copier entities.UserRef) (*entities.Board, error) {
	if src.IsArchived() {
		return nil, &entities.ArchivedError{Kind: entities.KindBoard, ID: src.ID}
	}

	b := &entities.Board{
		ID:            e.newID(),
		Title:         pickTitle(newTitle, src.Title),
		Accessibility: src.Accessibility,
		CreatedBy:     copier.ID,
		CreatedAt:     e.now(),
		Owners:        []entities.UserRef{copier},
	}
	e.tracker.Save(b)
	for _, l := range src.Labels {
		e.copyLabel(l, b)
	}
	next := 0
	for _, l := range src.Lists {
		if l.IsArchived() {
			continue
		}
		e.copyList(l, b, "", next)
		next++
	}
	return b, nil
}

// CopyList clones src onto target at pos together with its non-archived cards.
func (e *Engine) CopyList(src *entities.List, target *entities.Board, newTitle string, pos int) (*entities.List, error) {
	const op = "copy list"
	if src.IsArchived() {
		return nil, entities.Invalid(op, "source list is archived", &entities.ArchivedError{Kind: entities.KindList, ID: src.ID})
	}
	if err := validateTarget(target, op, "target board", true); err != nil {
		return nil, err
	}
	return e.copyList(src, target, newTitle, pos), nil
}

// CopyCard clones src into target at pos. Labels and assignees survive only
// when target is on the same board as src.
func (e *Engine) CopyCard(src *entities.Card, target *entities.List, newTitle string, pos int) (*entities.Card, error) {
	const op = "copy card"
	if src.IsArchived() {
		return nil, entities.Invalid(op, "source card is archived", &entities.ArchivedError{Kind: entities.KindCard, ID: src.ID})
	}
	if err := validateTarget(target, op, "target list", true); err != nil {
		return nil, err
	}
	return e.copyCard(src, target, newTitle, pos), nil
}

// CopyChecklist clones src and its tasks onto target at pos.
func (e *Engine) CopyChecklist(src *entities.Checklist, target *entities.Card, newTitle string, pos int) (*entities.Checklist, error) {
	if err := validateTarget(target, "copy checklist", "target card", false); err != nil {
		return nil, err
	}
	return e.copyChecklist(src, target, newTitle, pos), nil
}

// CopyComment clones src onto target with a fresh creation stamp.
func (e *Engine) CopyComment(src *entities.Comment, target *entities.Card) (*entities.Comment, error) {
	const op = "copy comment"
	if src.IsDeleted {
		return nil, entities.Invalid(op, "source comment is deleted", nil)
	}
	if err := validateTarget(target, op, "target card", false); err != nil {
		return nil, err
	}
	return e.copyComment(src, target), nil
}

// CopyTask appends a clone of src to target.
func (e *Engine) CopyTask(src *entities.Task, target *entities.Checklist, newTitle string) (*entities.Task, error) {
	if err := validateTarget(target, "copy task", "target checklist", false); err != nil {
		return nil, err
	}
	return e.copyTask(src, target, newTitle), nil
}

// The unexported walkers below assume validation already passed.

func (e *Engine) copyLabel(src *entities.Label, target *entities.Board) *entities.Label {
	l := &entities.Label{ID: e.newID(), Name: src.Name, Color: src.Color}
	target.AddLabel(l)
	e.tracker.Save(l)
	return l
}

func (e *Engine) copyList(src *entities.List, target *entities.Board, newTitle string, pos int) *entities.List {
	l := &entities.List{ID: e.newID(), Title: pickTitle(newTitle, src.Title)}
	target.InsertList(l, pos)
	e.tracker.Save(target)
	e.tracker.Save(l)

	// Each card lands at the next slot of the running index so the copies
	// keep the source order.
	next := 0
	for _, c := range src.Cards {
		if c.IsArchived() {
			continue
		}
		e.copyCard(c, l, "", next)
		next++
	}
	return l
}

func (e *Engine) copyCard(src *entities.Card, target *entities.List, newTitle string, pos int) *entities.Card {
	c := &entities.Card{
		ID:          e.newID(),
		Title:       pickTitle(newTitle, src.Title),
		Description: src.Description,
		Due:         copyTime(src.Due),
		CreatedAt:   e.now(),
	}
	srcBoard := entities.OwningBoard(src)
	target.InsertCard(c, pos)
	if srcBoard != nil && srcBoard == entities.OwningBoard(target) {
		c.Labels = append([]entities.LabelRef(nil), src.Labels...)
		c.AssignedUsers = append([]entities.UserRef(nil), src.AssignedUsers...)
	}
	e.tracker.Save(target)
	e.tracker.Save(c)

	for i, cl := range src.Checklists {
		e.copyChecklist(cl, c, "", i)
	}
	for _, cm := range src.Comments {
		if cm.IsDeleted {
			continue
		}
		e.copyComment(cm, c)
	}
	return c
}

func (e *Engine) copyChecklist(src *entities.Checklist, target *entities.Card, newTitle string, pos int) *entities.Checklist {
	cl := &entities.Checklist{ID: e.newID(), Title: pickTitle(newTitle, src.Title)}
	target.InsertChecklist(cl, pos)
	e.tracker.Save(target)
	e.tracker.Save(cl)
	for _, t := range src.Tasks {
		e.copyTask(t, cl, "")
	}
	return cl
}

func (e *Engine) copyTask(src *entities.Task, target *entities.Checklist, newTitle string) *entities.Task {
	t := &entities.Task{ID: e.newID(), Title: pickTitle(newTitle, src.Title), IsDone: src.IsDone}
	target.AppendTask(t)
	e.tracker.Save(t)
	return t
}

func (e *Engine) copyComment(src *entities.Comment, target *entities.Card) *entities.Comment {
	cm := &entities.Comment{
		ID:        e.newID(),
		Creator:   src.Creator,
		Text:      src.Text,
		CreatedAt: e.now(),
	}
	target.AppendComment(cm)
	e.tracker.Save(cm)
	return cm
}
