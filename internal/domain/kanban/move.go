package kanban

import (
	"fmt"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// Move relocates item into target at pos and returns target.
func (e *Engine) Move(item, target entities.Entity, pos int) (entities.Entity, error) {
	switch v := item.(type) {
	case *entities.List:
		b, ok := target.(*entities.Board)
		if !ok {
			return nil, wrongTarget("move", item, target)
		}
		if _, err := e.MoveList(v, b, pos); err != nil {
			return nil, err
		}
		return b, nil
	case *entities.Card:
		l, ok := target.(*entities.List)
		if !ok {
			return nil, wrongTarget("move", item, target)
		}
		if _, err := e.MoveCard(v, l, pos); err != nil {
			return nil, err
		}
		return l, nil
	case *entities.Checklist:
		c, ok := target.(*entities.Card)
		if !ok {
			return nil, wrongTarget("move", item, target)
		}
		if _, err := e.MoveChecklist(v, c, pos); err != nil {
			return nil, err
		}
		return c, nil
	case *entities.Task:
		cl, ok := target.(*entities.Checklist)
		if !ok {
			return nil, wrongTarget("move", item, target)
		}
		if _, err := e.MoveTask(v, cl, pos); err != nil {
			return nil, err
		}
		return cl, nil
	default:
		return nil, entities.Invalid("move", fmt.Sprintf("a %s cannot be moved", item.EntityKind()), nil)
	}
}

// MoveList moves l onto target at pos. Crossing boards drops every label and
// assignee reference on the list's cards.
func (e *Engine) MoveList(l *entities.List, target *entities.Board, pos int) (*entities.Board, error) {
	const op = "move list"
	if l.IsArchived() {
		return nil, &entities.ArchivedError{Kind: entities.KindList, ID: l.ID}
	}
	src := l.Board
	if src == nil {
		return nil, entities.Invalid(op, "list is not attached to a board", nil)
	}
	if err := validateBoardContent(src, op); err != nil {
		return nil, err
	}
	if err := validateTarget(target, op, "target board", false); err != nil {
		return nil, err
	}

	cur := src.RemoveList(l)
	pos = adjustSameContainer(src == target, cur, pos)
	target.InsertList(l, pos)

	e.tracker.Save(src)
	e.tracker.Save(target)
	e.tracker.Save(l)
	if src != target {
		for _, c := range l.Cards {
			if c.ClearBoardReferences() {
				e.tracker.Save(c)
			}
		}
	}
	return target, nil
}

// MoveCard moves c into target at pos. When target sits on another board the
// card loses its labels and assignees.
func (e *Engine) MoveCard(c *entities.Card, target *entities.List, pos int) (*entities.List, error) {
	const op = "move card"
	if c.IsArchived() {
		return nil, &entities.ArchivedError{Kind: entities.KindCard, ID: c.ID}
	}
	src := c.List
	if src == nil {
		return nil, entities.Invalid(op, "card is not attached to a list", nil)
	}
	if err := ValidateCanEdit(src); err != nil {
		return nil, err
	}
	if err := validateTarget(target, op, "target list", false); err != nil {
		return nil, err
	}

	crossBoard := entities.OwningBoard(src) != entities.OwningBoard(target)
	cur := src.RemoveCard(c)
	pos = adjustSameContainer(src == target, cur, pos)
	target.InsertCard(c, pos)

	if crossBoard {
		c.ClearBoardReferences()
	}
	e.tracker.Save(src)
	e.tracker.Save(target)
	e.tracker.Save(c)
	return target, nil
}

// MoveChecklist moves cl onto target at pos.
func (e *Engine) MoveChecklist(cl *entities.Checklist, target *entities.Card, pos int) (*entities.Card, error) {
	const op = "move checklist"
	src := cl.Card
	if src == nil {
		return nil, entities.Invalid(op, "checklist is not attached to a card", nil)
	}
	if err := ValidateCanEdit(src); err != nil {
		return nil, err
	}
	if err := validateTarget(target, op, "target card", false); err != nil {
		return nil, err
	}

	cur := src.RemoveChecklist(cl)
	pos = adjustSameContainer(src == target, cur, pos)
	target.InsertChecklist(cl, pos)

	e.tracker.Save(src)
	e.tracker.Save(target)
	e.tracker.Save(cl)
	return target, nil
}

// MoveTask moves t into target at pos.
func (e *Engine) MoveTask(t *entities.Task, target *entities.Checklist, pos int) (*entities.Checklist, error) {
	const op = "move task"
	src := t.Checklist
	if src == nil {
		return nil, entities.Invalid(op, "task is not attached to a checklist", nil)
	}
	if err := ValidateCanEdit(src); err != nil {
		return nil, err
	}
	if err := validateTarget(target, op, "target checklist", false); err != nil {
		return nil, err
	}

	cur := src.RemoveTask(t)
	pos = adjustSameContainer(src == target, cur, pos)
	target.InsertTask(t, pos)

	e.tracker.Save(src)
	e.tracker.Save(target)
	e.tracker.Save(t)
	return target, nil
}

// adjustSameContainer maps pos, a gap in the sequence before the item was
// detached, onto the shortened sequence. Moving to the item's own index or
// the gap right after it leaves the order unchanged.
func adjustSameContainer(same bool, cur, pos int) int {
	if same && cur >= 0 && pos > cur {
		return pos - 1
	}
	return pos
}

func wrongTarget(op string, item, target entities.Entity) error {
	kind := entities.Kind("nothing")
	if target != nil {
		kind = target.EntityKind()
	}
	return entities.Invalid(op, fmt.Sprintf("a %s cannot be placed into a %s", item.EntityKind(), kind), nil)
}
