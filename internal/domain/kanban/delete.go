package kanban

import (
	"fmt"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// Delete removes item and everything it owns. Comments are soft-deleted.
// Shared references (labels, users) held by removed cards are dropped, never
// the labels or users themselves.
func (e *Engine) Delete(item entities.Entity) error {
	switch v := item.(type) {
	case *entities.Board:
		return e.DeleteBoard(v)
	case *entities.List:
		return e.DeleteList(v)
	case *entities.Card:
		return e.DeleteCard(v)
	case *entities.Checklist:
		return e.DeleteChecklist(v)
	case *entities.Task:
		return e.DeleteTask(v)
	case *entities.Comment:
		return e.DeleteComment(v)
	case *entities.Label:
		return e.DeleteLabel(v)
	case *entities.Document:
		return e.DeleteDocument(v)
	default:
		return entities.Invalid("delete", fmt.Sprintf("unsupported entity %T", item), nil)
	}
}

// DeleteBoard removes b with all lists, cards and labels.
func (e *Engine) DeleteBoard(b *entities.Board) error {
	for _, l := range b.Lists {
		e.deleteListTree(l)
	}
	for _, l := range b.Labels {
		e.tracker.Delete(l)
	}
	b.Lists = nil
	b.Labels = nil
	e.tracker.Delete(b)
	return nil
}

// DeleteList removes l and its cards. Archived lists may be deleted.
func (e *Engine) DeleteList(l *entities.List) error {
	b := l.Board
	if b == nil {
		return entities.Invalid("delete list", "list is not attached to a board", nil)
	}
	if err := validateBoardContent(b, "delete list"); err != nil {
		return err
	}
	b.RemoveList(l)
	e.deleteListTree(l)
	e.tracker.Save(b)
	return nil
}

// DeleteCard removes c with its checklists, comments and documents.
func (e *Engine) DeleteCard(c *entities.Card) error {
	l := c.List
	if l == nil {
		return entities.Invalid("delete card", "card is not attached to a list", nil)
	}
	if err := ValidateCanEdit(l); err != nil {
		return err
	}
	l.RemoveCard(c)
	e.deleteCardTree(c)
	e.tracker.Save(l)
	return nil
}

// DeleteChecklist removes cl and its tasks.
func (e *Engine) DeleteChecklist(cl *entities.Checklist) error {
	c := cl.Card
	if c == nil {
		return entities.Invalid("delete checklist", "checklist is not attached to a card", nil)
	}
	if err := ValidateCanEdit(c); err != nil {
		return err
	}
	c.RemoveChecklist(cl)
	e.deleteChecklistTree(cl)
	e.tracker.Save(c)
	return nil
}

func (e *Engine) DeleteTask(t *entities.Task) error {
	cl := t.Checklist
	if cl == nil {
		return entities.Invalid("delete task", "task is not attached to a checklist", nil)
	}
	if err := ValidateCanEdit(cl); err != nil {
		return err
	}
	cl.RemoveTask(t)
	e.tracker.Delete(t)
	e.tracker.Save(cl)
	return nil
}

func (e *Engine) DeleteDocument(d *entities.Document) error {
	c := d.Card
	if c == nil {
		return entities.Invalid("delete document", "document is not attached to a card", nil)
	}
	if err := ValidateCanEdit(c); err != nil {
		return err
	}
	c.RemoveDocument(d)
	e.tracker.Delete(d)
	return nil
}

// DeleteComment marks cm deleted. The row stays for notification links.
func (e *Engine) DeleteComment(cm *entities.Comment) error {
	if cm.IsDeleted {
		return entities.Invalid("delete comment", "comment is already deleted", nil)
	}
	if err := ValidateCanEdit(cm); err != nil {
		return err
	}
	cm.IsDeleted = true
	e.tracker.Save(cm)
	return nil
}

// DeleteLabel removes l from its board after clearing every card reference to it.
func (e *Engine) DeleteLabel(l *entities.Label) error {
	b := l.Board
	if b == nil {
		return entities.Invalid("delete label", "label is not attached to a board", nil)
	}
	if err := validateBoardContent(b, "delete label"); err != nil {
		return err
	}
	for _, c := range b.Cards() {
		if c.RemoveLabelRef(l.ID) {
			e.tracker.Save(c)
		}
	}
	b.RemoveLabel(l)
	e.tracker.Delete(l)
	return nil
}

func (e *Engine) deleteListTree(l *entities.List) {
	for _, c := range l.Cards {
		e.deleteCardTree(c)
	}
	l.Cards = nil
	e.tracker.Delete(l)
}

func (e *Engine) deleteCardTree(c *entities.Card) {
	for _, cl := range c.Checklists {
		e.deleteChecklistTree(cl)
	}
	for _, cm := range c.Comments {
		e.tracker.Delete(cm)
	}
	for _, d := range c.Documents {
		e.tracker.Delete(d)
	}
	c.ClearBoardReferences()
	c.Checklists = nil
	c.Comments = nil
	c.Documents = nil
	e.tracker.Delete(c)
}

func (e *Engine) deleteChecklistTree(cl *entities.Checklist) {
	for _, t := range cl.Tasks {
		e.tracker.Delete(t)
	}
	cl.Tasks = nil
	e.tracker.Delete(cl)
}
