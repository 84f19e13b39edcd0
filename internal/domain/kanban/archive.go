package kanban

import (
	"fmt"
	"time"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// Archive stamps item as archived at the given time. Boards, lists and cards
// can be archived.
func (e *Engine) Archive(item entities.Entity, at time.Time) error {
	const op = "archive"
	if err := ValidateCanEdit(item); err != nil {
		return err
	}
	stamp := at.UTC()
	switch v := item.(type) {
	case *entities.Board:
		v.ArchivedAt = &stamp
	case *entities.List:
		if err := ValidateNotTemplate(v.Board, op); err != nil {
			return err
		}
		v.ArchivedAt = &stamp
	case *entities.Card:
		v.ArchivedAt = &stamp
	default:
		return entities.Invalid(op, fmt.Sprintf("a %s cannot be archived", item.EntityKind()), nil)
	}
	e.tracker.Save(item)
	return nil
}

// Restore clears the archive stamp of item. The parent must be editable.
func (e *Engine) Restore(item entities.Entity) error {
	const op = "restore"
	switch v := item.(type) {
	case *entities.Board:
		if !v.IsArchived() {
			return notArchived(item)
		}
		v.ArchivedAt = nil
	case *entities.List:
		if !v.IsArchived() {
			return notArchived(item)
		}
		if err := validateBoardContent(v.Board, op); err != nil {
			return err
		}
		v.ArchivedAt = nil
	case *entities.Card:
		if !v.IsArchived() {
			return notArchived(item)
		}
		if err := ValidateCanEdit(v.List); err != nil {
			return err
		}
		v.ArchivedAt = nil
	default:
		return entities.Invalid(op, fmt.Sprintf("a %s cannot be restored", item.EntityKind()), nil)
	}
	e.tracker.Save(item)
	return nil
}

func notArchived(item entities.Entity) error {
	return entities.Invalid("restore", fmt.Sprintf("%s %s is not archived", item.EntityKind(), item.EntityID()), nil)
}
