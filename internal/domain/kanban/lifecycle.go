package kanban

import (
	"github.com/taskmaster/boards/internal/domain/entities"
)

// ValidateCanEdit fails with *entities.ArchivedError when e or any of its
// ancestors is archived. The error names the archived node.
func ValidateCanEdit(e entities.Entity) error {
	for cur := e; cur != nil; cur = entities.Parent(cur) {
		if isArchived(cur) {
			return &entities.ArchivedError{Kind: cur.EntityKind(), ID: cur.EntityID()}
		}
	}
	return nil
}

// ValidateNotTemplate fails with *entities.TemplateViolationError when b is a
// template. Templates are populated only by CreateTemplateFromBoard.
func ValidateNotTemplate(b *entities.Board, op string) error {
	if b != nil && b.IsTemplate {
		return &entities.TemplateViolationError{BoardID: b.ID, Op: op}
	}
	return nil
}

// validateBoardContent is the guard for ordinary edits below a board.
func validateBoardContent(e entities.Entity, op string) error {
	if err := ValidateCanEdit(e); err != nil {
		return err
	}
	return ValidateNotTemplate(entities.OwningBoard(e), op)
}

// validateTarget checks a move or copy destination. Template destinations are
// reported as invalid operations wrapping the template violation.
func validateTarget(target entities.Entity, op, what string, wrapArchived bool) error {
	if err := ValidateCanEdit(target); err != nil {
		if wrapArchived {
			return entities.Invalid(op, what+" is not editable", err)
		}
		return err
	}
	if b := entities.OwningBoard(target); b != nil && b.IsTemplate {
		return entities.Invalid(op, "target board is a template", &entities.TemplateViolationError{BoardID: b.ID, Op: op})
	}
	return nil
}

func isArchived(e entities.Entity) bool {
	switch v := e.(type) {
	case *entities.Board:
		return v.IsArchived()
	case *entities.List:
		return v.IsArchived()
	case *entities.Card:
		return v.IsArchived()
	default:
		return false
	}
}
