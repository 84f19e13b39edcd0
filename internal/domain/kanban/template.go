package kanban

import (
	"github.com/taskmaster/boards/internal/domain/entities"
)

// CreateTemplateFromBoard builds a reusable template from src: labels and list
// titles only. The walk stops at lists, so no card is ever copied, and the
// template has no owners, members or teams.
func (e *Engine) CreateTemplateFromBoard(src *entities.Board, creator entities.UserRef) (*entities.Board, error) {
	const op = "create template"
	if src.IsTemplate {
		return nil, entities.Invalid(op, "source board is already a template", &entities.TemplateViolationError{BoardID: src.ID, Op: op})
	}
	if src.IsArchived() {
		return nil, entities.Invalid(op, "source board is archived", &entities.ArchivedError{Kind: entities.KindBoard, ID: src.ID})
	}

	tpl := &entities.Board{
		ID:            e.newID(),
		Title:         src.Title,
		Accessibility: src.Accessibility,
		IsTemplate:    true,
		CreatedBy:     creator.ID,
		CreatedAt:     e.now(),
	}
	e.tracker.Save(tpl)
	for _, l := range src.Labels {
		e.copyLabel(l, tpl)
	}
	for _, l := range src.Lists {
		if l.IsArchived() {
			continue
		}
		nl := &entities.List{ID: e.newID(), Title: l.Title}
		tpl.InsertList(nl, len(tpl.Lists))
		e.tracker.Save(nl)
	}
	return tpl, nil
}
