package kanban

import (
	"fmt"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// AddLabelToCard tags c with label l. The label must belong to the card's board.
func (e *Engine) AddLabelToCard(c *entities.Card, l *entities.Label) error {
	const op = "add label"
	if err := validateBoardContent(c, op); err != nil {
		return err
	}
	b := entities.OwningBoard(c)
	if l.Board != b {
		return entities.Invalid(op, fmt.Sprintf("label %s belongs to another board", l.ID), nil)
	}
	if c.HasLabel(l.ID) {
		return nil
	}
	c.Labels = append(c.Labels, entities.LabelRef{ID: l.ID})
	e.tracker.Save(c)
	return nil
}

func (e *Engine) RemoveLabelFromCard(c *entities.Card, l *entities.Label) error {
	if err := validateBoardContent(c, "remove label"); err != nil {
		return err
	}
	if c.RemoveLabelRef(l.ID) {
		e.tracker.Save(c)
	}
	return nil
}

// AssignUser assigns user to c. Only owners and members of the board qualify.
func (e *Engine) AssignUser(c *entities.Card, user entities.UserRef) error {
	const op = "assign user"
	if err := validateBoardContent(c, op); err != nil {
		return err
	}
	b := entities.OwningBoard(c)
	if b == nil || !b.HasParticipant(user.ID) {
		return entities.Invalid(op, fmt.Sprintf("user %s is not a participant of the board", user.ID), nil)
	}
	if c.IsAssigned(user.ID) {
		return nil
	}
	c.AssignedUsers = append(c.AssignedUsers, user)
	e.tracker.Save(c)
	return nil
}

func (e *Engine) UnassignUser(c *entities.Card, user entities.UserRef) error {
	if err := validateBoardContent(c, "unassign user"); err != nil {
		return err
	}
	if c.Unassign(user.ID) {
		e.tracker.Save(c)
	}
	return nil
}

// AddMember grants user member access to b. Owners are left as they are.
func (e *Engine) AddMember(b *entities.Board, user entities.UserRef) error {
	if err := validateBoardContent(b, "add member"); err != nil {
		return err
	}
	if b.HasParticipant(user.ID) {
		return nil
	}
	b.Members = append(b.Members, user)
	e.tracker.Save(b)
	return nil
}

// AddOwner makes user an owner of b, promoting an existing member.
func (e *Engine) AddOwner(b *entities.Board, user entities.UserRef) error {
	if err := validateBoardContent(b, "add owner"); err != nil {
		return err
	}
	if b.IsOwner(user.ID) {
		return nil
	}
	b.Members, _ = entities.RemoveUserRef(b.Members, user.ID)
	b.Owners = append(b.Owners, user)
	e.tracker.Save(b)
	return nil
}

// RemoveMember revokes member access and unassigns user from every card of b.
func (e *Engine) RemoveMember(b *entities.Board, user entities.UserRef) error {
	const op = "remove member"
	if err := validateBoardContent(b, op); err != nil {
		return err
	}
	var ok bool
	b.Members, ok = entities.RemoveUserRef(b.Members, user.ID)
	if !ok {
		return entities.Invalid(op, fmt.Sprintf("user %s is not a member", user.ID), nil)
	}
	e.tracker.Save(b)
	e.unassignEverywhere(b, user)
	return nil
}

// RemoveOwner revokes ownership. The last owner of a board cannot be removed.
func (e *Engine) RemoveOwner(b *entities.Board, user entities.UserRef) error {
	const op = "remove owner"
	if err := validateBoardContent(b, op); err != nil {
		return err
	}
	if !b.IsOwner(user.ID) {
		return entities.Invalid(op, fmt.Sprintf("user %s is not an owner", user.ID), nil)
	}
	if len(b.Owners) == 1 {
		return entities.Invalid(op, "a board needs at least one owner", nil)
	}
	b.Owners, _ = entities.RemoveUserRef(b.Owners, user.ID)
	e.tracker.Save(b)
	e.unassignEverywhere(b, user)
	return nil
}

// AssignTeam gives team access to b.
func (e *Engine) AssignTeam(b *entities.Board, team entities.TeamRef) error {
	if err := validateBoardContent(b, "assign team"); err != nil {
		return err
	}
	if b.HasTeam(team.ID) {
		return nil
	}
	b.Teams = append(b.Teams, team)
	e.tracker.Save(b)
	return nil
}

func (e *Engine) unassignEverywhere(b *entities.Board, user entities.UserRef) {
	for _, c := range b.Cards() {
		if c.Unassign(user.ID) {
			e.tracker.Save(c)
		}
	}
}
