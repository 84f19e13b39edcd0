package kanban

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/boards/internal/domain/entities"
)

func TestCreateFactories(t *testing.T) {
	e, rec := newEngine(t)
	creator := user()

	b, err := e.CreateBoard("roadmap", entities.AccessibilityRestricted, creator)
	require.NoError(t, err)
	assert.Equal(t, []entities.UserRef{creator}, b.Owners)
	assert.Equal(t, fixedNow, b.CreatedAt)

	todo, err := e.CreateList(b, "todo", 0)
	require.NoError(t, err)
	done, err := e.CreateList(b, "done", 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"todo", "done"}, listTitles(b))

	due := fixedNow.Add(24 * time.Hour)
	c, err := e.CreateCard(todo, "write", "docs", &due, 0)
	require.NoError(t, err)
	assert.Equal(t, due, *c.Due)
	assert.Same(t, todo, c.List)

	cl, err := e.CreateChecklist(c, "steps", 0)
	require.NoError(t, err)
	task, err := e.CreateTask(cl, "draft", 0)
	require.NoError(t, err)
	require.NoError(t, e.SetTaskDone(task, true))
	assert.Equal(t, 1, cl.DoneCount())

	cm, err := e.CreateComment(c, creator, "on it")
	require.NoError(t, err)
	assert.Equal(t, fixedNow, cm.CreatedAt)

	lbl, err := e.CreateLabel(b, "urgent", "#f00")
	require.NoError(t, err)
	assert.Same(t, b, lbl.Board)

	doc, err := e.AttachDocument(c, "brief.pdf", "application/pdf", 1024, "cards/"+c.ID.String()+"/brief.pdf")
	require.NoError(t, err)
	assert.Same(t, c, doc.Card)

	requireContiguous(t, b)
	for _, ent := range []entities.Entity{b, todo, done, c, cl, task, cm, lbl, doc} {
		assert.True(t, rec.wasSaved(ent), "%s should be saved", ent.EntityKind())
	}
}

func TestCreateValidation(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.CreateBoard(" ", entities.AccessibilityPublic, user())
	require.ErrorIs(t, err, entities.ErrInvalidOperation)

	_, err = e.CreateBoard("x", entities.Accessibility("secret"), user())
	require.ErrorIs(t, err, entities.ErrInvalidOperation)

	b := board(user(), []string{"a"})
	_, err = e.CreateComment(b.Lists[0].Cards[0], user(), "")
	require.ErrorIs(t, err, entities.ErrInvalidOperation)

	_, err = e.AttachDocument(b.Lists[0].Cards[0], "f", "text/plain", 1, "")
	require.ErrorIs(t, err, entities.ErrInvalidOperation)
}

func TestCardLabelsMustBelongToBoard(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), []string{"a"})
	c := b.Lists[0].Cards[0]
	own := label(b, "own")
	foreign := label(board(user()), "foreign")

	require.NoError(t, e.AddLabelToCard(c, own))
	require.NoError(t, e.AddLabelToCard(c, own))
	assert.Equal(t, []entities.LabelRef{{ID: own.ID}}, c.Labels)

	require.ErrorIs(t, e.AddLabelToCard(c, foreign), entities.ErrInvalidOperation)

	require.NoError(t, e.RemoveLabelFromCard(c, own))
	assert.Empty(t, c.Labels)
}

func TestAssignUserRequiresParticipant(t *testing.T) {
	e, _ := newEngine(t)
	owner, member, stranger := user(), user(), user()
	b := board(owner, []string{"a"})
	c := b.Lists[0].Cards[0]

	require.ErrorIs(t, e.AssignUser(c, member), entities.ErrInvalidOperation)

	require.NoError(t, e.AddMember(b, member))
	require.NoError(t, e.AssignUser(c, member))
	require.NoError(t, e.AssignUser(c, owner))
	require.ErrorIs(t, e.AssignUser(c, stranger), entities.ErrInvalidOperation)
	assert.Equal(t, []entities.UserRef{member, owner}, c.AssignedUsers)

	require.NoError(t, e.UnassignUser(c, owner))
	assert.Equal(t, []entities.UserRef{member}, c.AssignedUsers)
}

func TestMembership(t *testing.T) {
	e, rec := newEngine(t)
	owner, member := user(), user()
	b := board(owner, []string{"a", "b"})
	require.NoError(t, e.AddMember(b, member))
	for _, c := range b.Lists[0].Cards {
		require.NoError(t, e.AssignUser(c, member))
	}

	require.ErrorIs(t, e.RemoveOwner(b, owner), entities.ErrInvalidOperation)

	require.NoError(t, e.AddOwner(b, member))
	assert.Empty(t, b.Members)
	assert.True(t, b.IsOwner(member.ID))

	require.NoError(t, e.RemoveOwner(b, member))
	assert.Equal(t, []entities.UserRef{owner}, b.Owners)
	for _, c := range b.Lists[0].Cards {
		assert.Empty(t, c.AssignedUsers)
		assert.True(t, rec.wasSaved(c))
	}

	require.NoError(t, e.AddMember(b, member))
	require.NoError(t, e.RemoveMember(b, member))
	require.ErrorIs(t, e.RemoveMember(b, member), entities.ErrInvalidOperation)

	team := entities.TeamRef{ID: uuid.New()}
	require.NoError(t, e.AssignTeam(b, team))
	require.NoError(t, e.AssignTeam(b, team))
	assert.Equal(t, []entities.TeamRef{team}, b.Teams)
}
