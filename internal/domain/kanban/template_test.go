package kanban

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/boards/internal/domain/entities"
)

func TestCreateTemplateFromBoard(t *testing.T) {
	e, _ := newEngine(t)
	owner, member, creator := user(), user(), user()
	src := board(owner, []string{"a", "b", "c"}, nil)
	src.Members = []entities.UserRef{member}
	src.Teams = []entities.TeamRef{{ID: uuid.New()}}
	label(src, "red")
	label(src, "blue")

	tpl, err := e.CreateTemplateFromBoard(src, creator)
	require.NoError(t, err)

	assert.True(t, tpl.IsTemplate)
	assert.NotEqual(t, src.ID, tpl.ID)
	assert.Equal(t, creator.ID, tpl.CreatedBy)
	assert.Len(t, tpl.Lists, 2)
	assert.Empty(t, tpl.Cards())
	assert.Len(t, tpl.Labels, 2)
	assert.Empty(t, tpl.Owners)
	assert.Empty(t, tpl.Members)
	assert.Empty(t, tpl.Teams)
	assert.Equal(t, listTitles(src), listTitles(tpl))
	for i := range tpl.Labels {
		assert.NotEqual(t, src.Labels[i].ID, tpl.Labels[i].ID)
		assert.Equal(t, src.Labels[i].Name, tpl.Labels[i].Name)
	}
	requireContiguous(t, tpl)

	assert.Len(t, src.Lists[0].Cards, 3)
}

func TestCreateTemplateSkipsArchivedLists(t *testing.T) {
	e, _ := newEngine(t)
	src := board(user(), nil, nil, nil)
	src.Lists[1].ArchivedAt = archive(fixedNow)

	tpl, err := e.CreateTemplateFromBoard(src, user())
	require.NoError(t, err)
	assert.Equal(t, []string{"L0", "L2"}, listTitles(tpl))
}

func TestCreateTemplateRejections(t *testing.T) {
	t.Run("template of template", func(t *testing.T) {
		e, rec := newEngine(t)
		src := board(user(), nil)
		src.IsTemplate = true

		_, err := e.CreateTemplateFromBoard(src, user())
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		require.ErrorIs(t, err, entities.ErrTemplateViolation)
		assert.Empty(t, rec.saved)
	})

	t.Run("archived board", func(t *testing.T) {
		e, _ := newEngine(t)
		src := board(user(), nil)
		src.ArchivedAt = archive(fixedNow)

		_, err := e.CreateTemplateFromBoard(src, user())
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		require.ErrorIs(t, err, entities.ErrArchived)
	})
}

func TestTemplateRejectsOrdinaryEdits(t *testing.T) {
	e, _ := newEngine(t)
	tpl, err := e.CreateTemplateFromBoard(board(user(), nil), user())
	require.NoError(t, err)

	_, err = e.CreateCard(tpl.Lists[0], "card", "", nil, 0)
	require.ErrorIs(t, err, entities.ErrTemplateViolation)

	_, err = e.CreateList(tpl, "list", 0)
	require.ErrorIs(t, err, entities.ErrTemplateViolation)

	err = e.AddMember(tpl, user())
	require.ErrorIs(t, err, entities.ErrTemplateViolation)

	err = e.AssignTeam(tpl, entities.TeamRef{ID: uuid.New()})
	require.ErrorIs(t, err, entities.ErrTemplateViolation)

	assert.Len(t, tpl.Lists, 1)
	assert.Empty(t, tpl.Members)
}
