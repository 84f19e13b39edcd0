package kanban

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/boards/internal/domain/entities"
)

func TestValidateCanEditWalksAncestors(t *testing.T) {
	b := board(user(), []string{"a"})
	c := b.Lists[0].Cards[0]
	cl := checklist(c, "todo", "t1")

	require.NoError(t, ValidateCanEdit(cl.Tasks[0]))

	b.ArchivedAt = archive(fixedNow)
	err := ValidateCanEdit(cl.Tasks[0])
	var archived *entities.ArchivedError
	require.True(t, errors.As(err, &archived))
	assert.Equal(t, entities.KindBoard, archived.Kind)
	assert.Equal(t, b.ID, archived.ID)
}

func TestArchiveAndRestore(t *testing.T) {
	e, rec := newEngine(t)
	b := board(user(), []string{"a"})
	l := b.Lists[0]
	c := l.Cards[0]
	at := time.Date(2024, 2, 2, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	require.NoError(t, e.Archive(c, at))
	require.NotNil(t, c.ArchivedAt)
	assert.Equal(t, at.UTC(), *c.ArchivedAt)
	assert.True(t, rec.wasSaved(c))

	err := e.Archive(c, at)
	require.ErrorIs(t, err, entities.ErrArchived)

	require.NoError(t, e.Archive(l, at))
	err = e.Restore(c)
	require.ErrorIs(t, err, entities.ErrArchived)

	require.NoError(t, e.Restore(l))
	require.NoError(t, e.Restore(c))
	assert.Nil(t, c.ArchivedAt)
	assert.Nil(t, l.ArchivedAt)

	err = e.Restore(c)
	require.ErrorIs(t, err, entities.ErrInvalidOperation)
}

func TestArchiveBoardBlocksDescendants(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), []string{"a"}, nil)
	require.NoError(t, e.Archive(b, fixedNow))

	_, err := e.CreateCard(b.Lists[0], "x", "", nil, 0)
	require.ErrorIs(t, err, entities.ErrArchived)

	err = e.Archive(b.Lists[1], fixedNow)
	require.ErrorIs(t, err, entities.ErrArchived)

	require.NoError(t, e.Restore(b))
	_, err = e.CreateCard(b.Lists[0], "x", "", nil, 0)
	require.NoError(t, err)
}

func TestArchiveRejectsOtherKinds(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), []string{"a"})
	cl := checklist(b.Lists[0].Cards[0], "todo")

	require.ErrorIs(t, e.Archive(cl, fixedNow), entities.ErrInvalidOperation)
	require.ErrorIs(t, e.Restore(cl), entities.ErrInvalidOperation)
}

func TestArchiveListOnTemplate(t *testing.T) {
	e, _ := newEngine(t)
	tpl := board(user(), nil)
	tpl.IsTemplate = true

	require.ErrorIs(t, e.Archive(tpl.Lists[0], fixedNow), entities.ErrTemplateViolation)
	assert.Nil(t, tpl.Lists[0].ArchivedAt)
}
