package kanban

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/boards/internal/domain/entities"
)

func TestCopyListPreservesOrderAndSkipsArchived(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), []string{"1", "2", "3", "4"}, []string{"x"})
	b.Lists[0].Cards[2].ArchivedAt = archive(fixedNow)

	got, err := e.CopyList(b.Lists[0], b, "", 1)
	require.NoError(t, err)

	assert.NotEqual(t, b.Lists[0].ID, got.ID)
	assert.Equal(t, "L0", got.Title)
	assert.Equal(t, []string{"1", "2", "4"}, titles(got))
	assert.Same(t, got, b.Lists[1])
	assert.Equal(t, []string{"1", "2", "3", "4"}, titles(b.Lists[0]))
	requireContiguous(t, b)
}

func TestCopyBoard(t *testing.T) {
	e, rec := newEngine(t)
	owner, member, copier := user(), user(), user()
	src := board(owner, []string{"a", "b", "c"}, []string{"d"}, []string{"e"})
	src.Members = []entities.UserRef{member}
	src.Teams = []entities.TeamRef{{ID: uuid.New()}}
	red := label(src, "red")
	label(src, "blue")
	src.Lists[0].Cards[0].Labels = []entities.LabelRef{{ID: red.ID}}
	src.Lists[0].Cards[0].AssignedUsers = []entities.UserRef{member}
	src.Lists[0].Cards[1].ArchivedAt = archive(fixedNow)
	src.Lists[1].ArchivedAt = archive(fixedNow)

	got, err := e.CopyBoard(src, "copy", copier)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, got.ID)
	assert.Equal(t, "copy", got.Title)
	assert.Equal(t, []entities.UserRef{copier}, got.Owners)
	assert.Empty(t, got.Members)
	assert.Empty(t, got.Teams)
	assert.Equal(t, copier.ID, got.CreatedBy)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.False(t, got.IsTemplate)

	require.Len(t, got.Labels, 2)
	assert.NotEqual(t, red.ID, got.Labels[0].ID)
	assert.Equal(t, "red", got.Labels[0].Name)
	assert.Same(t, got, got.Labels[0].Board)

	assert.Equal(t, []string{"L0", "L2"}, listTitles(got))
	assert.Equal(t, []string{"a", "c"}, titles(got.Lists[0]))
	assert.Equal(t, []string{"e"}, titles(got.Lists[1]))
	assert.Empty(t, got.Lists[0].Cards[0].Labels)
	assert.Empty(t, got.Lists[0].Cards[0].AssignedUsers)
	requireContiguous(t, got)
	assert.True(t, rec.wasSaved(got))
}

func TestCopyBoardFromTemplate(t *testing.T) {
	e, _ := newEngine(t)
	tpl := board(user(), nil, nil)
	tpl.IsTemplate = true
	tpl.Owners = nil

	got, err := e.CopyBoard(tpl, "", user())
	require.NoError(t, err)
	assert.False(t, got.IsTemplate)
	assert.Len(t, got.Lists, 2)
}

func TestCopyBoardRejectsArchived(t *testing.T) {
	e, _ := newEngine(t)
	src := board(user())
	src.ArchivedAt = archive(fixedNow)

	_, err := e.Copy(src, nil, "", user(), 0)
	require.ErrorIs(t, err, entities.ErrArchived)
}

func TestCopyCard(t *testing.T) {
	owner, member := user(), user()
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	setup := func() (*entities.Board, *entities.Card) {
		b := board(owner, []string{"a"}, []string{"b"})
		b.Members = []entities.UserRef{member}
		red := label(b, "red")
		c := b.Lists[0].Cards[0]
		c.Description = "desc"
		c.Due = &due
		c.Labels = []entities.LabelRef{{ID: red.ID}}
		c.AssignedUsers = []entities.UserRef{member}
		checklist(c, "todo", "t1", "t2")
		c.AppendComment(&entities.Comment{ID: uuid.New(), Creator: member, Text: "kept", CreatedAt: fixedNow.Add(-48 * time.Hour)})
		c.AppendComment(&entities.Comment{ID: uuid.New(), Creator: owner, Text: "gone", IsDeleted: true})
		return b, c
	}

	t.Run("same board", func(t *testing.T) {
		e, _ := newEngine(t)
		b, c := setup()

		got, err := e.CopyCard(c, b.Lists[1], "renamed", 0)
		require.NoError(t, err)

		assert.NotEqual(t, c.ID, got.ID)
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, "desc", got.Description)
		require.NotNil(t, got.Due)
		assert.Equal(t, due, *got.Due)
		assert.NotSame(t, c.Due, got.Due)
		assert.Equal(t, fixedNow, got.CreatedAt)
		assert.Equal(t, c.Labels, got.Labels)
		assert.Equal(t, c.AssignedUsers, got.AssignedUsers)

		require.Len(t, got.Checklists, 1)
		cl := got.Checklists[0]
		assert.NotEqual(t, c.Checklists[0].ID, cl.ID)
		require.Len(t, cl.Tasks, 2)
		assert.Equal(t, "t1", cl.Tasks[0].Title)
		assert.True(t, cl.Tasks[0].IsDone)
		assert.False(t, cl.Tasks[1].IsDone)

		require.Len(t, got.Comments, 1)
		cm := got.Comments[0]
		assert.Equal(t, "kept", cm.Text)
		assert.Equal(t, member, cm.Creator)
		assert.Equal(t, fixedNow, cm.CreatedAt)
		assert.Same(t, got, cm.Card)

		assert.Equal(t, []string{"renamed", "b"}, titles(b.Lists[1]))
		requireContiguous(t, b)
	})

	t.Run("other board strips references", func(t *testing.T) {
		e, _ := newEngine(t)
		_, c := setup()
		other := board(owner, []string{"z"})

		got, err := e.CopyCard(c, other.Lists[0], "", 5)
		require.NoError(t, err)
		assert.Equal(t, "a", got.Title)
		assert.Empty(t, got.Labels)
		assert.Empty(t, got.AssignedUsers)
		assert.Equal(t, []string{"z", "a"}, titles(other.Lists[0]))
		assert.Len(t, c.Labels, 1)
	})
}

func TestCopyRejections(t *testing.T) {
	t.Run("archived card", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), []string{"a"})
		b.Lists[0].Cards[0].ArchivedAt = archive(fixedNow)

		_, err := e.Copy(b.Lists[0].Cards[0], b.Lists[0], "", user(), 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		require.ErrorIs(t, err, entities.ErrArchived)
		assert.Len(t, b.Lists[0].Cards, 1)
	})

	t.Run("card onto template", func(t *testing.T) {
		e, rec := newEngine(t)
		b := board(user(), []string{"a"})
		tpl := board(user(), nil)
		tpl.IsTemplate = true

		_, err := e.Copy(b.Lists[0].Cards[0], tpl.Lists[0], "", user(), 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		assert.Empty(t, tpl.Lists[0].Cards)
		assert.Empty(t, rec.saved)
	})

	t.Run("list into archived board", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), []string{"a"})
		dst := board(user())
		dst.ArchivedAt = archive(fixedNow)

		_, err := e.CopyList(b.Lists[0], dst, "", 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		require.ErrorIs(t, err, entities.ErrArchived)
	})

	t.Run("archived list", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), []string{"a"})
		b.Lists[0].ArchivedAt = archive(fixedNow)

		_, err := e.CopyList(b.Lists[0], b, "", 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
	})

	t.Run("deleted comment", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), []string{"a"})
		c := b.Lists[0].Cards[0]
		cm := &entities.Comment{ID: uuid.New(), Text: "x", IsDeleted: true}
		c.AppendComment(cm)

		_, err := e.Copy(cm, c, "", user(), 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		assert.Len(t, c.Comments, 1)
	})

	t.Run("board with target", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user())

		_, err := e.Copy(b, board(user()), "", user(), 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
	})
}

func TestCopyChecklistTaskAndComment(t *testing.T) {
	e, _ := newEngine(t)
	author := user()
	b := board(author, []string{"a", "b"})
	a, bc := b.Lists[0].Cards[0], b.Lists[0].Cards[1]
	src := checklist(a, "todo", "t1", "t2", "t3")
	checklist(bc, "existing")

	cl, err := e.CopyChecklist(src, bc, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "todo", cl.Title)
	assert.Same(t, cl, bc.Checklists[0])
	require.Len(t, cl.Tasks, 3)
	for i := range src.Tasks {
		assert.Equal(t, src.Tasks[i].Title, cl.Tasks[i].Title)
		assert.Equal(t, src.Tasks[i].IsDone, cl.Tasks[i].IsDone)
		assert.NotEqual(t, src.Tasks[i].ID, cl.Tasks[i].ID)
	}

	task, err := e.CopyTask(src.Tasks[0], bc.Checklists[1], "")
	require.NoError(t, err)
	assert.Same(t, task, bc.Checklists[1].Tasks[len(bc.Checklists[1].Tasks)-1])
	assert.True(t, task.IsDone)

	orig := &entities.Comment{ID: uuid.New(), Creator: author, Text: "hello", CreatedAt: fixedNow.Add(-time.Hour)}
	a.AppendComment(orig)
	cm, err := e.CopyComment(orig, bc)
	require.NoError(t, err)
	assert.NotEqual(t, orig.ID, cm.ID)
	assert.Equal(t, "hello", cm.Text)
	assert.Equal(t, author, cm.Creator)
	assert.Equal(t, fixedNow, cm.CreatedAt)
	requireContiguous(t, b)
}
