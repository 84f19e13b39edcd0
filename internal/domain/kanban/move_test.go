package kanban

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/boards/internal/domain/entities"
)

func TestMoveCardWithinList(t *testing.T) {
	tests := []struct {
		name  string
		card  int
		pos   int
		order []string
	}{
		{"forward across one gap", 0, 2, []string{"b", "a", "c", "d"}},
		{"to front", 3, 0, []string{"d", "a", "b", "c"}},
		{"own index is a no-op", 1, 1, []string{"a", "b", "c", "d"}},
		{"next gap is a no-op", 1, 2, []string{"a", "b", "c", "d"}},
		{"end slot", 0, 4, []string{"b", "c", "d", "a"}},
		{"beyond end is clamped", 1, 99, []string{"a", "c", "d", "b"}},
		{"negative is clamped", 2, -5, []string{"c", "a", "b", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(t)
			b := board(user(), []string{"a", "b", "c", "d"})
			l := b.Lists[0]

			got, err := e.MoveCard(l.Cards[tt.card], l, tt.pos)
			require.NoError(t, err)
			assert.Same(t, l, got)
			assert.Equal(t, tt.order, titles(l))
			requireContiguous(t, b)
		})
	}
}

func TestMoveIsIdempotentOnOrder(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), []string{"a", "b", "c", "d"})
	l := b.Lists[0]
	a := l.Cards[0]

	_, err := e.MoveCard(a, l, 3)
	require.NoError(t, err)
	once := titles(l)

	_, err = e.MoveCard(a, l, 3)
	require.NoError(t, err)
	assert.Equal(t, once, titles(l))
	assert.Equal(t, []string{"b", "c", "a", "d"}, once)
}

func TestMoveCardBetweenListsClosesGap(t *testing.T) {
	e, rec := newEngine(t)
	b := board(user(), []string{"a", "b", "c"}, []string{"x", "y"})
	src, dst := b.Lists[0], b.Lists[1]
	card := src.Cards[1]

	_, err := e.MoveCard(card, dst, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, titles(src))
	assert.Equal(t, []string{"x", "b", "y"}, titles(dst))
	assert.Same(t, dst, card.List)
	requireContiguous(t, b)
	assert.True(t, rec.wasSaved(src))
	assert.True(t, rec.wasSaved(dst))
	assert.True(t, rec.wasSaved(card))
}

func TestMoveCardBoardBoundary(t *testing.T) {
	owner := user()
	assignee := user()

	setup := func() (*entities.Board, *entities.Card) {
		b := board(owner, []string{"a"}, []string{"b"})
		b.Members = append(b.Members, assignee)
		l1, l2 := label(b, "red"), label(b, "blue")
		c := b.Lists[0].Cards[0]
		c.Labels = []entities.LabelRef{{ID: l1.ID}, {ID: l2.ID}}
		c.AssignedUsers = []entities.UserRef{assignee}
		return b, c
	}

	t.Run("same board keeps references", func(t *testing.T) {
		e, _ := newEngine(t)
		b, c := setup()
		_, err := e.MoveCard(c, b.Lists[1], 0)
		require.NoError(t, err)
		assert.Len(t, c.Labels, 2)
		assert.Equal(t, []entities.UserRef{assignee}, c.AssignedUsers)
	})

	t.Run("other board strips references", func(t *testing.T) {
		e, _ := newEngine(t)
		_, c := setup()
		other := board(owner, []string{"z"})
		_, err := e.MoveCard(c, other.Lists[0], 1)
		require.NoError(t, err)
		assert.Empty(t, c.Labels)
		assert.Empty(t, c.AssignedUsers)
		assert.Equal(t, []string{"z", "a"}, titles(other.Lists[0]))
	})
}

func TestMoveListAcrossBoardsStripsCards(t *testing.T) {
	e, rec := newEngine(t)
	owner := user()
	src := board(owner, []string{"a", "b"}, []string{"c"})
	red := label(src, "red")
	moved := src.Lists[0]
	for _, c := range moved.Cards {
		c.Labels = []entities.LabelRef{{ID: red.ID}}
		c.AssignedUsers = []entities.UserRef{owner}
	}
	dst := board(owner, []string{"x"})

	got, err := e.MoveList(moved, dst, 0)
	require.NoError(t, err)
	assert.Same(t, dst, got)
	assert.Equal(t, []string{"L1"}, listTitles(src))
	assert.Equal(t, []string{"L0", "L0"}, listTitles(dst))
	assert.Same(t, moved, dst.Lists[0])
	for _, c := range moved.Cards {
		assert.Empty(t, c.Labels)
		assert.Empty(t, c.AssignedUsers)
		assert.True(t, rec.wasSaved(c))
	}
	requireContiguous(t, src)
	requireContiguous(t, dst)
}

func TestMoveListWithinBoard(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), nil, nil, nil)
	first := b.Lists[0]

	_, err := e.MoveList(first, b, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"L1", "L2", "L0"}, listTitles(b))
	requireContiguous(t, b)
}

func TestMoveRejections(t *testing.T) {
	t.Run("archived card", func(t *testing.T) {
		e, rec := newEngine(t)
		b := board(user(), []string{"a"}, nil)
		c := b.Lists[0].Cards[0]
		c.ArchivedAt = archive(fixedNow)

		_, err := e.Move(c, b.Lists[1], 0)
		require.ErrorIs(t, err, entities.ErrArchived)
		var archived *entities.ArchivedError
		require.True(t, errors.As(err, &archived))
		assert.Equal(t, c.ID, archived.ID)
		assert.Equal(t, []string{"a"}, titles(b.Lists[0]))
		assert.Empty(t, rec.saved)
	})

	t.Run("card in archived list", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), []string{"a"}, nil)
		b.Lists[0].ArchivedAt = archive(fixedNow)

		_, err := e.MoveCard(b.Lists[0].Cards[0], b.Lists[1], 0)
		var archived *entities.ArchivedError
		require.True(t, errors.As(err, &archived))
		assert.Equal(t, entities.KindList, archived.Kind)
	})

	t.Run("archived target list", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), []string{"a"}, nil)
		b.Lists[1].ArchivedAt = archive(fixedNow)

		_, err := e.MoveCard(b.Lists[0].Cards[0], b.Lists[1], 0)
		require.ErrorIs(t, err, entities.ErrArchived)
		assert.Equal(t, []string{"a"}, titles(b.Lists[0]))
	})

	t.Run("list onto template", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), nil)
		tpl := board(user(), nil)
		tpl.IsTemplate = true

		_, err := e.MoveList(b.Lists[0], tpl, 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
		require.ErrorIs(t, err, entities.ErrTemplateViolation)
		assert.Len(t, b.Lists, 1)
		assert.Len(t, tpl.Lists, 1)
	})

	t.Run("list out of a template", func(t *testing.T) {
		e, _ := newEngine(t)
		tpl := board(user(), nil)
		tpl.IsTemplate = true

		_, err := e.MoveList(tpl.Lists[0], board(user()), 0)
		require.ErrorIs(t, err, entities.ErrTemplateViolation)
	})

	t.Run("wrong target kind", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user(), []string{"a"})

		_, err := e.Move(b.Lists[0].Cards[0], b, 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
	})

	t.Run("board cannot be moved", func(t *testing.T) {
		e, _ := newEngine(t)
		b := board(user())

		_, err := e.Move(b, nil, 0)
		require.ErrorIs(t, err, entities.ErrInvalidOperation)
	})
}

func TestMoveChecklistAndTask(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), []string{"a", "b"})
	a, bc := b.Lists[0].Cards[0], b.Lists[0].Cards[1]
	first := checklist(a, "first", "t1", "t2", "t3")
	checklist(a, "second")
	target := checklist(bc, "target", "u1")

	_, err := e.Move(first, bc, 0)
	require.NoError(t, err)
	assert.Len(t, a.Checklists, 1)
	assert.Equal(t, "second", a.Checklists[0].Title)
	assert.Same(t, first, bc.Checklists[0])
	assert.Same(t, target, bc.Checklists[1])

	task := first.Tasks[2]
	_, err = e.Move(task, target, 0)
	require.NoError(t, err)
	assert.Len(t, first.Tasks, 2)
	assert.Equal(t, []string{"t3", "u1"}, []string{target.Tasks[0].Title, target.Tasks[1].Title})
	requireContiguous(t, b)

	a.ArchivedAt = archive(fixedNow)
	_, err = e.MoveChecklist(a.Checklists[0], bc, 0)
	require.ErrorIs(t, err, entities.ErrArchived)
}

func TestMoveDispatch(t *testing.T) {
	e, _ := newEngine(t)
	b := board(user(), []string{"a", "b"}, []string{"c"})
	a := b.Lists[0].Cards[0]

	got, err := e.Move(a, b.Lists[1], 1)
	require.NoError(t, err)
	assert.Same(t, b.Lists[1], got)
	assert.Equal(t, 1, a.Position())

	_, err = e.Move(a, b, 0)
	assert.True(t, errors.Is(err, entities.ErrInvalidOperation))

	_, err = e.Move(b.Lists[0], nil, 0)
	assert.True(t, errors.Is(err, entities.ErrInvalidOperation))
	assert.Same(t, b, b.Lists[0].Board)
}
