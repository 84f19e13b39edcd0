package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCards(l *List, titles ...string) []*Card {
	out := make([]*Card, 0, len(titles))
	for _, title := range titles {
		c := &Card{ID: uuid.New(), Title: title}
		l.InsertCard(c, len(l.Cards))
		out = append(out, c)
	}
	return out
}

func cardTitles(l *List) []string {
	out := make([]string, 0, len(l.Cards))
	for _, c := range l.Cards {
		out = append(out, c.Title)
	}
	return out
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		name      string
		size, req int
		want      int
	}{
		{"negative clamps to zero", 3, -4, 0},
		{"zero", 3, 0, 0},
		{"inside", 3, 2, 2},
		{"append slot", 3, 3, 3},
		{"beyond end clamps to size", 3, 42, 3},
		{"empty container", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePosition(tt.size, tt.req))
		})
	}
}

func TestListInsertCardShiftsSiblings(t *testing.T) {
	l := &List{ID: uuid.New()}
	cards := newCards(l, "a", "b", "c")

	x := &Card{ID: uuid.New(), Title: "x"}
	got := l.InsertCard(x, 1)

	assert.Equal(t, 1, got)
	assert.Equal(t, []string{"a", "x", "b", "c"}, cardTitles(l))
	assert.Same(t, l, x.List)
	assert.Equal(t, 2, cards[1].Position())
}

func TestListInsertCardClampsOutOfRange(t *testing.T) {
	l := &List{ID: uuid.New()}
	newCards(l, "a", "b")

	assert.Equal(t, 2, l.InsertCard(&Card{ID: uuid.New(), Title: "end"}, 99))
	assert.Equal(t, 0, l.InsertCard(&Card{ID: uuid.New(), Title: "start"}, -1))
	assert.Equal(t, []string{"start", "a", "b", "end"}, cardTitles(l))
}

func TestRemoveCardClosesGap(t *testing.T) {
	l := &List{ID: uuid.New()}
	cards := newCards(l, "a", "b", "c", "d")

	require.Equal(t, 1, l.RemoveCard(cards[1]))
	assert.Equal(t, []string{"a", "c", "d"}, cardTitles(l))
	for i, c := range l.Cards {
		assert.Equal(t, i, c.Position())
	}
	assert.Equal(t, -1, l.RemoveCard(cards[1]))
}

func TestPositionOfDetachedNodes(t *testing.T) {
	assert.Equal(t, -1, (&List{}).Position())
	assert.Equal(t, -1, (&Card{}).Position())
	assert.Equal(t, -1, (&Checklist{}).Position())
	assert.Equal(t, -1, (&Task{}).Position())
}

func TestBoardListOrdering(t *testing.T) {
	b := &Board{ID: uuid.New()}
	first := &List{ID: uuid.New(), Title: "first"}
	second := &List{ID: uuid.New(), Title: "second"}
	b.InsertList(second, 0)
	b.InsertList(first, 0)

	assert.Equal(t, 0, first.Position())
	assert.Equal(t, 1, second.Position())
	assert.Same(t, b, first.Board)

	b.RemoveList(first)
	assert.Equal(t, 0, second.Position())
}

func TestChecklistTasksAppend(t *testing.T) {
	cl := &Checklist{ID: uuid.New()}
	a := &Task{ID: uuid.New(), Title: "a"}
	b := &Task{ID: uuid.New(), Title: "b"}

	assert.Equal(t, 0, cl.AppendTask(a))
	assert.Equal(t, 1, cl.AppendTask(b))
	assert.Equal(t, 0, cl.RemoveTask(a))
	assert.Equal(t, 0, b.Position())
}

func TestOwningBoard(t *testing.T) {
	b := &Board{ID: uuid.New()}
	l := &List{ID: uuid.New()}
	b.InsertList(l, 0)
	c := &Card{ID: uuid.New()}
	l.InsertCard(c, 0)
	cl := &Checklist{ID: uuid.New()}
	c.InsertChecklist(cl, 0)
	task := &Task{ID: uuid.New()}
	cl.AppendTask(task)

	assert.Same(t, b, OwningBoard(task))
	assert.Same(t, b, OwningBoard(b))
	assert.Nil(t, OwningBoard(&Card{ID: uuid.New()}))
	assert.Nil(t, Parent(&List{}))
}
