package kanban

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/boards/internal/domain/entities"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	saved   []entities.Entity
	deleted []entities.Entity
}

func (r *recorder) Save(e entities.Entity)   { r.saved = append(r.saved, e) }
func (r *recorder) Delete(e entities.Entity) { r.deleted = append(r.deleted, e) }

func (r *recorder) wasSaved(e entities.Entity) bool {
	for _, s := range r.saved {
		if s == e {
			return true
		}
	}
	return false
}

func (r *recorder) wasDeleted(e entities.Entity) bool {
	for _, s := range r.deleted {
		if s == e {
			return true
		}
	}
	return false
}

func newEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(rec, WithClock(func() time.Time { return fixedNow })), rec
}

func user() entities.UserRef { return entities.UserRef{ID: uuid.New()} }

// board builds a board with one list per title group. Each list is named
// after its index ("L0", "L1", ...) and holds cards with the given titles.
func board(owner entities.UserRef, lists ...[]string) *entities.Board {
	b := &entities.Board{
		ID:            uuid.New(),
		Title:         "board",
		Accessibility: entities.AccessibilityPublic,
		CreatedBy:     owner.ID,
		CreatedAt:     fixedNow.Add(-time.Hour),
		Owners:        []entities.UserRef{owner},
	}
	for i, titles := range lists {
		l := &entities.List{ID: uuid.New(), Title: "L" + string(rune('0'+i))}
		b.InsertList(l, len(b.Lists))
		for _, title := range titles {
			c := &entities.Card{ID: uuid.New(), Title: title, CreatedAt: fixedNow.Add(-time.Hour)}
			l.InsertCard(c, len(l.Cards))
		}
	}
	return b
}

func label(b *entities.Board, name string) *entities.Label {
	l := &entities.Label{ID: uuid.New(), Name: name, Color: "#" + name}
	b.AddLabel(l)
	return l
}

func checklist(c *entities.Card, title string, tasks ...string) *entities.Checklist {
	cl := &entities.Checklist{ID: uuid.New(), Title: title}
	c.InsertChecklist(cl, len(c.Checklists))
	for i, tt := range tasks {
		cl.AppendTask(&entities.Task{ID: uuid.New(), Title: tt, IsDone: i%2 == 0})
	}
	return cl
}

func archive(at time.Time) *time.Time { return &at }

func titles(l *entities.List) []string {
	out := make([]string, 0, len(l.Cards))
	for _, c := range l.Cards {
		out = append(out, c.Title)
	}
	return out
}

func listTitles(b *entities.Board) []string {
	out := make([]string, 0, len(b.Lists))
	for _, l := range b.Lists {
		out = append(out, l.Title)
	}
	return out
}

// requireContiguous checks that every child points back at its parent and
// reports its slice index as position.
func requireContiguous(t *testing.T, b *entities.Board) {
	t.Helper()
	for i, l := range b.Lists {
		require.Same(t, b, l.Board)
		require.Equal(t, i, l.Position())
		for j, c := range l.Cards {
			require.Same(t, l, c.List)
			require.Equal(t, j, c.Position())
			for k, cl := range c.Checklists {
				require.Same(t, c, cl.Card)
				require.Equal(t, k, cl.Position())
				for m, task := range cl.Tasks {
					require.Same(t, cl, task.Checklist)
					require.Equal(t, m, task.Position())
				}
			}
		}
	}
}
