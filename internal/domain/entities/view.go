package entities

import (
	"time"

	"github.com/google/uuid"
)

// BoardView is the read model of a board. It is detached from the live graph
// and safe to serialize and cache.
type BoardView struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Accessibility Accessibility `json:"accessibility"`
	IsTemplate    bool          `json:"is_template"`
	ArchivedAt    *time.Time    `json:"archived_at,omitempty"`
	Owners        []uuid.UUID   `json:"owners"`
	Members       []uuid.UUID   `json:"members"`
	Teams         []uuid.UUID   `json:"teams"`
	Labels        []LabelView   `json:"labels"`
	Lists         []ListView    `json:"lists"`
}

type LabelView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type ListView struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Position   int        `json:"position"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	Cards      []CardView `json:"cards"`
}

type CardView struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Position      int             `json:"position"`
	Due           *time.Time      `json:"due,omitempty"`
	ArchivedAt    *time.Time      `json:"archived_at,omitempty"`
	Labels        []uuid.UUID     `json:"labels"`
	AssignedUsers []uuid.UUID     `json:"assigned_users"`
	Checklists    []ChecklistView `json:"checklists"`
	Comments      []CommentView   `json:"comments"`
	Documents     []DocumentView  `json:"documents"`
}

type ChecklistView struct {
	ID    uuid.UUID  `json:"id"`
	Title string     `json:"title"`
	Done  int        `json:"done"`
	Tasks []TaskView `json:"tasks"`
}

type TaskView struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	IsDone bool      `json:"is_done"`
}

// CommentView hides the text of deleted comments.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Creator   uuid.UUID `json:"creator"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsDeleted bool      `json:"is_deleted"`
}

type DocumentView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
}

// View builds the read model of b.
func (b *Board) View() *BoardView {
	v := &BoardView{
		ID:            b.ID,
		Title:         b.Title,
		Accessibility: b.Accessibility,
		IsTemplate:    b.IsTemplate,
		ArchivedAt:    b.ArchivedAt,
		Owners:        userIDs(b.Owners),
		Members:       userIDs(b.Members),
		Teams:         make([]uuid.UUID, 0, len(b.Teams)),
		Labels:        make([]LabelView, 0, len(b.Labels)),
		Lists:         make([]ListView, 0, len(b.Lists)),
	}
	for _, t := range b.Teams {
		v.Teams = append(v.Teams, t.ID)
	}
	for _, l := range b.Labels {
		v.Labels = append(v.Labels, LabelView{ID: l.ID, Name: l.Name, Color: l.Color})
	}
	for i, l := range b.Lists {
		v.Lists = append(v.Lists, listView(l, i))
	}
	return v
}

// View builds the read model of l and its cards.
func (l *List) View() ListView { return listView(l, l.Position()) }

// View builds the read model of c.
func (c *Card) View() CardView { return cardView(c, c.Position()) }

func listView(l *List, pos int) ListView {
	lv := ListView{ID: l.ID, Title: l.Title, Position: pos, ArchivedAt: l.ArchivedAt, Cards: make([]CardView, 0, len(l.Cards))}
	for j, c := range l.Cards {
		lv.Cards = append(lv.Cards, cardView(c, j))
	}
	return lv
}

func cardView(c *Card, pos int) CardView {
	cv := CardView{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Position:      pos,
		Due:           c.Due,
		ArchivedAt:    c.ArchivedAt,
		Labels:        make([]uuid.UUID, 0, len(c.Labels)),
		AssignedUsers: userIDs(c.AssignedUsers),
		Checklists:    make([]ChecklistView, 0, len(c.Checklists)),
		Comments:      make([]CommentView, 0, len(c.Comments)),
		Documents:     make([]DocumentView, 0, len(c.Documents)),
	}
	for _, ref := range c.Labels {
		cv.Labels = append(cv.Labels, ref.ID)
	}
	for _, cl := range c.Checklists {
		clv := ChecklistView{ID: cl.ID, Title: cl.Title, Done: cl.DoneCount(), Tasks: make([]TaskView, 0, len(cl.Tasks))}
		for _, t := range cl.Tasks {
			clv.Tasks = append(clv.Tasks, TaskView{ID: t.ID, Title: t.Title, IsDone: t.IsDone})
		}
		cv.Checklists = append(cv.Checklists, clv)
	}
	for _, cm := range c.Comments {
		cmv := CommentView{ID: cm.ID, Creator: cm.Creator.ID, CreatedAt: cm.CreatedAt, IsDeleted: cm.IsDeleted}
		if !cm.IsDeleted {
			cmv.Text = cm.Text
		}
		cv.Comments = append(cv.Comments, cmv)
	}
	for _, d := range c.Documents {
		cv.Documents = append(cv.Documents, DocumentView{ID: d.ID, Name: d.Name, ContentType: d.ContentType, Size: d.Size})
	}
	return cv
}

func userIDs(refs []UserRef) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}
