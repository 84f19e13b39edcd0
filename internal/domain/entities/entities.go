package entities

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags the entity families of a board graph.
type Kind string

const (
	KindBoard     Kind = "board"
	KindList      Kind = "list"
	KindCard      Kind = "card"
	KindChecklist Kind = "checklist"
	KindTask      Kind = "task"
	KindComment   Kind = "comment"
	KindLabel     Kind = "label"
	KindDocument  Kind = "document"
)

// IsValid reports whether k names a known entity family.
func (k Kind) IsValid() bool {
	switch k {
	case KindBoard, KindList, KindCard, KindChecklist, KindTask, KindComment, KindLabel, KindDocument:
		return true
	default:
		return false
	}
}

// Accessibility controls who may see a board.
type Accessibility string

const (
	AccessibilityPublic     Accessibility = "public"
	AccessibilityRestricted Accessibility = "restricted"
)

func (a Accessibility) IsValid() bool {
	return a == AccessibilityPublic || a == AccessibilityRestricted
}

// Entity is implemented by every node of a board graph.
type Entity interface {
	EntityID() uuid.UUID
	EntityKind() Kind
}

// UserRef is a non-owning handle on a directory user.
type UserRef struct {
	ID uuid.UUID `json:"id" db:"user_id"`
}

// TeamRef is a non-owning handle on a directory team.
type TeamRef struct {
	ID uuid.UUID `json:"id" db:"team_id"`
}

// LabelRef is a non-owning handle on a label of the card's board.
type LabelRef struct {
	ID uuid.UUID `json:"id" db:"label_id"`
}

// Board is the root of the ownership tree.
type Board struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Accessibility Accessibility `json:"accessibility" db:"accessibility"`
	IsTemplate    bool          `json:"is_template" db:"is_template"`
	CreatedBy     uuid.UUID     `json:"created_by" db:"created_by"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	ArchivedAt    *time.Time    `json:"archived_at" db:"archived_at"`

	Lists   []*List   `json:"lists" db:"-"`
	Labels  []*Label  `json:"labels" db:"-"`
	Owners  []UserRef `json:"owners" db:"-"`
	Members []UserRef `json:"members" db:"-"`
	Teams   []TeamRef `json:"teams" db:"-"`
}

// List is an ordered column of cards.
type List struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	ArchivedAt *time.Time `json:"archived_at" db:"archived_at"`

	Board *Board  `json:"-" db:"-"`
	Cards []*Card `json:"cards" db:"-"`
}

// Card is the unit of work on a board.
type Card struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Due         *time.Time `json:"due" db:"due"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at" db:"archived_at"`

	List          *List        `json:"-" db:"-"`
	Labels        []LabelRef   `json:"labels" db:"-"`
	AssignedUsers []UserRef    `json:"assigned_users" db:"-"`
	Checklists    []*Checklist `json:"checklists" db:"-"`
	Comments      []*Comment   `json:"comments" db:"-"`
	Documents     []*Document  `json:"documents" db:"-"`
}

// Checklist groups tasks on a card.
type Checklist struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Title string    `json:"title" db:"title"`

	Card  *Card   `json:"-" db:"-"`
	Tasks []*Task `json:"tasks" db:"-"`
}

// Task is a checklist entry.
type Task struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Title  string    `json:"title" db:"title"`
	IsDone bool      `json:"is_done" db:"is_done"`

	Checklist *Checklist `json:"-" db:"-"`
}

// Comment is a note left on a card. Deleted comments keep their row.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Creator   UserRef   `json:"creator" db:"-"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`

	Card *Card `json:"-" db:"-"`
}

// Label is a board-scoped tag.
type Label struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Color string    `json:"color" db:"color"`

	Board *Board `json:"-" db:"-"`
}

// Document is attachment metadata. The blob lives in external storage.
type Document struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`

	Card *Card `json:"-" db:"-"`
}

func (b *Board) EntityID() uuid.UUID     { return b.ID }
func (l *List) EntityID() uuid.UUID      { return l.ID }
func (c *Card) EntityID() uuid.UUID      { return c.ID }
func (c *Checklist) EntityID() uuid.UUID { return c.ID }
func (t *Task) EntityID() uuid.UUID      { return t.ID }
func (c *Comment) EntityID() uuid.UUID   { return c.ID }
func (l *Label) EntityID() uuid.UUID     { return l.ID }
func (d *Document) EntityID() uuid.UUID  { return d.ID }

func (*Board) EntityKind() Kind     { return KindBoard }
func (*List) EntityKind() Kind      { return KindList }
func (*Card) EntityKind() Kind      { return KindCard }
func (*Checklist) EntityKind() Kind { return KindChecklist }
func (*Task) EntityKind() Kind      { return KindTask }
func (*Comment) EntityKind() Kind   { return KindComment }
func (*Label) EntityKind() Kind     { return KindLabel }
func (*Document) EntityKind() Kind  { return KindDocument }

// Parent returns the owning container of e, or nil for boards and detached nodes.
func Parent(e Entity) Entity {
	switch v := e.(type) {
	case *List:
		if v.Board != nil {
			return v.Board
		}
	case *Card:
		if v.List != nil {
			return v.List
		}
	case *Checklist:
		if v.Card != nil {
			return v.Card
		}
	case *Task:
		if v.Checklist != nil {
			return v.Checklist
		}
	case *Comment:
		if v.Card != nil {
			return v.Card
		}
	case *Document:
		if v.Card != nil {
			return v.Card
		}
	case *Label:
		if v.Board != nil {
			return v.Board
		}
	}
	return nil
}

// OwningBoard walks up from e to its board. It returns nil for detached nodes.
func OwningBoard(e Entity) *Board {
	for cur := e; cur != nil; cur = Parent(cur) {
		if b, ok := cur.(*Board); ok {
			return b
		}
	}
	return nil
}

// Business logic methods for Board

func (b *Board) IsArchived() bool { return b.ArchivedAt != nil }

func (b *Board) IsOwner(userID uuid.UUID) bool {
	return containsUser(b.Owners, userID)
}

func (b *Board) IsMember(userID uuid.UUID) bool {
	return containsUser(b.Members, userID)
}

// HasParticipant reports whether the user is an owner or a member of the board.
func (b *Board) HasParticipant(userID uuid.UUID) bool {
	return b.IsOwner(userID) || b.IsMember(userID)
}

func (b *Board) HasTeam(teamID uuid.UUID) bool {
	for _, t := range b.Teams {
		if t.ID == teamID {
			return true
		}
	}
	return false
}

// Label returns the board's label with the given id.
func (b *Board) Label(id uuid.UUID) (*Label, bool) {
	for _, l := range b.Labels {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Cards returns every card on the board, archived ones included, in list order.
func (b *Board) Cards() []*Card {
	var out []*Card
	for _, l := range b.Lists {
		out = append(out, l.Cards...)
	}
	return out
}

// Business logic methods for List

func (l *List) IsArchived() bool { return l.ArchivedAt != nil }

// Business logic methods for Card

func (c *Card) IsArchived() bool { return c.ArchivedAt != nil }

func (c *Card) HasLabel(id uuid.UUID) bool {
	for _, ref := range c.Labels {
		if ref.ID == id {
			return true
		}
	}
	return false
}

func (c *Card) IsAssigned(userID uuid.UUID) bool {
	return containsUser(c.AssignedUsers, userID)
}

// ClearBoardReferences drops every label and assignee reference.
// It reports whether anything was removed.
func (c *Card) ClearBoardReferences() bool {
	changed := len(c.Labels) > 0 || len(c.AssignedUsers) > 0
	c.Labels = nil
	c.AssignedUsers = nil
	return changed
}

// RemoveLabelRef drops the reference to a label, reporting whether it was present.
func (c *Card) RemoveLabelRef(id uuid.UUID) bool {
	for i, ref := range c.Labels {
		if ref.ID == id {
			c.Labels = append(c.Labels[:i], c.Labels[i+1:]...)
			return true
		}
	}
	return false
}

// Unassign drops the user from the card, reporting whether it was assigned.
func (c *Card) Unassign(userID uuid.UUID) bool {
	var ok bool
	c.AssignedUsers, ok = removeUser(c.AssignedUsers, userID)
	return ok
}

// Comment returns the card's comment with the given id.
func (c *Card) Comment(id uuid.UUID) (*Comment, bool) {
	for _, cm := range c.Comments {
		if cm.ID == id {
			return cm, true
		}
	}
	return nil, false
}

// Business logic methods for Checklist

// DoneCount returns the number of completed tasks.
func (c *Checklist) DoneCount() int {
	n := 0
	for _, t := range c.Tasks {
		if t.IsDone {
			n++
		}
	}
	return n
}

func containsUser(refs []UserRef, id uuid.UUID) bool {
	for _, r := range refs {
		if r.ID == id {
			return true
		}
	}
	return false
}

func removeUser(refs []UserRef, id uuid.UUID) ([]UserRef, bool) {
	for i, r := range refs {
		if r.ID == id {
			return append(refs[:i], refs[i+1:]...), true
		}
	}
	return refs, false
}

// RemoveUserRef drops id from refs.
func RemoveUserRef(refs []UserRef, id uuid.UUID) ([]UserRef, bool) {
	return removeUser(refs, id)
}

// Relink restores every parent pointer below b. Decoded graphs carry no
// back-references, so loaders call it before handing a board out.
func (b *Board) Relink() {
	for _, l := range b.Labels {
		l.Board = b
	}
	for _, l := range b.Lists {
		l.Board = b
		for _, c := range l.Cards {
			c.List = l
			for _, cl := range c.Checklists {
				cl.Card = c
				for _, t := range cl.Tasks {
					t.Checklist = cl
				}
			}
			for _, cm := range c.Comments {
				cm.Card = c
			}
			for _, d := range c.Documents {
				d.Card = c
			}
		}
	}
}

// Walk calls fn for b and every entity it owns, parents before children.
func (b *Board) Walk(fn func(Entity)) {
	fn(b)
	for _, l := range b.Labels {
		fn(l)
	}
	for _, l := range b.Lists {
		fn(l)
		for _, c := range l.Cards {
			fn(c)
			for _, cl := range c.Checklists {
				fn(cl)
				for _, t := range cl.Tasks {
					fn(t)
				}
			}
			for _, cm := range c.Comments {
				fn(cm)
			}
			for _, d := range c.Documents {
				fn(d)
			}
		}
	}
}
