package entities

import "slices"

// Positions are never stored on the model: an item's position is its index
// in the parent's slice, so removing an item closes the gap for its siblings.

// NormalizePosition clamps requested into [0, size]. Out-of-range values are
// clamped rather than rejected.
func NormalizePosition(size, requested int) int {
	if requested < 0 {
		return 0
	}
	if requested > size {
		return size
	}
	return requested
}

func insertAt[T any](items []T, pos int, item T) ([]T, int) {
	pos = NormalizePosition(len(items), pos)
	return slices.Insert(items, pos, item), pos
}

func removeFrom[T comparable](items []T, item T) ([]T, int) {
	i := slices.Index(items, item)
	if i < 0 {
		return items, -1
	}
	return slices.Delete(items, i, i+1), i
}

// InsertList places l at pos among the board's lists and returns the final index.
func (b *Board) InsertList(l *List, pos int) int {
	l.Board = b
	b.Lists, pos = insertAt(b.Lists, pos, l)
	return pos
}

// RemoveList detaches l and returns the index it occupied, or -1.
func (b *Board) RemoveList(l *List) int {
	var i int
	b.Lists, i = removeFrom(b.Lists, l)
	return i
}

// AddLabel appends a label to the board.
func (b *Board) AddLabel(l *Label) {
	l.Board = b
	b.Labels = append(b.Labels, l)
}

// RemoveLabel detaches l from the board's label set.
func (b *Board) RemoveLabel(l *Label) int {
	var i int
	b.Labels, i = removeFrom(b.Labels, l)
	return i
}

// Position returns the list's index on its board, or -1 when detached.
func (l *List) Position() int {
	if l.Board == nil {
		return -1
	}
	return slices.Index(l.Board.Lists, l)
}

func (l *List) InsertCard(c *Card, pos int) int {
	c.List = l
	l.Cards, pos = insertAt(l.Cards, pos, c)
	return pos
}

func (l *List) RemoveCard(c *Card) int {
	var i int
	l.Cards, i = removeFrom(l.Cards, c)
	return i
}

// Position returns the card's index in its list, or -1 when detached.
func (c *Card) Position() int {
	if c.List == nil {
		return -1
	}
	return slices.Index(c.List.Cards, c)
}

func (c *Card) InsertChecklist(cl *Checklist, pos int) int {
	cl.Card = c
	c.Checklists, pos = insertAt(c.Checklists, pos, cl)
	return pos
}

func (c *Card) RemoveChecklist(cl *Checklist) int {
	var i int
	c.Checklists, i = removeFrom(c.Checklists, cl)
	return i
}

func (c *Card) AppendComment(cm *Comment) {
	cm.Card = c
	c.Comments = append(c.Comments, cm)
}

func (c *Card) AppendDocument(d *Document) {
	d.Card = c
	c.Documents = append(c.Documents, d)
}

func (c *Card) RemoveDocument(d *Document) int {
	var i int
	c.Documents, i = removeFrom(c.Documents, d)
	return i
}

// Position returns the checklist's index on its card, or -1 when detached.
func (cl *Checklist) Position() int {
	if cl.Card == nil {
		return -1
	}
	return slices.Index(cl.Card.Checklists, cl)
}

func (cl *Checklist) InsertTask(t *Task, pos int) int {
	t.Checklist = cl
	cl.Tasks, pos = insertAt(cl.Tasks, pos, t)
	return pos
}

func (cl *Checklist) AppendTask(t *Task) int {
	return cl.InsertTask(t, len(cl.Tasks))
}

func (cl *Checklist) RemoveTask(t *Task) int {
	var i int
	cl.Tasks, i = removeFrom(cl.Tasks, t)
	return i
}

// Position returns the task's index in its checklist, or -1 when detached.
func (t *Task) Position() int {
	if t.Checklist == nil {
		return -1
	}
	return slices.Index(t.Checklist.Tasks, t)
}
