package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskmaster/boards/internal/domain/entities"
)

// BoardService is the application surface over the board engine. Every
// mutating call runs in one store session.
type BoardService interface {
	GetBoard(ctx context.Context, id uuid.UUID) (*entities.BoardView, error)

	CreateBoard(ctx context.Context, actor entities.UserRef, req CreateBoardRequest) (*entities.Board, error)
	CreateList(ctx context.Context, req CreateListRequest) (*entities.List, error)
	CreateCard(ctx context.Context, req CreateCardRequest) (*entities.Card, error)
	CreateChecklist(ctx context.Context, req CreateChecklistRequest) (*entities.Checklist, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	SetTaskDone(ctx context.Context, taskID uuid.UUID, done bool) error
	AddComment(ctx context.Context, actor entities.UserRef, req AddCommentRequest) (*entities.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
	CreateLabel(ctx context.Context, req CreateLabelRequest) (*entities.Label, error)
	AttachDocument(ctx context.Context, req AttachDocumentRequest) (*entities.Document, error)

	MoveList(ctx context.Context, listID uuid.UUID, req MoveRequest) (*entities.Board, error)
	MoveCard(ctx context.Context, cardID uuid.UUID, req MoveRequest) (*entities.List, error)
	MoveChecklist(ctx context.Context, checklistID uuid.UUID, req MoveRequest) (*entities.Card, error)
	MoveTask(ctx context.Context, taskID uuid.UUID, req MoveRequest) (*entities.Checklist, error)

	CopyBoard(ctx context.Context, actor entities.UserRef, boardID uuid.UUID, req CopyBoardRequest) (*entities.Board, error)
	CopyList(ctx context.Context, listID uuid.UUID, req CopyRequest) (*entities.List, error)
	CopyCard(ctx context.Context, cardID uuid.UUID, req CopyRequest) (*entities.Card, error)
	CopyChecklist(ctx context.Context, checklistID uuid.UUID, req CopyRequest) (*entities.Checklist, error)
	CopyTask(ctx context.Context, taskID uuid.UUID, req CopyRequest) (*entities.Task, error)
	CopyComment(ctx context.Context, commentID uuid.UUID, req CopyRequest) (*entities.Comment, error)
	CreateTemplate(ctx context.Context, actor entities.UserRef, boardID uuid.UUID) (*entities.Board, error)

	Archive(ctx context.Context, kind entities.Kind, id uuid.UUID) error
	Restore(ctx context.Context, kind entities.Kind, id uuid.UUID) error
	Delete(ctx context.Context, kind entities.Kind, id uuid.UUID) error

	AddLabelToCard(ctx context.Context, cardID, labelID uuid.UUID) error
	RemoveLabelFromCard(ctx context.Context, cardID, labelID uuid.UUID) error
	AssignUser(ctx context.Context, cardID, userID uuid.UUID) error
	UnassignUser(ctx context.Context, cardID, userID uuid.UUID) error
	AddMember(ctx context.Context, boardID, userID uuid.UUID) error
	AddOwner(ctx context.Context, boardID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error
	RemoveOwner(ctx context.Context, boardID, userID uuid.UUID) error
	AssignTeam(ctx context.Context, boardID, teamID uuid.UUID) error
}

// Request types

type CreateBoardRequest struct {
	Title         string                 `json:"title" validate:"required,min=1,max=200"`
	Accessibility entities.Accessibility `json:"accessibility" validate:"required,oneof=public restricted"`
}

type CreateListRequest struct {
	BoardID  uuid.UUID `json:"board_id" validate:"required"`
	Title    string    `json:"title" validate:"required,max=200"`
	Position int       `json:"position"`
}

type CreateCardRequest struct {
	ListID      uuid.UUID  `json:"list_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=500"`
	Description string     `json:"description" validate:"max=10000"`
	Due         *time.Time `json:"due"`
	Position    int        `json:"position"`
}

type CreateChecklistRequest struct {
	CardID   uuid.UUID `json:"card_id" validate:"required"`
	Title    string    `json:"title" validate:"required,max=200"`
	Position int       `json:"position"`
}

type CreateTaskRequest struct {
	ChecklistID uuid.UUID `json:"checklist_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=500"`
	Position    int       `json:"position"`
}

type AddCommentRequest struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Text   string    `json:"text" validate:"required,max=10000"`
}

type CreateLabelRequest struct {
	BoardID uuid.UUID `json:"board_id" validate:"required"`
	Name    string    `json:"name" validate:"required,max=100"`
	Color   string    `json:"color" validate:"required,hexcolor"`
}

type AttachDocumentRequest struct {
	CardID      uuid.UUID `json:"card_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=255"`
	ContentType string    `json:"content_type" validate:"required"`
	Size        int64     `json:"size" validate:"min=0"`
	StorageKey  string    `json:"storage_key" validate:"required"`
}

// MoveRequest places an item into TargetID at Position. Out-of-range
// positions are clamped.
type MoveRequest struct {
	TargetID uuid.UUID `json:"target_id" validate:"required"`
	Position int       `json:"position"`
}

// CopyRequest clones an item into TargetID. An empty Title keeps the source title.
type CopyRequest struct {
	TargetID uuid.UUID `json:"target_id" validate:"required"`
	Title    string    `json:"title" validate:"max=500"`
	Position int       `json:"position"`
}

type CopyBoardRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type SetTaskDoneRequest struct {
	Done bool `json:"done"`
}

type UserRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

type TeamRequest struct {
	TeamID uuid.UUID `json:"team_id" validate:"required"`
}

type LabelRequest struct {
	LabelID uuid.UUID `json:"label_id" validate:"required"`
}
