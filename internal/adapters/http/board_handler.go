package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/infrastructure/logger"
	"github.com/taskmaster/boards/internal/ports"
)

// BoardHandler handles board, list and card requests
type BoardHandler struct {
	boardService ports.BoardService
	logger       *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService ports.BoardService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		logger:       logger.WithComponent("board_handler"),
	}
}

// Register mounts every board route on g. g is expected to carry the actor
// middleware.
func (h *BoardHandler) Register(g *echo.Group) {
	boards := g.Group("/boards")
	boards.POST("", h.CreateBoard)
	boards.GET("/:id", h.GetBoard)
	boards.DELETE("/:id", h.deleteEntity(entities.KindBoard))
	boards.POST("/:id/archive", h.archive(entities.KindBoard))
	boards.POST("/:id/restore", h.restore(entities.KindBoard))
	boards.POST("/:id/copy", h.CopyBoard)
	boards.POST("/:id/template", h.CreateTemplate)
	boards.POST("/:id/lists", h.CreateList)
	boards.POST("/:id/labels", h.CreateLabel)
	boards.POST("/:id/members", h.AddMember)
	boards.DELETE("/:id/members/:userId", h.RemoveMember)
	boards.POST("/:id/owners", h.AddOwner)
	boards.DELETE("/:id/owners/:userId", h.RemoveOwner)
	boards.POST("/:id/teams", h.AssignTeam)

	lists := g.Group("/lists")
	lists.DELETE("/:id", h.deleteEntity(entities.KindList))
	lists.POST("/:id/archive", h.archive(entities.KindList))
	lists.POST("/:id/restore", h.restore(entities.KindList))
	lists.POST("/:id/move", h.MoveList)
	lists.POST("/:id/copy", h.CopyList)
	lists.POST("/:id/cards", h.CreateCard)

	cards := g.Group("/cards")
	cards.DELETE("/:id", h.deleteEntity(entities.KindCard))
	cards.POST("/:id/archive", h.archive(entities.KindCard))
	cards.POST("/:id/restore", h.restore(entities.KindCard))
	cards.POST("/:id/move", h.MoveCard)
	cards.POST("/:id/copy", h.CopyCard)
	cards.POST("/:id/labels/:labelId", h.AddLabelToCard)
	cards.DELETE("/:id/labels/:labelId", h.RemoveLabelFromCard)
	cards.POST("/:id/assignees/:userId", h.AssignUser)
	cards.DELETE("/:id/assignees/:userId", h.UnassignUser)
	cards.POST("/:id/checklists", h.CreateChecklist)
	cards.POST("/:id/comments", h.AddComment)
	cards.POST("/:id/documents", h.AttachDocument)

	checklists := g.Group("/checklists")
	checklists.DELETE("/:id", h.deleteEntity(entities.KindChecklist))
	checklists.POST("/:id/move", h.MoveChecklist)
	checklists.POST("/:id/copy", h.CopyChecklist)
	checklists.POST("/:id/tasks", h.CreateTask)

	tasks := g.Group("/tasks")
	tasks.PATCH("/:id", h.SetTaskDone)
	tasks.DELETE("/:id", h.deleteEntity(entities.KindTask))
	tasks.POST("/:id/move", h.MoveTask)
	tasks.POST("/:id/copy", h.CopyTask)

	comments := g.Group("/comments")
	comments.POST("/:id/copy", h.CopyComment)
	comments.DELETE("/:id", h.DeleteComment)

	g.DELETE("/labels/:id", h.deleteEntity(entities.KindLabel))
	g.DELETE("/documents/:id", h.deleteEntity(entities.KindDocument))
}

// GetBoard godoc
// @Summary Get board by ID
// @Description Get the read model of a board with its lists, cards and checklists
// @Tags boards
// @Produce json
// @Param id path string true "Board ID"
// @Success 200 {object} entities.BoardView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /boards/{id} [get]
func (h *BoardHandler) GetBoard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.boardService.GetBoard(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "Get board failed", err)
	}

	return c.JSON(http.StatusOK, view)
}

// CreateBoard godoc
// @Summary Create a new board
// @Description Create a board owned by the calling user
// @Tags boards
// @Accept json
// @Produce json
// @Param request body ports.CreateBoardRequest true "Board data"
// @Success 201 {object} entities.BoardView
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /boards [post]
func (h *BoardHandler) CreateBoard(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req ports.CreateBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	board, err := h.boardService.CreateBoard(c.Request().Context(), actor, req)
	if err != nil {
		return h.fail(c, "Create board failed", err)
	}

	return c.JSON(http.StatusCreated, board.View())
}

// CopyBoard godoc
// @Summary Copy a board
// @Description Deep-copy a board, or instantiate a template, owned by the calling user
// @Tags boards
// @Accept json
// @Produce json
// @Param id path string true "Board ID"
// @Param request body ports.CopyBoardRequest false "Copy options"
// @Success 201 {object} entities.BoardView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /boards/{id}/copy [post]
func (h *BoardHandler) CopyBoard(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.CopyBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	board, err := h.boardService.CopyBoard(c.Request().Context(), actor, id, req)
	if err != nil {
		return h.fail(c, "Copy board failed", err)
	}

	return c.JSON(http.StatusCreated, board.View())
}

// CreateTemplate godoc
// @Summary Create a template from a board
// @Description Build a template board holding the labels and list titles of the source board
// @Tags boards
// @Produce json
// @Param id path string true "Board ID"
// @Success 201 {object} entities.BoardView
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /boards/{id}/template [post]
func (h *BoardHandler) CreateTemplate(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	tpl, err := h.boardService.CreateTemplate(c.Request().Context(), actor, id)
	if err != nil {
		return h.fail(c, "Create template failed", err)
	}

	return c.JSON(http.StatusCreated, tpl.View())
}

// CreateList godoc
// @Summary Create a list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "Board ID"
// @Param request body ports.CreateListRequest true "List data"
// @Success 201 {object} entities.ListView
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /boards/{id}/lists [post]
func (h *BoardHandler) CreateList(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	req.BoardID = id
	if err := validate(c, &req); err != nil {
		return err
	}

	list, err := h.boardService.CreateList(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "Create list failed", err)
	}

	return c.JSON(http.StatusCreated, list.View())
}

// CreateCard godoc
// @Summary Create a card
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body ports.CreateCardRequest true "Card data"
// @Success 201 {object} entities.CardView
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /lists/{id}/cards [post]
func (h *BoardHandler) CreateCard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	req.ListID = id
	if err := validate(c, &req); err != nil {
		return err
	}

	card, err := h.boardService.CreateCard(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "Create card failed", err)
	}

	return c.JSON(http.StatusCreated, card.View())
}

func (h *BoardHandler) CreateChecklist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateChecklistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	req.CardID = id
	if err := validate(c, &req); err != nil {
		return err
	}

	cl, err := h.boardService.CreateChecklist(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "Create checklist failed", err)
	}

	return c.JSON(http.StatusCreated, cl)
}

func (h *BoardHandler) CreateTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	req.ChecklistID = id
	if err := validate(c, &req); err != nil {
		return err
	}

	task, err := h.boardService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "Create task failed", err)
	}

	return c.JSON(http.StatusCreated, task)
}

// SetTaskDone godoc
// @Summary Mark a task done or open
// @Tags tasks
// @Accept json
// @Param id path string true "Task ID"
// @Param request body ports.SetTaskDoneRequest true "Completion state"
// @Success 204
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *BoardHandler) SetTaskDone(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.SetTaskDoneRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.boardService.SetTaskDone(c.Request().Context(), id, req.Done); err != nil {
		return h.fail(c, "Update task failed", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddComment godoc
// @Summary Comment on a card
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param request body ports.AddCommentRequest true "Comment"
// @Success 201 {object} entities.Comment
// @Security BearerAuth
// @Router /cards/{id}/comments [post]
func (h *BoardHandler) AddComment(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	req.CardID = id
	if err := validate(c, &req); err != nil {
		return err
	}

	cm, err := h.boardService.AddComment(c.Request().Context(), actor, req)
	if err != nil {
		return h.fail(c, "Add comment failed", err)
	}

	return c.JSON(http.StatusCreated, cm)
}

func (h *BoardHandler) DeleteComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.boardService.DeleteComment(c.Request().Context(), id); err != nil {
		return h.fail(c, "Delete comment failed", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *BoardHandler) CreateLabel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateLabelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	req.BoardID = id
	if err := validate(c, &req); err != nil {
		return err
	}

	label, err := h.boardService.CreateLabel(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "Create label failed", err)
	}

	return c.JSON(http.StatusCreated, label)
}

// AttachDocument godoc
// @Summary Attach document metadata to a card
// @Description The blob must already be uploaded to object storage under storage_key
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param request body ports.AttachDocumentRequest true "Document metadata"
// @Success 201 {object} entities.Document
// @Security BearerAuth
// @Router /cards/{id}/documents [post]
func (h *BoardHandler) AttachDocument(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.AttachDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	req.CardID = id
	if err := validate(c, &req); err != nil {
		return err
	}

	doc, err := h.boardService.AttachDocument(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "Attach document failed", err)
	}

	return c.JSON(http.StatusCreated, doc)
}

// deleteEntity returns a handler removing an entity of the given kind with
// everything it owns.
func (h *BoardHandler) deleteEntity(kind entities.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}

		if err := h.boardService.Delete(c.Request().Context(), kind, id); err != nil {
			return h.fail(c, "Delete failed", err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func (h *BoardHandler) archive(kind entities.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}

		if err := h.boardService.Archive(c.Request().Context(), kind, id); err != nil {
			return h.fail(c, "Archive failed", err)
		}

		return c.JSON(http.StatusOK, MessageResponse{Message: string(kind) + " archived"})
	}
}

func (h *BoardHandler) restore(kind entities.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}

		if err := h.boardService.Restore(c.Request().Context(), kind, id); err != nil {
			return h.fail(c, "Restore failed", err)
		}

		return c.JSON(http.StatusOK, MessageResponse{Message: string(kind) + " restored"})
	}
}

// fail logs err and converts it into an HTTP error carrying its code
func (h *BoardHandler) fail(c echo.Context, msg string, err error) error {
	he := toHTTPError(err)
	log := h.logger.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID)).WithError(err)
	if id, ok := c.Get(UserContextKey).(uuid.UUID); ok {
		log = log.WithUserID(id)
	}
	if he.Code >= http.StatusInternalServerError {
		log.Errorw(msg, "path", c.Path())
	} else {
		log.Debugw(msg, "path", c.Path())
	}
	return he
}
