package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/boards/internal/ports"
)

// MoveList godoc
// @Summary Move a list
// @Description Move a list to a position on the same or another board. Cards moved across boards lose their labels and assignees.
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body ports.MoveRequest true "Target board and position"
// @Success 200 {object} entities.BoardView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /lists/{id}/move [post]
func (h *BoardHandler) MoveList(c echo.Context) error {
	id, req, err := moveRequest(c)
	if err != nil {
		return err
	}

	board, err := h.boardService.MoveList(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Move list failed", err)
	}

	return c.JSON(http.StatusOK, board.View())
}

// MoveCard godoc
// @Summary Move a card
// @Description Move a card to a position in the same or another list
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param request body ports.MoveRequest true "Target list and position"
// @Success 200 {object} entities.ListView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{id}/move [post]
func (h *BoardHandler) MoveCard(c echo.Context) error {
	id, req, err := moveRequest(c)
	if err != nil {
		return err
	}

	list, err := h.boardService.MoveCard(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Move card failed", err)
	}

	return c.JSON(http.StatusOK, list.View())
}

func (h *BoardHandler) MoveChecklist(c echo.Context) error {
	id, req, err := moveRequest(c)
	if err != nil {
		return err
	}

	card, err := h.boardService.MoveChecklist(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Move checklist failed", err)
	}

	return c.JSON(http.StatusOK, card.View())
}

func (h *BoardHandler) MoveTask(c echo.Context) error {
	id, req, err := moveRequest(c)
	if err != nil {
		return err
	}

	cl, err := h.boardService.MoveTask(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Move task failed", err)
	}

	return c.JSON(http.StatusOK, cl)
}

// CopyList godoc
// @Summary Copy a list
// @Description Deep-copy a list and its non-archived cards onto a board
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param request body ports.CopyRequest true "Target board, title and position"
// @Success 201 {object} entities.ListView
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /lists/{id}/copy [post]
func (h *BoardHandler) CopyList(c echo.Context) error {
	id, req, err := copyRequest(c)
	if err != nil {
		return err
	}

	list, err := h.boardService.CopyList(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Copy list failed", err)
	}

	return c.JSON(http.StatusCreated, list.View())
}

// CopyCard godoc
// @Summary Copy a card
// @Description Deep-copy a card into a list. Labels and assignees are kept only on the same board.
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param request body ports.CopyRequest true "Target list, title and position"
// @Success 201 {object} entities.CardView
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{id}/copy [post]
func (h *BoardHandler) CopyCard(c echo.Context) error {
	id, req, err := copyRequest(c)
	if err != nil {
		return err
	}

	card, err := h.boardService.CopyCard(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Copy card failed", err)
	}

	return c.JSON(http.StatusCreated, card.View())
}

func (h *BoardHandler) CopyChecklist(c echo.Context) error {
	id, req, err := copyRequest(c)
	if err != nil {
		return err
	}

	cl, err := h.boardService.CopyChecklist(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Copy checklist failed", err)
	}

	return c.JSON(http.StatusCreated, cl)
}

func (h *BoardHandler) CopyTask(c echo.Context) error {
	id, req, err := copyRequest(c)
	if err != nil {
		return err
	}

	task, err := h.boardService.CopyTask(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Copy task failed", err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *BoardHandler) CopyComment(c echo.Context) error {
	id, req, err := copyRequest(c)
	if err != nil {
		return err
	}

	cm, err := h.boardService.CopyComment(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "Copy comment failed", err)
	}

	return c.JSON(http.StatusCreated, cm)
}

func moveRequest(c echo.Context) (id uuid.UUID, req ports.MoveRequest, err error) {
	if id, err = pathID(c, "id"); err != nil {
		return id, req, err
	}
	err = bindAndValidate(c, &req)
	return id, req, err
}

func copyRequest(c echo.Context) (id uuid.UUID, req ports.CopyRequest, err error) {
	if id, err = pathID(c, "id"); err != nil {
		return id, req, err
	}
	err = bindAndValidate(c, &req)
	return id, req, err
}
