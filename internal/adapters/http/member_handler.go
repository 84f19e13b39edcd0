package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/boards/internal/ports"
)

// AddMember godoc
// @Summary Add a board member
// @Tags boards
// @Accept json
// @Param id path string true "Board ID"
// @Param request body ports.UserRequest true "User"
// @Success 204
// @Security BearerAuth
// @Router /boards/{id}/members [post]
func (h *BoardHandler) AddMember(c echo.Context) error {
	return h.boardUser(c, "Add member failed", h.boardService.AddMember)
}

// AddOwner godoc
// @Summary Add a board owner
// @Description Promotes an existing member
// @Tags boards
// @Accept json
// @Param id path string true "Board ID"
// @Param request body ports.UserRequest true "User"
// @Success 204
// @Security BearerAuth
// @Router /boards/{id}/owners [post]
func (h *BoardHandler) AddOwner(c echo.Context) error {
	return h.boardUser(c, "Add owner failed", h.boardService.AddOwner)
}

// RemoveMember godoc
// @Summary Remove a board member
// @Description The user is also unassigned from every card of the board
// @Tags boards
// @Param id path string true "Board ID"
// @Param userId path string true "User ID"
// @Success 204
// @Security BearerAuth
// @Router /boards/{id}/members/{userId} [delete]
func (h *BoardHandler) RemoveMember(c echo.Context) error {
	return h.pair(c, "userId", "Remove member failed", h.boardService.RemoveMember)
}

// RemoveOwner godoc
// @Summary Remove a board owner
// @Description The last owner cannot be removed
// @Tags boards
// @Param id path string true "Board ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /boards/{id}/owners/{userId} [delete]
func (h *BoardHandler) RemoveOwner(c echo.Context) error {
	return h.pair(c, "userId", "Remove owner failed", h.boardService.RemoveOwner)
}

func (h *BoardHandler) AssignTeam(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.TeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.boardService.AssignTeam(c.Request().Context(), id, req.TeamID); err != nil {
		return h.fail(c, "Assign team failed", err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *BoardHandler) AddLabelToCard(c echo.Context) error {
	return h.pair(c, "labelId", "Add label failed", h.boardService.AddLabelToCard)
}

func (h *BoardHandler) RemoveLabelFromCard(c echo.Context) error {
	return h.pair(c, "labelId", "Remove label failed", h.boardService.RemoveLabelFromCard)
}

// AssignUser godoc
// @Summary Assign a user to a card
// @Description Only owners and members of the card's board can be assigned
// @Tags cards
// @Param id path string true "Card ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{id}/assignees/{userId} [post]
func (h *BoardHandler) AssignUser(c echo.Context) error {
	return h.pair(c, "userId", "Assign user failed", h.boardService.AssignUser)
}

func (h *BoardHandler) UnassignUser(c echo.Context) error {
	return h.pair(c, "userId", "Unassign user failed", h.boardService.UnassignUser)
}

type pairFunc func(ctx context.Context, id, ref uuid.UUID) error

// boardUser applies fn to the board in the path and the user in the body.
func (h *BoardHandler) boardUser(c echo.Context, msg string, fn pairFunc) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := fn(c.Request().Context(), id, req.UserID); err != nil {
		return h.fail(c, msg, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// pair applies fn to the ":id" path parameter and a second one named param.
func (h *BoardHandler) pair(c echo.Context, param, msg string, fn pairFunc) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ref, err := pathID(c, param)
	if err != nil {
		return err
	}

	if err := fn(c.Request().Context(), id, ref); err != nil {
		return h.fail(c, msg, err)
	}

	return c.NoContent(http.StatusNoContent)
}
