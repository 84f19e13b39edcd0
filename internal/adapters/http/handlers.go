// Package http adapts the board service to echo handlers.
package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/boards/internal/domain/entities"
)

// UserContextKey is where the actor middleware stores the acting user id.
const UserContextKey = "user"

// Utility functions and helper types

func actorFromContext(c echo.Context) (entities.UserRef, error) {
	if id, ok := c.Get(UserContextKey).(uuid.UUID); ok && id != uuid.Nil {
		return entities.UserRef{ID: id}, nil
	}
	return entities.UserRef{}, echo.NewHTTPError(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Details: "missing actor"})
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "invalid " + name})
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Details: "Invalid request format"})
	}
	return validate(c, req)
}

func validate(c echo.Context, req interface{}) error {
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Details: err.Error()})
	}
	return nil
}

// toHTTPError maps engine and store errors onto status codes. The body
// carries the stable code from entities.ErrorCode.
func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Details: ve.Error()})
	}

	code := entities.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case "not_found":
		status = http.StatusNotFound
	case "archived", "template_violation":
		status = http.StatusConflict
	case "invalid_operation":
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, ErrorResponse{Error: code, Details: http.StatusText(status)}).SetInternal(err)
	}
	return echo.NewHTTPError(status, ErrorResponse{Error: code, Details: err.Error()})
}

// Request/Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
