package entities

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors. Match with errors.Is; use errors.As on the typed errors
// below for the details.
var (
	ErrNotFound          = errors.New("not found")
	ErrArchived          = errors.New("entity is archived")
	ErrTemplateViolation = errors.New("operation not allowed on a template board")
	ErrInvalidOperation  = errors.New("invalid operation")
)

// NotFoundError is returned by stores when an identity lookup fails.
type NotFoundError struct {
	Kind Kind
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ArchivedError rejects a mutation that targets, or would insert into, an
// archived entity. Kind and ID name the archived node, which may be an
// ancestor of the entity the caller touched.
type ArchivedError struct {
	Kind Kind
	ID   uuid.UUID
}

func (e *ArchivedError) Error() string {
	return fmt.Sprintf("%s %s is archived", e.Kind, e.ID)
}

func (e *ArchivedError) Is(target error) bool { return target == ErrArchived }

// TemplateViolationError rejects ordinary edits on a template board.
type TemplateViolationError struct {
	BoardID uuid.UUID
	Op      string
}

func (e *TemplateViolationError) Error() string {
	return fmt.Sprintf("%s: board %s is a template", e.Op, e.BoardID)
}

func (e *TemplateViolationError) Is(target error) bool { return target == ErrTemplateViolation }

// InvalidOperationError reports an operation-specific illegal state. Err,
// when set, carries the underlying archive or template violation.
type InvalidOperationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *InvalidOperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }

func (e *InvalidOperationError) Unwrap() error { return e.Err }

// Invalid builds an InvalidOperationError.
func Invalid(op, reason string, cause error) error {
	return &InvalidOperationError{Op: op, Reason: reason, Err: cause}
}

// ErrorCode classifies err into a stable machine-readable code. An invalid
// operation wins over the violation it wraps. Unknown errors map to "internal".
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrTemplateViolation):
		return "template_violation"
	case errors.Is(err, ErrArchived):
		return "archived"
	default:
		return "internal"
	}
}
