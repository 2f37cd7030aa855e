// Package apperr defines the error taxonomy shared by the storage, service,
// and handler layers, and its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error for status-code mapping.
type Kind int

const (
	KindValidation Kind = iota // missing or malformed input
	KindConflict               // uniqueness violation
	KindAuth                   // bad credentials or expired code
	KindForbidden              // authenticated but not allowed
	KindNotFound               // no matching row
	KindNoCapacity             // no available driver
	KindDb                     // database failure
	KindStorage                // file-storage failure
	KindDelivery               // outbound dispatch failure (mail, ledger append)
)

// Error carries a public message, a taxonomy kind, and an optional cause.
// The cause is surfaced to the caller as raw detail, never swallowed.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a taxonomy error with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a taxonomy error around a downstream failure.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// StatusCode returns the HTTP status for err per the taxonomy.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict, KindNoCapacity:
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// Handler is the central fiber error handler: taxonomy errors render their
// public message (plus raw cause detail when present); anything else is a 500.
func Handler(c *fiber.Ctx, err error) error {
	var e *Error
	if errors.As(err, &e) {
		body := fiber.Map{"error": e.Message}
		if e.Cause != nil {
			body["details"] = e.Cause.Error()
		}
		return c.Status(StatusCode(err)).JSON(body)
	}
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
