// Package apperrors is the error taxonomy of the core: every failure a core
// operation can surface is one of a small fixed set of kinds, mapped to a
// transport status at the boundary.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidState
	KindInvalidInput
	KindForbidden
	KindDataIntegrity
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func DataIntegrity(format string, args ...any) *Error {
	return &Error{Kind: KindDataIntegrity, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 when err is not an apperrors.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ToFiber maps a core error onto a fiber error for the central ErrorHandler.
// Unknown errors pass through untouched and end up as 500s.
func ToFiber(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	switch e.Kind {
	case KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, e.Message)
	case KindInvalidState, KindInvalidInput:
		return fiber.NewError(fiber.StatusBadRequest, e.Message)
	case KindForbidden:
		return fiber.NewError(fiber.StatusForbidden, e.Message)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, e.Message)
	}
}
