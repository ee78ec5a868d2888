package interpreter

import (
	"errors"
	"fmt"

	"github.com/hassan3301/dailycrm/internal/domain"
)

// ErrUnknownAction is returned for an action whose kind has no handler.
var ErrUnknownAction = errors.New("unknown action")

// DependencyError wraps a failure of the mailer or the document renderer.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// notFoundError carries the user-facing line for an unresolved reference.
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return domain.ErrNotFound }

func notFoundf(format string, args ...any) error {
	return &notFoundError{msg: fmt.Sprintf(format, args...)}
}
