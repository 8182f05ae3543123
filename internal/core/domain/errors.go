package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")

	// ErrCollaboratorUnavailable marks a failed search or LLM collaborator
	// call. Components recover from it locally with fail-open defaults; it
	// reaches the caller only when every collaborator is unreachable at once.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
