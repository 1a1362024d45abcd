package providers

import (
	"errors"
	"fmt"
)

// ErrEmptyReply is returned when a reply carries no text content.
var ErrEmptyReply = errors.New("reply contained no text content")

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// StatusError is a non-success HTTP reply from the completion API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}
