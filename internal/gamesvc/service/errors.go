package service

import (
	"errors"

	"github.com/avvvet/geoquiz-services/internal/gamesvc/store"
)

var (
	ErrNotFound           = store.ErrNotFound
	ErrPermission         = errors.New("permission denied")
	ErrState              = errors.New("invalid state")
	ErrExhausted          = errors.New("no unused points left in category")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// ValidationError reports a bad input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
