package apperror

import "errors"

var (
	ErrMoveOutOfRange  = errors.New("move is out of history range")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("session has no history")
	ErrUnknownStorage  = errors.New("unknown storage type")
)
