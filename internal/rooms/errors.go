package rooms

import "errors"

var (
	ErrNotFound            = errors.New("room not found")
	ErrDuplicateCode       = errors.New("room code already in use")
	ErrDuplicateConnection = errors.New("connection already in room")
)
