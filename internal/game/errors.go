package game

import "errors"

var (
	ErrUnauthorized     = errors.New("not allowed for this player")
	ErrWrongPhase       = errors.New("not allowed at this point of the game")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrWordNotOffered   = errors.New("word was not one of the choices")
	ErrAlreadyInRoom    = errors.New("connection already in a room")
	ErrInvalidName      = errors.New("display name is empty")
)
