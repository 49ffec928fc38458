package model

import "errors"

// Common errors used across the application. Every one of these is a
// rejection of a single command, never process-fatal.
var (
	// Registration errors
	ErrNameRequired   = errors.New("a display name is required")
	ErrNameTaken      = errors.New("display name is already taken")
	ErrGameInProgress = errors.New("game is already in progress")
	ErrUnknownPlayer  = errors.New("unknown player")

	// Command errors
	ErrWrongPhase       = errors.New("command not valid in current phase")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrNoRollsRemaining = errors.New("no rolls remaining this turn")
	ErrRollsNotStarted  = errors.New("dice have not been rolled yet")
	ErrInvalidKeep      = errors.New("keep indices must be dice positions 0-4")

	// Scoring errors
	ErrCategoryFilled  = errors.New("category is already filled")
	ErrUnknownCategory = errors.New("unknown scoring category")

	// Persistence errors
	ErrNoSession   = errors.New("no saved session")
	ErrPersistence = errors.New("failed to persist session")
)
