package storage

import (
	"context"

	"github.com/boardbox/yahtzee/internal/model"
)

// Storage defines the interface for session snapshot persistence. One
// session exists per process, so the contract is a single slot: the
// whole session is written after every accepted mutation and read once
// at process start.
type Storage interface {
	// SaveSession durably records the session. The write must be
	// atomic: a reader never observes a partially written snapshot.
	SaveSession(ctx context.Context, sess *model.GameSession) error

	// GetSession returns the stored session, or model.ErrNoSession if
	// none has been saved
	GetSession(ctx context.Context) (*model.GameSession, error)

	// DeleteSession removes the stored session, if any
	DeleteSession(ctx context.Context) error
}
