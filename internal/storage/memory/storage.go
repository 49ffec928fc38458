package memory

import (
	"context"
	"sync"

	"github.com/boardbox/yahtzee/internal/model"
	"github.com/boardbox/yahtzee/internal/storage"
)

// Storage is an in-memory implementation of the storage interface,
// used in tests and for throwaway games
type Storage struct {
	mu   sync.RWMutex
	sess *model.GameSession
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSession(ctx context.Context, sess *model.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Stored as a copy so later mutations of the caller's session
	// cannot alias into the "persisted" state
	s.sess = sess.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context) (*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return nil, model.ErrNoSession
	}
	return s.sess.Clone(), nil
}

func (s *Storage) DeleteSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}
