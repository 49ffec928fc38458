package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boardbox/yahtzee/internal/model"
	"github.com/boardbox/yahtzee/internal/storage"
)

// Storage persists the session as a JSON file. Writes go to a temp file
// in the same directory followed by a rename, so a crash mid-write
// leaves the previous snapshot intact.
type Storage struct {
	path string
}

// New creates a file storage writing to the given path, creating parent
// directories as needed
func New(path string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &Storage{path: path}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSession(ctx context.Context, sess *model.GameSession) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context) (*model.GameSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrNoSession
		}
		return nil, err
	}

	var sess model.GameSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session snapshot: %w", err)
	}
	return &sess, nil
}

func (s *Storage) DeleteSession(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the snapshot file path
func (s *Storage) Path() string {
	return s.path
}
