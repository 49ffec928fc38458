package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/boardbox/yahtzee/internal/model"
)

type StorageSuite struct {
	suite.Suite
	ctx   context.Context
	store *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New()
}

func (s *StorageSuite) sampleSession() *model.GameSession {
	sess := model.NewSession(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sess.Phase = model.PhasePlaying
	sess.Players = []*model.Player{
		{ID: "p1", DisplayName: "Alice", RecognitionKey: "10.0.0.1"},
		{ID: "p2", DisplayName: "Bob", RecognitionKey: "10.0.0.2"},
	}
	sess.ScoreCards["p1"] = model.NewScoreCard()
	s.Require().NoError(sess.ScoreCards["p1"].Fill(model.CategoryChance, 20))
	sess.Turn = model.NewTurnState("p1")
	return sess
}

func (s *StorageSuite) TestGetMissingSession() {
	_, err := s.store.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *StorageSuite) TestSaveAndGetSession() {
	sess := s.sampleSession()
	s.Require().NoError(s.store.SaveSession(s.ctx, sess))

	loaded, err := s.store.GetSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PhasePlaying, loaded.Phase)
	s.Len(loaded.Players, 2)
	s.Equal(20, loaded.ScoreCards["p1"].Scores[model.CategoryChance])
}

func (s *StorageSuite) TestStoredSessionDoesNotAliasCaller() {
	sess := s.sampleSession()
	s.Require().NoError(s.store.SaveSession(s.ctx, sess))

	sess.Players[0].DisplayName = "Mallory"
	sess.Turn.RollCount = 3

	loaded, err := s.store.GetSession(s.ctx)
	s.Require().NoError(err)
	s.Equal("Alice", loaded.Players[0].DisplayName)
	s.Equal(0, loaded.Turn.RollCount)

	// Mutating a loaded copy does not leak back either
	loaded.Players[0].DisplayName = "Eve"
	again, err := s.store.GetSession(s.ctx)
	s.Require().NoError(err)
	s.Equal("Alice", again.Players[0].DisplayName)
}

func (s *StorageSuite) TestSaveOverwritesPreviousSession() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.sampleSession()))

	fresh := model.NewSession(time.Now())
	s.Require().NoError(s.store.SaveSession(s.ctx, fresh))

	loaded, err := s.store.GetSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PhaseLobby, loaded.Phase)
	s.Empty(loaded.Players)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.sampleSession()))
	s.Require().NoError(s.store.DeleteSession(s.ctx))

	_, err := s.store.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)

	// Deleting again is fine
	s.Require().NoError(s.store.DeleteSession(s.ctx))
}
