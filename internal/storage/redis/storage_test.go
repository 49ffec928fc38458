package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/boardbox/yahtzee/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) sampleSession() *model.GameSession {
	sess := model.NewSession(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sess.Phase = model.PhasePlaying
	sess.Players = []*model.Player{
		{ID: "p1", DisplayName: "Alice", RecognitionKey: "10.0.0.1"},
		{ID: "p2", DisplayName: "Bob", RecognitionKey: "10.0.0.2"},
	}
	sess.ScoreCards["p1"] = model.NewScoreCard()
	s.Require().NoError(sess.ScoreCards["p1"].Fill(model.CategoryFullHouse, 25))
	sess.Turn = model.NewTurnState("p1")
	sess.Turn.Dice = []int{2, 2, 2, 5, 5}
	sess.Turn.RollCount = 1
	return sess
}

func (s *StorageSuite) TestGetMissingSession() {
	_, err := s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *StorageSuite) TestSaveAndGetRoundTrip() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, s.sampleSession()))

	loaded, err := s.storage.GetSession(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.PhasePlaying, loaded.Phase)
	s.Len(loaded.Players, 2)
	s.Equal("Bob", loaded.Players[1].DisplayName)
	s.Equal(25, loaded.ScoreCards["p1"].Scores[model.CategoryFullHouse])
	s.Equal([]int{2, 2, 2, 5, 5}, loaded.Turn.Dice)
	s.Equal(1, loaded.Turn.RollCount)
}

func (s *StorageSuite) TestSaveOverwritesPreviousSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, s.sampleSession()))

	updated := s.sampleSession()
	updated.Turn.RollCount = 3
	s.Require().NoError(s.storage.SaveSession(s.ctx, updated))

	loaded, err := s.storage.GetSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, loaded.Turn.RollCount)
}

func (s *StorageSuite) TestSessionExpiresAfterTTL() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, s.sampleSession()))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *StorageSuite) TestDeleteSession() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, s.sampleSession()))
	s.Require().NoError(s.storage.DeleteSession(s.ctx))

	_, err := s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}
