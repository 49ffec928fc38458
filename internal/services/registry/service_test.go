package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/boardbox/yahtzee/internal/dependencies/mocks"
	"github.com/boardbox/yahtzee/internal/model"
	"github.com/boardbox/yahtzee/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	sess    *model.GameSession
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.clock, s.random, testutil.NopLogger())
	s.sess = model.NewSession(s.clock.Now())
}

func (s *ServiceSuite) register(key, connID, name, playerID string) *model.Player {
	s.random.QueueString(playerID)
	s.random.QueueIntn(0)
	player, err := s.service.Register(s.sess, key, model.ConnectionID(connID), name)
	s.Require().NoError(err)
	return player
}

func (s *ServiceSuite) TestRegisterNewPlayer() {
	player := s.register("10.0.0.1", "c1", "Alice", "PLAYER1ID000")

	s.Equal(model.PlayerID("PLAYER1ID000"), player.ID)
	s.Equal("Alice", player.DisplayName)
	s.Equal("10.0.0.1", player.RecognitionKey)
	s.Equal(model.ConnectionID("c1"), player.ConnectionID)
	s.True(player.Connected)
	s.False(player.Ready)
	s.NotEmpty(player.Color)
	s.Equal(s.clock.Now(), player.JoinedAt)
	s.Len(s.sess.Players, 1)
	s.Equal("Alice", s.sess.NameMemory["10.0.0.1"])
}

func (s *ServiceSuite) TestRegisterRequiresName() {
	_, err := s.service.Register(s.sess, "10.0.0.1", "c1", "   ")
	s.ErrorIs(err, model.ErrNameRequired)
	s.Empty(s.sess.Players)
}

func (s *ServiceSuite) TestRegisterRejectsDuplicateName() {
	s.register("10.0.0.1", "c1", "Alice", "P1")

	_, err := s.service.Register(s.sess, "10.0.0.2", "c2", "alice")
	s.ErrorIs(err, model.ErrNameTaken)
	s.Len(s.sess.Players, 1)
}

func (s *ServiceSuite) TestRegisterDistinctColors() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")
	p2 := s.register("10.0.0.2", "c2", "Bob", "P2")

	s.NotEqual(p1.Color, p2.Color)
}

func (s *ServiceSuite) TestRecognizedDeviceResumesIdentity() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")
	s.register("10.0.0.2", "c2", "Bob", "P2")
	originalColor := p1.Color
	s.service.MarkDisconnected(s.sess, p1)

	resumed, err := s.service.Register(s.sess, "10.0.0.1", "c9", "Alice")
	s.Require().NoError(err)

	s.Equal(p1.ID, resumed.ID)
	s.Equal(originalColor, resumed.Color)
	s.Equal(model.ConnectionID("c9"), resumed.ConnectionID)
	s.True(resumed.Connected)
	s.Len(s.sess.Players, 2)
	// Join order unchanged
	s.Equal(p1.ID, s.sess.Players[0].ID)
}

func (s *ServiceSuite) TestRecognizedDeviceCanRename() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")

	resumed, err := s.service.Register(s.sess, "10.0.0.1", "c2", "Alicia")
	s.Require().NoError(err)

	s.Equal(p1.ID, resumed.ID)
	s.Equal("Alicia", resumed.DisplayName)
	s.Equal("Alicia", s.sess.NameMemory["10.0.0.1"])
}

func (s *ServiceSuite) TestRenameCollisionKeepsOldName() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")
	s.register("10.0.0.2", "c2", "Bob", "P2")

	_, err := s.service.Register(s.sess, "10.0.0.1", "c3", "Bob")
	s.ErrorIs(err, model.ErrNameTaken)
	s.Equal("Alice", p1.DisplayName)
}

func (s *ServiceSuite) TestRecognizedDeviceRejoinsMidGame() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")
	s.register("10.0.0.2", "c2", "Bob", "P2")
	s.sess.Phase = model.PhasePlaying
	s.service.MarkDisconnected(s.sess, p1)

	resumed, err := s.service.Register(s.sess, "10.0.0.1", "c3", "Alice")
	s.Require().NoError(err)
	s.Equal(p1.ID, resumed.ID)
	s.True(resumed.Connected)
}

func (s *ServiceSuite) TestUnrecognizedDeviceRejectedMidGame() {
	s.register("10.0.0.1", "c1", "Alice", "P1")
	s.sess.Phase = model.PhasePlaying

	_, err := s.service.Register(s.sess, "10.0.0.9", "c9", "Carol")
	s.ErrorIs(err, model.ErrGameInProgress)
	s.Len(s.sess.Players, 1)
}

func (s *ServiceSuite) TestMarkDisconnectedKeepsPlayer() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")

	s.service.MarkDisconnected(s.sess, p1)

	s.False(p1.Connected)
	s.Empty(p1.ConnectionID)
	s.Len(s.sess.Players, 1)
	s.Equal(p1, s.service.Recognize(s.sess, "10.0.0.1"))
}

func (s *ServiceSuite) TestMarkReady() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")

	s.Require().NoError(s.service.MarkReady(s.sess, p1.ID))
	s.True(p1.Ready)

	// Idempotent
	s.Require().NoError(s.service.MarkReady(s.sess, p1.ID))
	s.True(p1.Ready)

	s.ErrorIs(s.service.MarkReady(s.sess, "missing"), model.ErrUnknownPlayer)
}

func (s *ServiceSuite) TestAllReadyRequiresMinimumPlayers() {
	p1 := s.register("10.0.0.1", "c1", "Alice", "P1")
	s.Require().NoError(s.service.MarkReady(s.sess, p1.ID))

	// One ready player is not enough to start
	s.False(s.service.AllReady(s.sess))

	p2 := s.register("10.0.0.2", "c2", "Bob", "P2")
	s.False(s.service.AllReady(s.sess))

	s.Require().NoError(s.service.MarkReady(s.sess, p2.ID))
	s.True(s.service.AllReady(s.sess))
}

func (s *ServiceSuite) TestColorPoolExhaustionFallsBackToRandomHex() {
	for i := range colorPool {
		s.sess.Players = append(s.sess.Players, &model.Player{
			ID:    model.PlayerID(string(rune('A' + i))),
			Color: colorPool[i],
		})
	}

	s.random.QueueString("c0ffee")
	color := s.service.nextColor(s.sess)
	s.Equal("#c0ffee", color)
}
