package ws

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/boardbox/yahtzee/internal/model"
	"github.com/boardbox/yahtzee/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
	go s.hub.Run()
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
}

func (s *HubSuite) newClient(connID string) *Client {
	return &Client{
		hub:         s.hub,
		send:        make(chan []byte, sendBufferSize),
		connID:      model.ConnectionID(connID),
		logger:      testutil.NopLogger(),
		connectedAt: time.Now(),
	}
}

// receive reads the next message from the client's send channel,
// failing the test on timeout
func (s *HubSuite) receive(client *Client) []byte {
	select {
	case msg := <-client.send:
		return msg
	case <-time.After(time.Second):
		s.Require().FailNow("timed out waiting for message")
		return nil
	}
}

// awaitClientCount waits for the hub loop to process pending
// register/unregister requests
func (s *HubSuite) awaitClientCount(want int) {
	s.Require().Eventually(func() bool {
		return s.hub.ClientCount() == want
	}, time.Second, 5*time.Millisecond)
}

func (s *HubSuite) TestRegisterAndUnregister() {
	client := s.newClient("c1")

	s.hub.Register(client)
	s.awaitClientCount(1)

	s.hub.Unregister(client)
	s.awaitClientCount(0)

	// The hub closes the send channel on unregister
	_, open := <-client.send
	s.False(open)
}

func (s *HubSuite) TestBroadcastReachesAllClients() {
	c1 := s.newClient("c1")
	c2 := s.newClient("c2")
	s.hub.Register(c1)
	s.hub.Register(c2)
	s.awaitClientCount(2)

	s.hub.Broadcast([]byte(`{"type":"ping"}`))

	s.JSONEq(`{"type":"ping"}`, string(s.receive(c1)))
	s.JSONEq(`{"type":"ping"}`, string(s.receive(c2)))
}

func (s *HubSuite) TestBroadcastSkipsSlowClient() {
	slow := s.newClient("slow")
	slow.send = make(chan []byte) // unbuffered and never drained
	healthy := s.newClient("healthy")
	s.hub.Register(slow)
	s.hub.Register(healthy)
	s.awaitClientCount(2)

	s.hub.Broadcast([]byte(`{"type":"ping"}`))

	// The healthy client still gets the message
	s.JSONEq(`{"type":"ping"}`, string(s.receive(healthy)))
}

func (s *HubSuite) TestRegisterAndUnregisterAfterCloseDoNotBlock() {
	registered := s.newClient("c1")
	s.hub.Register(registered)
	s.awaitClientCount(1)

	s.hub.Close()

	done := make(chan struct{})
	go func() {
		// A connection landing in the shutdown window
		late := s.newClient("late")
		s.hub.Register(late)
		s.hub.Unregister(late)
		s.hub.Unregister(registered)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Require().FailNow("register/unregister blocked after close")
	}
}

func (s *HubSuite) TestPublishSendsEventsThenSnapshot() {
	client := s.newClient("c1")
	s.hub.Register(client)
	s.awaitClientCount(1)

	events := []model.Event{
		{Type: model.EventDiceRolled, PlayerID: "P1", Payload: model.DiceRolledPayload{
			PlayerID:  "P1",
			Dice:      []int{3, 3, 3, 5, 6},
			Kept:      []bool{false, false, false, false, false},
			RollCount: 1,
		}},
	}
	snap := &model.Snapshot{
		Phase:    model.PhasePlaying,
		Players:  []model.PlayerSnapshot{},
		Dice:     []int{3, 3, 3, 5, 6},
		Kept:     []bool{false, false, false, false, false},
		MaxRolls: model.MaxRolls,
	}

	s.hub.Publish(events, snap)

	var first Envelope
	s.Require().NoError(json.Unmarshal(s.receive(client), &first))
	s.Equal(string(model.EventDiceRolled), first.Type)
	s.Equal(model.PlayerID("P1"), first.PlayerID)

	var second struct {
		Type string          `json:"type"`
		Data *model.Snapshot `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(s.receive(client), &second))
	s.Equal(string(model.EventStateChanged), second.Type)
	s.Equal(model.PhasePlaying, second.Data.Phase)
	s.Equal([]int{3, 3, 3, 5, 6}, second.Data.Dice)
}

func (s *HubSuite) TestErrorBodyMapping() {
	cases := []struct {
		err  error
		code string
	}{
		{model.ErrNameTaken, "name_taken"},
		{model.ErrNotYourTurn, "not_your_turn"},
		{model.ErrNoRollsRemaining, "no_rolls_remaining"},
		{model.ErrCategoryFilled, "category_already_filled"},
		{fmt.Errorf("%w: disk full", model.ErrPersistence), "persistence_failed"},
		{fmt.Errorf("something else"), "internal"},
	}
	for _, tc := range cases {
		s.Equal(tc.code, errorBody(tc.err).Code)
	}
}
