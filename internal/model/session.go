package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase represents the current phase of the game session
type Phase string

const (
	PhaseLobby    Phase = "lobby"    // Waiting for players to join and ready up
	PhasePlaying  Phase = "playing"  // Turns in progress
	PhaseFinished Phase = "finished" // All cards complete, winner computed
)

// Game constants
const (
	DiceCount  = 5
	MaxRolls   = 3
	MinPlayers = 2
)

// TurnState tracks the current player's span of rolls. It exists only
// while the session is in PhasePlaying.
type TurnState struct {
	CurrentPlayerID PlayerID

	// Dice holds the current five dice, empty until the first roll of
	// the turn
	Dice []int

	// Kept is parallel to the dice positions; kept dice are excluded
	// from the next reroll
	Kept []bool

	// RollCount is the number of rolls used this turn, in [0, MaxRolls]
	RollCount int
}

// NewTurnState starts a fresh turn for the given player
func NewTurnState(playerID PlayerID) *TurnState {
	return &TurnState{
		CurrentPlayerID: playerID,
		Dice:            nil,
		Kept:            make([]bool, DiceCount),
		RollCount:       0,
	}
}

// GameSession is the authoritative state of the single game this process
// hosts. It is mutated only through the session controller's command
// surface and persisted as a whole after every accepted mutation.
type GameSession struct {
	Phase Phase

	// Players in join order; turn order is fixed to this once the game
	// starts. Players are never removed, only marked disconnected.
	Players []*Player

	// ScoreCards keyed by stable player identity, created at game start
	ScoreCards map[PlayerID]*ScoreCard

	// Turn is present only during PhasePlaying
	Turn *TurnState

	// WinnerID is set when the session finishes
	WinnerID PlayerID

	// NameMemory remembers the last display name used by each
	// recognition key, so a returning device can prefill its join form.
	// It survives into brand-new sessions.
	NameMemory map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates an empty lobby-phase session
func NewSession(now time.Time) *GameSession {
	return &GameSession{
		Phase:      PhaseLobby,
		ScoreCards: make(map[PlayerID]*ScoreCard),
		NameMemory: make(map[string]string),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// PlayerByID returns the player with the given ID, or nil
func (s *GameSession) PlayerByID(id PlayerID) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByConnection returns the player bound to the given live
// connection, or nil
func (s *GameSession) PlayerByConnection(connID ConnectionID) *Player {
	if connID == "" {
		return nil
	}
	for _, p := range s.Players {
		if p.ConnectionID == connID {
			return p
		}
	}
	return nil
}

// PlayerByRecognitionKey returns the player registered from the given
// device, regardless of connection state, or nil
func (s *GameSession) PlayerByRecognitionKey(key string) *Player {
	for _, p := range s.Players {
		if p.RecognitionKey == key {
			return p
		}
	}
	return nil
}

// IsNameTaken reports whether another player already uses the name,
// case-insensitively. The player with exceptID is excluded so a
// reconnecting player can keep their own name.
func (s *GameSession) IsNameTaken(name string, exceptID PlayerID) bool {
	for _, p := range s.Players {
		if p.ID != exceptID && strings.EqualFold(p.DisplayName, name) {
			return true
		}
	}
	return false
}

// CurrentPlayer returns the player whose turn it is, or nil outside
// PhasePlaying
func (s *GameSession) CurrentPlayer() *Player {
	if s.Turn == nil {
		return nil
	}
	return s.PlayerByID(s.Turn.CurrentPlayerID)
}

// NextPlayerAfter returns the next player in join order, wrapping
func (s *GameSession) NextPlayerAfter(id PlayerID) *Player {
	for i, p := range s.Players {
		if p.ID == id {
			return s.Players[(i+1)%len(s.Players)]
		}
	}
	return nil
}

// AllCardsComplete returns true iff every player's card is complete
func (s *GameSession) AllCardsComplete() bool {
	if len(s.Players) == 0 {
		return false
	}
	for _, p := range s.Players {
		card, ok := s.ScoreCards[p.ID]
		if !ok || !card.IsComplete() {
			return false
		}
	}
	return true
}

// UsedColors returns the set of colors currently assigned to players
func (s *GameSession) UsedColors() map[string]bool {
	used := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		used[p.Color] = true
	}
	return used
}

// Validate checks the structural invariants a session must hold before
// it can serve commands. Sessions built through the command surface
// always hold them; a restored snapshot might not.
func (s *GameSession) Validate() error {
	switch s.Phase {
	case PhaseLobby, PhasePlaying, PhaseFinished:
	default:
		return fmt.Errorf("unknown phase %q", s.Phase)
	}

	if s.Phase != PhasePlaying {
		return nil
	}

	if len(s.Players) < MinPlayers {
		return fmt.Errorf("playing phase with %d players", len(s.Players))
	}
	if s.Turn == nil {
		return errors.New("playing phase without turn state")
	}
	if s.PlayerByID(s.Turn.CurrentPlayerID) == nil {
		return fmt.Errorf("current player %q is not registered", s.Turn.CurrentPlayerID)
	}
	if s.Turn.RollCount < 0 || s.Turn.RollCount > MaxRolls {
		return fmt.Errorf("roll count %d out of range", s.Turn.RollCount)
	}
	for _, p := range s.Players {
		if _, ok := s.ScoreCards[p.ID]; !ok {
			return fmt.Errorf("player %q has no score card", p.ID)
		}
	}
	return nil
}

// Clone returns a deep copy of the session. Commands mutate a clone and
// swap it in only after the mutation has been durably persisted.
func (s *GameSession) Clone() *GameSession {
	clone := &GameSession{
		Phase:      s.Phase,
		WinnerID:   s.WinnerID,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		ScoreCards: make(map[PlayerID]*ScoreCard, len(s.ScoreCards)),
		NameMemory: make(map[string]string, len(s.NameMemory)),
	}

	clone.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		copied := *p
		clone.Players[i] = &copied
	}

	for id, card := range s.ScoreCards {
		clone.ScoreCards[id] = card.Clone()
	}

	for key, name := range s.NameMemory {
		clone.NameMemory[key] = name
	}

	if s.Turn != nil {
		turn := &TurnState{
			CurrentPlayerID: s.Turn.CurrentPlayerID,
			RollCount:       s.Turn.RollCount,
			Dice:            append([]int(nil), s.Turn.Dice...),
			Kept:            append([]bool(nil), s.Turn.Kept...),
		}
		clone.Turn = turn
	}

	return clone
}
