package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Lobby events
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerRejoined     EventType = "player_rejoined"
	EventPlayerReady        EventType = "player_ready"
	EventPlayerDisconnected EventType = "player_disconnected"
	EventGameStarted        EventType = "game_started"

	// Turn events
	EventDiceRolled     EventType = "dice_rolled"
	EventCategoryScored EventType = "category_scored"
	EventTurnAdvanced   EventType = "turn_advanced"

	// Session events
	EventGameFinished EventType = "game_finished"
	EventGameReset    EventType = "game_reset"
	EventStateChanged EventType = "state_changed"
)

// Event is the base structure for all events emitted after an accepted
// command. The load-bearing contract is the full snapshot broadcast
// alongside these; the named events are notifications clients may use
// for targeted UI updates.
type Event struct {
	Type      EventType
	Timestamp time.Time
	PlayerID  PlayerID // The player who triggered or is affected
	Payload   any      // Type-specific data
}

// PlayerJoinedPayload contains data for player joined/rejoined events
type PlayerJoinedPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Rejoined bool     `json:"rejoined"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Players       []PlayerID `json:"players"`
	FirstPlayerID PlayerID   `json:"firstPlayerId"`
}

// DiceRolledPayload contains data for dice rolled events
type DiceRolledPayload struct {
	PlayerID  PlayerID `json:"playerId"`
	Dice      []int    `json:"dice"`
	Kept      []bool   `json:"kept"`
	RollCount int      `json:"rollCount"`
}

// CategoryScoredPayload contains data for category scored events
type CategoryScoredPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Category Category `json:"category"`
	Score    int      `json:"score"`
	Total    int      `json:"total"`
}

// TurnAdvancedPayload contains data for turn advanced events
type TurnAdvancedPayload struct {
	NextPlayerID PlayerID `json:"nextPlayerId"`
}

// GameFinishedPayload contains data for game finished events
type GameFinishedPayload struct {
	WinnerID PlayerID         `json:"winnerId"`
	Totals   map[PlayerID]int `json:"totals"`
}
