package model

import "time"

// PlayerID uniquely identifies a player for the lifetime of a session.
// It never changes across reconnects.
type PlayerID string

// ConnectionID identifies a live transport connection. A player's
// ConnectionID changes every time their device reconnects.
type ConnectionID string

// Player represents a game participant
type Player struct {
	ID PlayerID

	// ConnectionID is the player's current live connection, empty while
	// disconnected
	ConnectionID ConnectionID

	// RecognitionKey is an opaque key derived from the device's network
	// origin by the transport layer. Equal keys denote the same device.
	RecognitionKey string

	// DisplayName is unique among active players (case-insensitive)
	DisplayName string

	// Color is a hex color assigned from the pool at registration
	Color string

	Ready     bool
	Connected bool

	JoinedAt     time.Time
	LastActiveAt time.Time
}
