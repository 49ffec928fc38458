package model

// PlayerSnapshot is the read-only view of a player exposed to clients
type PlayerSnapshot struct {
	ID        PlayerID         `json:"id"`
	Name      string           `json:"name"`
	Color     string           `json:"color"`
	Ready     bool             `json:"ready"`
	Connected bool             `json:"connected"`
	ScoreCard map[Category]int `json:"scoreCard"`
	Total     int              `json:"total"`
}

// Snapshot is an immutable, fully-formed copy of session state. It is
// what clients and the shared display consume; no live references to
// session internals ever leave the controller.
type Snapshot struct {
	Phase           Phase            `json:"phase"`
	Players         []PlayerSnapshot `json:"players"`
	CurrentPlayerID PlayerID         `json:"currentPlayerId,omitempty"`
	Dice            []int            `json:"dice"`
	Kept            []bool           `json:"kept"`
	RollCount       int              `json:"rollCount"`
	MaxRolls        int              `json:"maxRolls"`
	WinnerID        PlayerID         `json:"winnerId,omitempty"`
}

// ClientState is a snapshot enriched with per-device fields, the answer
// to a single client's state query
type ClientState struct {
	Snapshot

	// Joinable is false for an unrecognized device while a game is in
	// progress; the client shows a non-joinable screen instead of an
	// error dialog
	Joinable bool `json:"joinable"`

	// YourPlayerID is set when the querying device is recognized
	YourPlayerID PlayerID `json:"yourPlayerId,omitempty"`

	// SavedName is the last name this device joined with, for
	// prefilling the join form
	SavedName string `json:"savedName,omitempty"`
}

// Snapshot builds an immutable snapshot of the session
func (s *GameSession) Snapshot() *Snapshot {
	snap := &Snapshot{
		Phase:    s.Phase,
		Players:  make([]PlayerSnapshot, 0, len(s.Players)),
		Dice:     []int{},
		Kept:     make([]bool, DiceCount),
		MaxRolls: MaxRolls,
		WinnerID: s.WinnerID,
	}

	for _, p := range s.Players {
		ps := PlayerSnapshot{
			ID:        p.ID,
			Name:      p.DisplayName,
			Color:     p.Color,
			Ready:     p.Ready,
			Connected: p.Connected,
			ScoreCard: make(map[Category]int),
		}
		if card, ok := s.ScoreCards[p.ID]; ok {
			for category, score := range card.Scores {
				ps.ScoreCard[category] = score
			}
			ps.Total = card.Total()
		}
		snap.Players = append(snap.Players, ps)
	}

	if s.Turn != nil {
		snap.CurrentPlayerID = s.Turn.CurrentPlayerID
		snap.Dice = append([]int{}, s.Turn.Dice...)
		snap.Kept = append([]bool(nil), s.Turn.Kept...)
		snap.RollCount = s.Turn.RollCount
	}

	return snap
}
