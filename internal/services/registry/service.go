package registry

import (
	"log/slog"
	"strings"

	"github.com/boardbox/yahtzee/internal/dependencies/clock"
	"github.com/boardbox/yahtzee/internal/dependencies/random"
	"github.com/boardbox/yahtzee/internal/model"
)

const playerIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// colorPool holds the colors handed out to players in registration
// order gaps; a player keeps their color across reconnects
var colorPool = []string{
	"#ff0000", "#00ff00", "#0000ff", "#ffff00",
	"#ff00ff", "#00ffff", "#ffa500", "#800080",
	"#008080", "#808000", "#ff69b4", "#0064ff",
	"#00c832", "#ff1493", "#8b4513", "#6495ed",
}

// Service manages player registration, recognition and readiness. It
// owns no state of its own; every operation acts on the session the
// controller passes in, so the controller's clone-then-commit
// discipline covers registry mutations too.
type Service struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new registry Service
func New(clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// Register registers a new player or recognizes a returning device.
//
// A device whose recognition key matches an existing player resumes that
// player's identity: the connection is rebound and the name may change,
// but turn order, scores and color are untouched. A rename that collides
// with another active player's name is rejected, keeping the old name.
//
// Unrecognized devices may only register while the session is in the
// lobby phase.
func (s *Service) Register(sess *model.GameSession, key string, connID model.ConnectionID, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	now := s.clock.Now()

	if existing := sess.PlayerByRecognitionKey(key); existing != nil {
		if sess.IsNameTaken(name, existing.ID) {
			return nil, model.ErrNameTaken
		}
		existing.DisplayName = name
		s.Rebind(sess, existing, connID)
		sess.NameMemory[key] = name
		return existing, nil
	}

	if sess.Phase != model.PhaseLobby {
		return nil, model.ErrGameInProgress
	}

	if sess.IsNameTaken(name, "") {
		return nil, model.ErrNameTaken
	}

	player := &model.Player{
		ID:             model.PlayerID(s.random.String(12, playerIDAlphabet)),
		ConnectionID:   connID,
		RecognitionKey: key,
		DisplayName:    name,
		Color:          s.nextColor(sess),
		Connected:      true,
		JoinedAt:       now,
		LastActiveAt:   now,
	}

	sess.Players = append(sess.Players, player)
	sess.NameMemory[key] = name

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.DisplayName),
		slog.Int("player_count", len(sess.Players)),
	)

	return player, nil
}

// Recognize returns the player registered from the given device,
// regardless of connection state, or nil
func (s *Service) Recognize(sess *model.GameSession, key string) *model.Player {
	return sess.PlayerByRecognitionKey(key)
}

// Rebind updates the live connection of a recognized player. Turn order
// and game state are untouched.
func (s *Service) Rebind(sess *model.GameSession, player *model.Player, connID model.ConnectionID) {
	player.ConnectionID = connID
	player.Connected = true
	player.LastActiveAt = s.clock.Now()
}

// MarkDisconnected clears a player's live connection without removing
// them; their scores and turn-order slot survive
func (s *Service) MarkDisconnected(sess *model.GameSession, player *model.Player) {
	player.ConnectionID = ""
	player.Connected = false
}

// MarkReady sets the player's ready flag. Idempotent.
func (s *Service) MarkReady(sess *model.GameSession, playerID model.PlayerID) error {
	player := sess.PlayerByID(playerID)
	if player == nil {
		return model.ErrUnknownPlayer
	}
	player.Ready = true
	player.LastActiveAt = s.clock.Now()
	return nil
}

// AllReady returns true iff at least MinPlayers are registered and all
// of them are ready
func (s *Service) AllReady(sess *model.GameSession) bool {
	if len(sess.Players) < model.MinPlayers {
		return false
	}
	for _, p := range sess.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// nextColor picks an unused color from the pool, or a random fallback
// when the pool is exhausted
func (s *Service) nextColor(sess *model.GameSession) string {
	used := sess.UsedColors()
	var available []string
	for _, c := range colorPool {
		if !used[c] {
			available = append(available, c)
		}
	}
	if len(available) > 0 {
		return available[s.random.Intn(len(available))]
	}

	const hexDigits = "0123456789abcdef"
	return "#" + s.random.String(6, hexDigits)
}
