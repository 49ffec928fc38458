package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/boardbox/yahtzee/internal/dependencies/clock"
	"github.com/boardbox/yahtzee/internal/model"
	"github.com/boardbox/yahtzee/internal/services/dice"
	"github.com/boardbox/yahtzee/internal/services/registry"
	"github.com/boardbox/yahtzee/internal/storage"
)

// Publisher receives the events and snapshot produced by an accepted
// command. A nil publisher is allowed; broadcasting is best-effort and
// never blocks or fails a command.
type Publisher interface {
	Publish(events []model.Event, snap *model.Snapshot)
}

// Controller owns the single game session this process hosts and
// exposes its command surface. Commands are applied one at a time under
// a single mutating critical section; reads take a shared lock and only
// ever see fully-applied state.
//
// Every mutating command follows the same discipline: validate against
// the current session, apply the change to a deep copy, persist the
// copy, and only then swap it in and publish. A failed persist leaves
// the previous state in place, so a command either holds every
// invariant afterwards or changes nothing.
type Controller struct {
	storage  storage.Storage
	registry *registry.Service
	dice     *dice.Service
	clock    clock.Clock
	logger   *slog.Logger

	mu        sync.RWMutex
	sess      *model.GameSession
	publisher Publisher
}

// NewController creates a session controller seeded with a fresh lobby.
// Call Load to restore a persisted session before serving commands.
func NewController(
	storage storage.Storage,
	registry *registry.Service,
	dice *dice.Service,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		registry: registry,
		dice:     dice,
		clock:    clock,
		logger:   logger,
		sess:     model.NewSession(clock.Now()),
	}
}

// SetPublisher attaches the event publisher. Called once during wiring,
// before any command is served.
func (c *Controller) SetPublisher(p Publisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisher = p
}

// Load seeds the controller from the persisted snapshot, if one exists.
// A missing or corrupt snapshot is a recovery event, not a crash: the
// session simply starts fresh from the lobby.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.storage.GetSession(ctx)
	switch {
	case err == nil:
		// A snapshot that decodes cleanly can still be unusable, e.g.
		// hand-edited or truncated by an older build. Treat it like a
		// corrupt one rather than serving commands that would fault.
		if sess.ScoreCards == nil {
			sess.ScoreCards = make(map[model.PlayerID]*model.ScoreCard)
		}
		if sess.NameMemory == nil {
			sess.NameMemory = make(map[string]string)
		}
		if verr := sess.Validate(); verr != nil {
			c.logger.Warn("restored session violates invariants, starting fresh",
				slog.String("error", verr.Error()),
			)
			return
		}

		// Live connections did not survive the restart; devices are
		// re-recognized by key as they reconnect
		for _, p := range sess.Players {
			p.ConnectionID = ""
			p.Connected = false
		}
		c.sess = sess
		c.logger.Info("session restored",
			slog.String("phase", string(sess.Phase)),
			slog.Int("player_count", len(sess.Players)),
		)
	case errors.Is(err, model.ErrNoSession):
		c.logger.Info("no saved session, starting fresh")
	default:
		c.logger.Warn("could not restore session, starting fresh",
			slog.String("error", err.Error()),
		)
	}
}

// Join registers a new player or recognizes a returning device. During
// play a recognized device is rebound to its existing player without
// touching turn order, dice or scores; an unrecognized device is
// rejected with ErrGameInProgress.
func (c *Controller) Join(ctx context.Context, key string, connID model.ConnectionID, name string) (*model.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.sess.Clone()
	rejoined := next.PlayerByRecognitionKey(key) != nil

	player, err := c.registry.Register(next, key, connID, name)
	if err != nil {
		return nil, err
	}

	eventType := model.EventPlayerJoined
	if rejoined {
		eventType = model.EventPlayerRejoined
	}
	ev := c.event(eventType, player.ID, model.PlayerJoinedPayload{
		PlayerID: player.ID,
		Name:     player.DisplayName,
		Color:    player.Color,
		Rejoined: rejoined,
	})

	if err := c.commit(ctx, next, ev); err != nil {
		return nil, err
	}

	joined := *player
	return &joined, nil
}

// Ready marks a player ready. When at least two players are registered
// and all of them are ready, the game starts: phase moves to playing,
// score cards are dealt, and the first player in join order is up.
func (c *Controller) Ready(ctx context.Context, playerID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Phase != model.PhaseLobby {
		return model.ErrWrongPhase
	}

	next := c.sess.Clone()
	if err := c.registry.MarkReady(next, playerID); err != nil {
		return err
	}

	events := []model.Event{c.event(model.EventPlayerReady, playerID, nil)}

	if c.registry.AllReady(next) {
		c.startGame(next)
		events = append(events, c.event(model.EventGameStarted, "", model.GameStartedPayload{
			Players:       playerIDs(next.Players),
			FirstPlayerID: next.Turn.CurrentPlayerID,
		}))
	}

	return c.commit(ctx, next, events...)
}

// startGame transitions the session from lobby to playing
func (c *Controller) startGame(sess *model.GameSession) {
	sess.Phase = model.PhasePlaying
	for _, p := range sess.Players {
		sess.ScoreCards[p.ID] = model.NewScoreCard()
	}
	sess.Turn = model.NewTurnState(sess.Players[0].ID)

	c.logger.Info("game started",
		slog.Int("player_count", len(sess.Players)),
		slog.String("first_player", string(sess.Turn.CurrentPlayerID)),
	)
}

// Roll rolls the dice for the current player. keepIndices marks the
// dice positions excluded from the reroll; it is ignored on the first
// roll of a turn, when there is nothing to keep.
func (c *Controller) Roll(ctx context.Context, playerID model.PlayerID, keepIndices []int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Phase != model.PhasePlaying {
		return model.ErrWrongPhase
	}
	if c.sess.Turn.CurrentPlayerID != playerID {
		return model.ErrNotYourTurn
	}
	if c.sess.Turn.RollCount >= model.MaxRolls {
		return model.ErrNoRollsRemaining
	}

	kept := make([]bool, model.DiceCount)
	for _, idx := range keepIndices {
		if idx < 0 || idx >= model.DiceCount {
			return model.ErrInvalidKeep
		}
		kept[idx] = true
	}

	next := c.sess.Clone()
	turn := next.Turn

	if turn.RollCount == 0 {
		turn.Dice = c.dice.Roll(model.DiceCount)
		turn.Kept = make([]bool, model.DiceCount)
	} else {
		turn.Kept = kept
		turn.Dice = c.dice.Reroll(turn.Dice, kept)
	}
	turn.RollCount++

	c.touch(next, playerID)

	ev := c.event(model.EventDiceRolled, playerID, model.DiceRolledPayload{
		PlayerID:  playerID,
		Dice:      append([]int(nil), turn.Dice...),
		Kept:      append([]bool(nil), turn.Kept...),
		RollCount: turn.RollCount,
	})

	return c.commit(ctx, next, ev)
}

// Score fills a category on the acting player's card with the value of
// the current dice, then either advances the turn or, when every card
// is complete, finishes the game and computes the winner.
func (c *Controller) Score(ctx context.Context, playerID model.PlayerID, category model.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Phase != model.PhasePlaying {
		return model.ErrWrongPhase
	}
	if c.sess.Turn.CurrentPlayerID != playerID {
		return model.ErrNotYourTurn
	}
	if c.sess.Turn.RollCount < 1 {
		return model.ErrRollsNotStarted
	}
	if !model.IsKnownCategory(category) {
		return model.ErrUnknownCategory
	}
	if c.sess.ScoreCards[playerID].IsFilled(category) {
		return model.ErrCategoryFilled
	}

	next := c.sess.Clone()
	card := next.ScoreCards[playerID]

	score := dice.Evaluate(category, next.Turn.Dice)
	if err := card.Fill(category, score); err != nil {
		return err
	}

	c.touch(next, playerID)

	events := []model.Event{c.event(model.EventCategoryScored, playerID, model.CategoryScoredPayload{
		PlayerID: playerID,
		Category: category,
		Score:    score,
		Total:    card.Total(),
	})}

	if next.AllCardsComplete() {
		next.Phase = model.PhaseFinished
		next.Turn = nil
		next.WinnerID = winner(next)

		totals := make(map[model.PlayerID]int, len(next.Players))
		for _, p := range next.Players {
			totals[p.ID] = next.ScoreCards[p.ID].Total()
		}
		events = append(events, c.event(model.EventGameFinished, next.WinnerID, model.GameFinishedPayload{
			WinnerID: next.WinnerID,
			Totals:   totals,
		}))

		c.logger.Info("game finished",
			slog.String("winner", string(next.WinnerID)),
			slog.Int("winning_total", totals[next.WinnerID]),
		)
	} else {
		nextPlayer := next.NextPlayerAfter(playerID)
		next.Turn = model.NewTurnState(nextPlayer.ID)
		events = append(events, c.event(model.EventTurnAdvanced, nextPlayer.ID, model.TurnAdvancedPayload{
			NextPlayerID: nextPlayer.ID,
		}))
	}

	return c.commit(ctx, next, events...)
}

// Disconnect marks the player bound to the connection as disconnected.
// The player is never removed; a later Join with the same recognition
// key resumes their identity.
func (c *Controller) Disconnect(ctx context.Context, connID model.ConnectionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.PlayerByConnection(connID) == nil {
		return nil
	}

	next := c.sess.Clone()
	player := next.PlayerByConnection(connID)
	c.registry.MarkDisconnected(next, player)

	ev := c.event(model.EventPlayerDisconnected, player.ID, nil)
	return c.commit(ctx, next, ev)
}

// NewGame replaces a finished session with a brand-new lobby. The
// per-device name memory carries over so returning devices still get
// their names prefilled.
func (c *Controller) NewGame(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Phase == model.PhasePlaying {
		return model.ErrWrongPhase
	}

	next := model.NewSession(c.clock.Now())
	for key, name := range c.sess.NameMemory {
		next.NameMemory[key] = name
	}

	ev := c.event(model.EventGameReset, "", nil)
	return c.commit(ctx, next, ev)
}

// State returns a read-only snapshot of the session
func (c *Controller) State() *model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess.Snapshot()
}

// ClientState returns the snapshot enriched with per-device fields for
// the given recognition key. An unrecognized device mid-game sees
// joinable=false rather than an error.
func (c *Controller) ClientState(key string) *model.ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := &model.ClientState{
		Snapshot:  *c.sess.Snapshot(),
		Joinable:  c.sess.Phase == model.PhaseLobby,
		SavedName: c.sess.NameMemory[key],
	}
	if player := c.sess.PlayerByRecognitionKey(key); player != nil {
		state.Joinable = true
		state.YourPlayerID = player.ID
	}
	return state
}

// PlayerForConnection resolves a live connection to its player ID
func (c *Controller) PlayerForConnection(connID model.ConnectionID) (model.PlayerID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if player := c.sess.PlayerByConnection(connID); player != nil {
		return player.ID, true
	}
	return "", false
}

// commit persists the mutated session, swaps it in and publishes. The
// caller holds the write lock. On a failed persist the in-memory state
// is untouched and the command fails with ErrPersistence.
func (c *Controller) commit(ctx context.Context, next *model.GameSession, events ...model.Event) error {
	next.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, next); err != nil {
		c.logger.Error("failed to persist session",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}

	c.sess = next

	if c.publisher != nil {
		c.publisher.Publish(events, next.Snapshot())
	}
	return nil
}

// touch refreshes the player's last-active timestamp
func (c *Controller) touch(sess *model.GameSession, playerID model.PlayerID) {
	if player := sess.PlayerByID(playerID); player != nil {
		player.LastActiveAt = c.clock.Now()
	}
}

func (c *Controller) event(eventType model.EventType, playerID model.PlayerID, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		PlayerID:  playerID,
		Payload:   payload,
	}
}

// winner returns the player with the highest grand total, ties broken
// by earliest join order
func winner(sess *model.GameSession) model.PlayerID {
	var best model.PlayerID
	bestTotal := -1
	for _, p := range sess.Players {
		if total := sess.ScoreCards[p.ID].Total(); total > bestTotal {
			best = p.ID
			bestTotal = total
		}
	}
	return best
}

func playerIDs(players []*model.Player) []model.PlayerID {
	ids := make([]model.PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// ControllerInterface is the command surface consumed by the transport
// layer
type ControllerInterface interface {
	Join(ctx context.Context, key string, connID model.ConnectionID, name string) (*model.Player, error)
	Ready(ctx context.Context, playerID model.PlayerID) error
	Roll(ctx context.Context, playerID model.PlayerID, keepIndices []int) error
	Score(ctx context.Context, playerID model.PlayerID, category model.Category) error
	Disconnect(ctx context.Context, connID model.ConnectionID) error
	NewGame(ctx context.Context) error
	State() *model.Snapshot
	ClientState(key string) *model.ClientState
	PlayerForConnection(connID model.ConnectionID) (model.PlayerID, bool)
}

var _ ControllerInterface = (*Controller)(nil)
