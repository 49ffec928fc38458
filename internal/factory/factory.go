package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/boardbox/yahtzee/internal/dependencies/clock"
	"github.com/boardbox/yahtzee/internal/dependencies/random"
	"github.com/boardbox/yahtzee/internal/services/dice"
	"github.com/boardbox/yahtzee/internal/services/registry"
	"github.com/boardbox/yahtzee/internal/services/session"
	"github.com/boardbox/yahtzee/internal/storage"
	filestorage "github.com/boardbox/yahtzee/internal/storage/file"
	"github.com/boardbox/yahtzee/internal/storage/memory"
	redisstorage "github.com/boardbox/yahtzee/internal/storage/redis"
	"github.com/boardbox/yahtzee/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DiceService       *dice.Service
	Registry          *registry.Service
	SessionController *session.Controller
	Hub               *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger

	// StorageType selects the storage backend ("file", "memory" or "redis")
	// If empty, defaults to "file"
	StorageType string

	// SnapshotPath is the session snapshot file (required if StorageType is "file")
	SnapshotPath string

	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		if cfg.SnapshotPath == "" {
			return nil, errors.New("SnapshotPath required when StorageType is file")
		}
		fileStore, err := filestorage.New(cfg.SnapshotPath)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'file', 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	diceService := dice.New(rnd)
	playerRegistry := registry.New(clk, rnd, logger)
	controller := session.NewController(store, playerRegistry, diceService, clk, logger)

	hub := ws.NewHub(logger)
	controller.SetPublisher(hub)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		DiceService:       diceService,
		Registry:          playerRegistry,
		SessionController: controller,
		Hub:               hub,
	}
}
