package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/boardbox/yahtzee/internal/factory"
	redisstorage "github.com/boardbox/yahtzee/internal/storage/redis"
	"github.com/boardbox/yahtzee/internal/web"
)

type config struct {
	bind         string
	port         int
	storageType  string
	snapshotPath string
	redisURL     string
	publicURL    string
	trustProxy   bool
	verbose      bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.storageType == factory.StorageTypeRedis && c.redisURL == "" {
		return errors.New("--redis-url required when --storage=redis")
	}
	return nil
}

// joinURL is the controller address encoded into the display's QR code
func (c *config) joinURL() string {
	if c.publicURL != "" {
		return strings.TrimSuffix(c.publicURL, "/") + "/controller"
	}
	return "http://" + net.JoinHostPort(web.LocalIP(), strconv.Itoa(c.port)) + "/controller"
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("YAHTZEE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "yahtzee",
		Short:         "Shared-display multiplayer Yahtzee served to mobile controllers.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: YAHTZEE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5050, "port to listen on (env: YAHTZEE_PORT)")
	fs.StringVar(&cfg.storageType, "storage", factory.StorageTypeFile, "snapshot backend: file, memory or redis (env: YAHTZEE_STORAGE)")
	fs.StringVar(&cfg.snapshotPath, "snapshot-path", "data/game_state.json", "session snapshot file for the file backend (env: YAHTZEE_SNAPSHOT_PATH)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL for the redis backend (env: YAHTZEE_REDIS_URL)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "externally reachable base URL for the QR join link (env: YAHTZEE_PUBLIC_URL)")
	fs.BoolVar(&cfg.trustProxy, "trust-proxy", false, "derive device identity from X-Real-IP/X-Forwarded-For; only behind a proxy that strips client-supplied values (env: YAHTZEE_TRUST_PROXY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: YAHTZEE_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, v.GetString(f.Name))
		}
	})

	return cmd
}

func run(ctx context.Context, cfg *config) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:       logger,
		StorageType:  cfg.storageType,
		SnapshotPath: cfg.snapshotPath,
	}
	if cfg.storageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	go app.Hub.Run()
	defer app.Hub.Close()

	// Restore an in-progress game, if one was persisted
	app.SessionController.Load(ctx)

	joinURL := cfg.joinURL()
	router := web.NewRouter(web.RouterConfig{
		Logger:            logger,
		Session:           app.SessionController,
		Hub:               app.Hub,
		JoinURL:           joinURL,
		TrustProxyHeaders: cfg.trustProxy,
	})

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler: router,
		// No WriteTimeout: long-lived websocket connections must not
		// be severed by the server
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr),
		slog.String("join_url", joinURL),
	)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func main() {
	cfg := &config{}
	if err := newCmd(cfg).Execute(); err != nil {
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
