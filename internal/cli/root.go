// Package cli implements the caddie command line interface.
package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/fairwaylabs/caddie/internal/core/config"
	"github.com/fairwaylabs/caddie/internal/infra/api"
	"github.com/fairwaylabs/caddie/internal/infra/retry"
	"github.com/fairwaylabs/caddie/internal/respond"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "caddie",
	Short: "Caddie scheduling client",
	Long:  `Caddie is a command line client for the Teetime golf outing scheduler.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// setup loads .env and the config file, then initializes logging.
func setup() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	return cfg
}

// core bundles the response-editing subsystem for one session.
type core struct {
	client     *api.Client
	repo       *respond.Repository
	dispatcher *respond.Dispatcher
}

// newCore wires the client, stores, executor, and dispatcher for one
// session.
func newCore(cfg *config.AppConfig, sessionID string) *core {
	client := api.NewClient(cfg.API)
	repo := respond.NewRepository(sessionID)
	overlay := respond.NewOverlay(repo)
	tracker := respond.NewTracker()
	exec := retry.New(cfg.Retry)

	return &core{
		client:     client,
		repo:       repo,
		dispatcher: respond.NewDispatcher(client, exec, repo, overlay, tracker),
	}
}
