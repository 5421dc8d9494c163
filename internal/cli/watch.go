package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fairwaylabs/caddie/internal/health"
	"github.com/fairwaylabs/caddie/internal/respond/metrics"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Poll a session's roster and serve health/metrics endpoints",
	Args:  cobra.ExactArgs(1),
	Run:   runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := setup()
	sessionID := args[0]

	c := newCore(cfg, sessionID)

	var mu sync.Mutex
	var lastFetch time.Time
	var lastErr string

	srv := health.NewServer(cfg.Server.Port, func() health.Report {
		mu.Lock()
		defer mu.Unlock()
		return health.Report{
			SessionID:   sessionID,
			RosterSize:  len(c.repo.Responses()),
			LastFetchAt: lastFetch,
			LastError:   lastErr,
		}
	})

	go func() {
		if err := srv.Start(); err != nil {
			slog.Debug("Health server stopped", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("Watching session", "session", sessionID, "interval", cfg.Watch.PollInterval, "port", cfg.Server.Port)

	ticker := time.NewTicker(cfg.Watch.PollInterval)
	defer ticker.Stop()

	poll := func() {
		session, err := c.client.FetchSession(ctx, sessionID)
		mu.Lock()
		defer mu.Unlock()
		lastFetch = time.Now()
		if err != nil {
			lastErr = err.Error()
			slog.Warn("Roster fetch failed", "session", sessionID, "error", err)
			return
		}
		lastErr = ""
		c.repo.Replace(session.Responses)
		metrics.RosterSize.WithLabelValues(sessionID).Set(float64(len(session.Responses)))
		slog.Debug("Roster updated", "session", sessionID, "responses", len(session.Responses))
	}
	poll()

	for {
		select {
		case <-ticker.C:
			poll()
		case sig := <-sigChan:
			slog.Info("Received signal, shutting down...", "signal", sig)
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				slog.Error("Error during shutdown", "error", err)
			}
			return
		}
	}
}
