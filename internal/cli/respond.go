package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fairwaylabs/caddie/internal/core/config"
	"github.com/fairwaylabs/caddie/internal/core/domain"
	"github.com/spf13/cobra"
)

var respondCmd = &cobra.Command{
	Use:   "respond <session-id> <user-id> <in|out|undecided>",
	Short: "Set your attendance status (repeat the current status to toggle off)",
	Args:  cobra.ExactArgs(3),
	Run:   runRespond,
}

var noteCmd = &cobra.Command{
	Use:   "note <session-id> <user-id> <text>",
	Short: "Set the note on your response",
	Args:  cobra.MinimumNArgs(3),
	Run:   runNote,
}

var rideCmd = &cobra.Command{
	Use:   "ride <session-id> <user-id> <walking|riding>",
	Short: "Set your transport choice",
	Args:  cobra.ExactArgs(3),
	Run:   runRide,
}

func init() {
	rootCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(rideCmd)
}

// seededCore builds the core and primes the repository with the current
// roster so edits default unspecified fields to their live values.
func seededCore(ctx context.Context, cfg *config.AppConfig, sessionID string) *core {
	c := newCore(cfg, sessionID)
	session, err := c.client.FetchSession(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to fetch session", "session", sessionID, "error", err)
		os.Exit(1)
	}
	c.repo.Replace(session.Responses)
	return c
}

func runRespond(cmd *cobra.Command, args []string) {
	cfg := setup()
	sessionID, userID := args[0], args[1]

	var status domain.Status
	switch strings.ToLower(args[2]) {
	case "in":
		status = domain.StatusIn
	case "out":
		status = domain.StatusOut
	case "undecided":
		status = domain.StatusUndecided
	default:
		slog.Error("Unknown status", "status", args[2])
		os.Exit(1)
	}

	ctx := context.Background()
	c := seededCore(ctx, cfg, sessionID)

	if err := c.dispatcher.SetStatus(ctx, userID, status); err != nil {
		slog.Error("Failed to set status", "user", userID, "error", err)
		os.Exit(1)
	}
	printResponse(c, userID)
}

func runNote(cmd *cobra.Command, args []string) {
	cfg := setup()
	sessionID, userID := args[0], args[1]
	note := strings.Join(args[2:], " ")

	ctx := context.Background()
	c := seededCore(ctx, cfg, sessionID)

	if err := c.dispatcher.SetNote(ctx, userID, note); err != nil {
		slog.Error("Failed to set note", "user", userID, "error", err)
		os.Exit(1)
	}
	printResponse(c, userID)
}

func runRide(cmd *cobra.Command, args []string) {
	cfg := setup()
	sessionID, userID := args[0], args[1]

	var transport domain.Transport
	switch strings.ToLower(args[2]) {
	case "walking":
		transport = domain.TransportWalking
	case "riding":
		transport = domain.TransportRiding
	default:
		slog.Error("Unknown transport", "transport", args[2])
		os.Exit(1)
	}

	ctx := context.Background()
	c := seededCore(ctx, cfg, sessionID)

	if err := c.dispatcher.SetTransport(ctx, userID, transport); err != nil {
		slog.Error("Failed to set transport", "user", userID, "error", err)
		os.Exit(1)
	}
	printResponse(c, userID)
}

func printResponse(c *core, userID string) {
	resp := c.dispatcher.UserResponse(userID)
	if resp == nil {
		fmt.Printf("%s: no response\n", userID)
		return
	}
	line := fmt.Sprintf("%s: %s", userID, resp.Status)
	if resp.Status == domain.StatusIn && resp.Transport != "" {
		line += fmt.Sprintf(" (%s)", strings.ToLower(string(resp.Transport)))
	}
	if resp.Note != "" {
		line += " - " + resp.Note
	}
	fmt.Println(line)
}
