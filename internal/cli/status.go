package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show the roster for a session",
	Args:  cobra.ExactArgs(1),
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := setup()
	sessionID := args[0]

	c := newCore(cfg, sessionID)

	ctx := context.Background()
	session, err := c.client.FetchSession(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to fetch session", "session", sessionID, "error", err)
		os.Exit(1)
	}
	c.repo.Replace(session.Responses)

	fmt.Printf("%s - %s (%s)\n", session.Name, session.Course, session.StartsAt.Format("Mon Jan 2 15:04"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "USER\tSTATUS\tTRANSPORT\tNOTE")
	for _, resp := range c.repo.Responses() {
		name := resp.UserName
		if name == "" {
			name = resp.UserID
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, resp.Status, resp.Transport, resp.Note)
	}
	_ = w.Flush()
}
