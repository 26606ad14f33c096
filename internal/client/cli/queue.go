package cli

import (
	"context"
	"fmt"

	"github.com/mkraev/notesync/internal/models"
)

func (c *Cli) RunQueue(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.runQueueList(ctx)
	}

	switch args[0] {
	case "retry":
		if len(args) < 2 {
			return fmt.Errorf("missing entry id. Usage: notesync queue retry <entry-id>")
		}
		if err := c.queue.RetryEntry(ctx, args[1]); err != nil {
			return fmt.Errorf("failed to retry entry: %w", err)
		}
		fmt.Fprintf(c.out, "Entry %s queued for retry\n", args[1])
		return nil

	case "retry-all":
		count, err := c.queue.RetryAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to retry entries: %w", err)
		}
		fmt.Fprintf(c.out, "%d entr(ies) queued for retry\n", count)
		return nil

	case "list":
		return c.runQueueList(ctx)

	default:
		return fmt.Errorf("unknown queue subcommand: %s. Use: list, retry, retry-all", args[0])
	}
}

func (c *Cli) runQueueList(ctx context.Context) error {
	entries, err := c.queue.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queue: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.out, "Queue is empty. All changes are synced.")
		return nil
	}

	fmt.Fprintf(c.out, "%d queued change(s):\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(c.out, "%d. %s %s [%s]\n", i+1, e.Operation, e.NoteID, e.Status)
		fmt.Fprintf(c.out, "   Entry:    %s\n", e.ID)
		fmt.Fprintf(c.out, "   Enqueued: %s\n", e.EnqueuedAt.Format("2006-01-02 15:04:05"))
		if e.AttemptCount > 0 {
			fmt.Fprintf(c.out, "   Attempts: %d\n", e.AttemptCount)
		}
		if e.Status == models.EntryStatusPending && !e.NextRetryAt.IsZero() {
			fmt.Fprintf(c.out, "   Retry at: %s\n", e.NextRetryAt.Format("2006-01-02 15:04:05"))
		}
		if e.LastError != "" {
			fmt.Fprintf(c.out, "   Error:    %s\n", e.LastError)
		}
		fmt.Fprintln(c.out)
	}
	return nil
}
