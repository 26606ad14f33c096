package cli

import (
	"context"
	"fmt"
)

func (c *Cli) RunStatus(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Sync Status ===")
	fmt.Fprintln(c.out)

	status := c.engine.Status(ctx)
	fmt.Fprintf(c.out, "State:     %s\n", status.State)
	fmt.Fprintf(c.out, "Queue:     %d pending change(s)\n", status.QueueSize)
	fmt.Fprintf(c.out, "Conflicts: %d\n", status.Conflicts)
	if !status.LastSyncAt.IsZero() {
		fmt.Fprintf(c.out, "Last sync: %s\n", status.LastSyncAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintln(c.out, "Last sync: never")
	}
	if status.LastError != "" {
		fmt.Fprintf(c.out, "Last error: %s\n", status.LastError)
	}

	counts, err := c.notes.Counts(ctx, c.currentUserID(ctx))
	if err != nil {
		return fmt.Errorf("failed to count notes: %w", err)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Notes: %d total", counts.Total)
	if counts.Pending > 0 || counts.Syncing > 0 {
		fmt.Fprintf(c.out, ", %d awaiting upload", counts.Pending+counts.Syncing)
	}
	if counts.Failed > 0 {
		fmt.Fprintf(c.out, ", %d failed", counts.Failed)
	}
	if counts.Conflict > 0 {
		fmt.Fprintf(c.out, ", %d conflicted", counts.Conflict)
	}
	fmt.Fprintln(c.out)

	usage, err := c.usage.Usage(ctx)
	if err != nil {
		return fmt.Errorf("failed to read storage usage: %w", err)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Storage: %.1f KiB on disk (%d notes, %d queue entries, %d drafts)\n",
		float64(usage.FileSizeBytes)/1024, usage.Notes, usage.QueueEntries, usage.Drafts)

	return nil
}
