package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkraev/notesync/internal/client/sync"
)

func (c *Cli) RunSync(ctx context.Context, args []string) error {
	fmt.Fprintln(c.out, "Syncing...")

	// a one-shot CLI invocation has no connectivity watcher, assume online
	// and let request failures speak for themselves
	c.engine.SetOnline(ctx, true)

	result, err := c.engine.SyncNow(ctx)
	if err != nil {
		if errors.Is(err, sync.ErrSyncInProgress) {
			return fmt.Errorf("a sync is already running")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Fprintf(c.out, "Synced:    %d\n", result.Synced)
	fmt.Fprintf(c.out, "Failed:    %d\n", result.Failed)
	fmt.Fprintf(c.out, "Conflicts: %d\n", result.Conflicts)
	fmt.Fprintf(c.out, "Pulled:    %d\n", result.Pulled)

	if result.Conflicts > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Run 'notesync conflicts' to inspect and resolve pending conflicts.")
	}
	if result.Failed > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Run 'notesync queue' to inspect failed entries, 'notesync queue retry-all' to retry.")
	}
	return nil
}
