package cli

import (
	"context"
	"fmt"

	"github.com/mkraev/notesync/internal/models"
)

func (c *Cli) RunConflicts(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		return c.runConflictList(ctx)
	}

	if args[0] != "resolve" {
		return fmt.Errorf("unknown conflicts subcommand: %s. Use: list, resolve", args[0])
	}
	if len(args) < 3 {
		return fmt.Errorf("usage: notesync conflicts resolve <note-id> <use-local|use-remote>")
	}

	noteID := args[1]
	strategy := models.Strategy(args[2])
	if strategy != models.StrategyUseLocal && strategy != models.StrategyUseRemote {
		return fmt.Errorf("strategy must be use-local or use-remote, got %q", args[2])
	}

	if err := c.engine.ResolveConflict(ctx, noteID, strategy, nil); err != nil {
		return fmt.Errorf("failed to resolve conflict: %w", err)
	}

	fmt.Fprintf(c.out, "Conflict on %s resolved with %s\n", noteID, strategy)
	if strategy == models.StrategyUseLocal {
		fmt.Fprintln(c.out, "The local version is queued for upload. Run 'notesync sync' to push it.")
	}
	return nil
}

func (c *Cli) runConflictList(ctx context.Context) error {
	records := c.engine.PendingConflicts(ctx)
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No pending conflicts.")
		return nil
	}

	fmt.Fprintf(c.out, "%d pending conflict(s):\n\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, rec.NoteID)
		fmt.Fprintf(c.out, "   Local:  %q updated %s\n",
			rec.Local.Title, rec.Local.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(c.out, "   Remote: %q updated %s (version %d)\n",
			rec.Remote.Title, rec.Remote.UpdatedAt.Format("2006-01-02 15:04:05"), rec.Remote.Version)
		printDiffLine(c, "title", rec.Diff.Title)
		printDiffLine(c, "content", rec.Diff.Content)
		printDiffLine(c, "summary", rec.Diff.Summary)
		printDiffLine(c, "tags", rec.Diff.Tags)
		printDiffLine(c, "category", rec.Diff.Category)
		fmt.Fprintln(c.out)
	}
	fmt.Fprintln(c.out, "Resolve with 'notesync conflicts resolve <note-id> <use-local|use-remote>'.")
	return nil
}

func printDiffLine(c *Cli, field string, change models.FieldChange) {
	if change == models.FieldUnchanged {
		return
	}
	fmt.Fprintf(c.out, "   Diff:   %s %s\n", field, change)
}
