package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/mkraev/notesync/internal/client/draft"
)

func (c *Cli) RunDrafts(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		return c.runDraftList(ctx)
	}

	switch args[0] {
	case "cleanup":
		fs := flag.NewFlagSet("drafts cleanup", flag.ContinueOnError)
		maxAge := fs.Int("max-age-days", draft.DefaultMaxAgeDays, "Remove drafts older than this many days")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		removed, err := c.drafts.CleanupExpired(ctx, *maxAge)
		if err != nil {
			return fmt.Errorf("failed to clean up drafts: %w", err)
		}
		fmt.Fprintf(c.out, "Removed %d expired draft(s)\n", removed)
		return nil

	case "discard":
		if len(args) < 2 {
			return fmt.Errorf("missing note id. Usage: notesync drafts discard <note-id>")
		}
		if err := c.drafts.DeleteDraft(ctx, args[1]); err != nil {
			return fmt.Errorf("failed to discard draft: %w", err)
		}
		fmt.Fprintf(c.out, "Draft for %s discarded\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown drafts subcommand: %s. Use: list, cleanup, discard", args[0])
	}
}

func (c *Cli) runDraftList(ctx context.Context) error {
	drafts, err := c.drafts.ListDrafts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list drafts: %w", err)
	}

	if len(drafts) == 0 {
		fmt.Fprintln(c.out, "No drafts.")
		return nil
	}

	fmt.Fprintf(c.out, "%d draft(s):\n\n", len(drafts))
	for i, d := range drafts {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, d.NoteID)
		if d.Title != "" {
			fmt.Fprintf(c.out, "   Title: %s\n", d.Title)
		}
		fmt.Fprintf(c.out, "   Saved: %s\n", d.SavedTime().Format("2006-01-02 15:04:05"))
		fmt.Fprintln(c.out)
	}
	return nil
}
