package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/models"
)

func (c *Cli) RunList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	status := fs.String("status", "", "Filter by sync status (synced, pending, syncing, failed, conflict)")
	limit := fs.Int("limit", 0, "Maximum number of notes to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := storage.ListFilter{UserID: c.currentUserID(ctx)}
	if *status != "" {
		s := models.SyncStatus(*status)
		if !s.Valid() {
			return fmt.Errorf("unknown sync status: %s", *status)
		}
		filter.Status = s
	}

	list, err := c.notes.ListNotes(ctx, filter, storage.Page{Limit: *limit})
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(list) == 0 {
		fmt.Fprintln(c.out, "No notes found.")
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Use 'notesync add' to create your first note.")
		return nil
	}

	fmt.Fprintf(c.out, "Found %d note(s):\n\n", len(list))
	for i, note := range list {
		badge := string(note.SyncStatus)
		fmt.Fprintf(c.out, "%d. %s [%s]\n", i+1, note.Title, badge)
		fmt.Fprintf(c.out, "   ID:      %s\n", note.ID)
		fmt.Fprintf(c.out, "   Updated: %s\n", note.UpdatedAt.Format("2006-01-02 15:04:05"))
		if len(note.Tags) > 0 {
			fmt.Fprintf(c.out, "   Tags:    %v\n", note.Tags)
		}
		if c.drafts.HasDraft(ctx, note.ID) {
			fmt.Fprintf(c.out, "   Draft:   unsaved changes available\n")
		}
		fmt.Fprintln(c.out)
	}
	return nil
}
