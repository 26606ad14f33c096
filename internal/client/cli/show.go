package cli

import (
	"context"
	"fmt"
)

func (c *Cli) RunShow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing note id. Usage: notesync show <id>")
	}
	id := args[0]

	note, err := c.notes.GetNote(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	fmt.Fprintf(c.out, "Title:    %s\n", note.Title)
	fmt.Fprintf(c.out, "ID:       %s\n", note.ID)
	fmt.Fprintf(c.out, "Status:   %s\n", note.SyncStatus)
	fmt.Fprintf(c.out, "Version:  %d\n", note.Version)
	fmt.Fprintf(c.out, "Updated:  %s\n", note.UpdatedAt.Format("2006-01-02 15:04:05"))
	if !note.LastSyncedAt.IsZero() {
		fmt.Fprintf(c.out, "Synced:   %s\n", note.LastSyncedAt.Format("2006-01-02 15:04:05"))
	}
	if note.Summary != "" {
		fmt.Fprintf(c.out, "Summary:  %s\n", note.Summary)
	}
	if note.CategoryID != "" {
		fmt.Fprintf(c.out, "Category: %s\n", note.CategoryID)
	}
	if len(note.Tags) > 0 {
		fmt.Fprintf(c.out, "Tags:     %v\n", note.Tags)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, note.Content)

	if draft, err := c.drafts.GetDraft(ctx, id); err == nil && draft != nil {
		fmt.Fprintln(c.out)
		fmt.Fprintf(c.out, "Unsaved draft from %s available. Edit the note to continue, or discard with 'notesync drafts discard %s'.\n",
			draft.SavedTime().Format("2006-01-02 15:04:05"), id)
	}
	return nil
}
