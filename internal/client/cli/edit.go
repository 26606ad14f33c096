package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/mkraev/notesync/internal/client/notes"
)

func (c *Cli) RunEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing note id. Usage: notesync edit <id> [flags]")
	}
	id := args[0]

	current, err := c.notes.GetNote(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	title := fs.String("title", current.Title, "Note title")
	content := fs.String("content", current.Content, "Note content")
	summary := fs.String("summary", current.Summary, "Short summary")
	category := fs.String("category", current.CategoryID, "Category ID")
	tags := fs.String("tags", "", "Comma-separated tags (empty keeps current)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	newTags := current.Tags
	if *tags != "" {
		newTags = splitTags(*tags)
	}

	note, err := c.notes.UpdateNote(ctx, id, notes.Input{
		Title:      *title,
		Content:    *content,
		Summary:    *summary,
		CategoryID: *category,
		Tags:       newTags,
	})
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	fmt.Fprintf(c.out, "Updated note %s (queued for sync)\n", note.ID)
	return c.pushAfterWrite(ctx)
}
