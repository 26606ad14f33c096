package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/mkraev/notesync/internal/client/notes"
)

func (c *Cli) RunAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "Note title")
	content := fs.String("content", "", "Note content")
	summary := fs.String("summary", "", "Short summary")
	category := fs.String("category", "", "Category ID")
	tags := fs.String("tags", "", "Comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// fall back to interactive input when nothing was flagged
	if *title == "" && *content == "" {
		var err error
		if *title, err = c.readInput("Title: "); err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
		if *content, err = c.readInput("Content: "); err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
	}

	note, err := c.notes.CreateNote(ctx, c.currentUserID(ctx), notes.Input{
		Title:      *title,
		Content:    *content,
		Summary:    *summary,
		CategoryID: *category,
		Tags:       splitTags(*tags),
	})
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	fmt.Fprintf(c.out, "Created note %s (queued for sync)\n", note.ID)
	return c.pushAfterWrite(ctx)
}
