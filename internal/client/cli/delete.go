package cli

import (
	"context"
	"fmt"
)

func (c *Cli) RunDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing note id. Usage: notesync delete <id>")
	}
	id := args[0]

	if err := c.notes.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	fmt.Fprintf(c.out, "Deleted note %s\n", id)
	return c.pushAfterWrite(ctx)
}
