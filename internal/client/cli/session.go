package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/mkraev/notesync/internal/client/storage"
)

func (c *Cli) RunSession(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("session", flag.ContinueOnError)
	user := fs.String("user", "", "User ID to sync as")
	token := fs.String("token", "", "Access token for the remote API")
	clear := fs.Bool("clear", false, "Forget the stored session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *clear {
		if err := c.meta.DeleteSession(ctx); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Fprintln(c.out, "Session cleared.")
		return nil
	}

	if *user == "" || *token == "" {
		session, err := c.meta.GetSession(ctx)
		if err != nil {
			fmt.Fprintln(c.out, "No session configured. Use 'notesync session -user U -token T'.")
			return nil
		}
		fmt.Fprintf(c.out, "Syncing as %s\n", session.UserID)
		return nil
	}

	if err := c.meta.SaveSession(ctx, &storage.Session{UserID: *user, AccessToken: *token}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	fmt.Fprintf(c.out, "Session saved for %s\n", *user)
	return nil
}
