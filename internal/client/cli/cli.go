// Package cli implements the notesync command line interface.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mkraev/notesync/internal/client/draft"
	"github.com/mkraev/notesync/internal/client/notes"
	"github.com/mkraev/notesync/internal/client/queue"
	"github.com/mkraev/notesync/internal/client/storage"
	"github.com/mkraev/notesync/internal/client/sync"
)

// Cli bundles the client services the commands operate on.
type Cli struct {
	notes       notes.Service
	drafts      *draft.Manager
	queue       *queue.Manager
	engine      *sync.Engine
	meta        storage.MetadataStorage
	usage       storage.UsageReporter
	out         io.Writer
	in          io.Reader
	syncOnWrite bool
}

// Option configures optional Cli behavior.
type Option func(*Cli)

// WithSyncOnWrite makes every successful mutation push the queue right
// away instead of waiting for an explicit sync. Wired when offline mode
// is disabled, so changes never sit locally longer than one request.
func WithSyncOnWrite(enabled bool) Option {
	return func(c *Cli) {
		c.syncOnWrite = enabled
	}
}

func New(noteService notes.Service, drafts *draft.Manager, q *queue.Manager, engine *sync.Engine, meta storage.MetadataStorage, usage storage.UsageReporter, opts ...Option) *Cli {
	c := &Cli{
		notes:  noteService,
		drafts: drafts,
		queue:  q,
		engine: engine,
		meta:   meta,
		usage:  usage,
		out:    os.Stdout,
		in:     os.Stdin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run dispatches a command with its arguments.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "add":
		return c.RunAdd(ctx, args)
	case "edit":
		return c.RunEdit(ctx, args)
	case "delete":
		return c.RunDelete(ctx, args)
	case "list":
		return c.RunList(ctx, args)
	case "show":
		return c.RunShow(ctx, args)
	case "sync":
		return c.RunSync(ctx, args)
	case "status":
		return c.RunStatus(ctx)
	case "queue":
		return c.RunQueue(ctx, args)
	case "conflicts":
		return c.RunConflicts(ctx, args)
	case "drafts":
		return c.RunDrafts(ctx, args)
	case "session":
		return c.RunSession(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// currentUserID resolves the user the commands act as. Falls back to a
// local-only identity when no session is stored, so the client works fully
// offline before any server is configured.
func (c *Cli) currentUserID(ctx context.Context) string {
	session, err := c.meta.GetSession(ctx)
	if err != nil || session.UserID == "" {
		return "local"
	}
	return session.UserID
}

func PrintUsage() {
	fmt.Println("notesync - offline-first note client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  notesync [OPTIONS] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version       Show version information")
	fmt.Println("  --server URL    Server URL (overrides NOTESYNC_SERVER_URL)")
	fmt.Println("  --db PATH       Path to local database (overrides NOTESYNC_DB_PATH)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add                      Add a note (flags: -title, -content, -tags, -summary, -category)")
	fmt.Println("  edit <id>                Edit a note (same flags as add)")
	fmt.Println("  delete <id>              Delete a note")
	fmt.Println("  list                     List notes (flags: -status, -limit)")
	fmt.Println("  show <id>                Show a note's full details")
	fmt.Println("  sync                     Push pending changes and pull remote updates")
	fmt.Println("  status                   Show sync status, pending counts and storage usage")
	fmt.Println("  queue [retry <id>|retry-all]")
	fmt.Println("                           Inspect the sync queue or retry failed entries")
	fmt.Println("  conflicts [resolve <id> <use-local|use-remote>]")
	fmt.Println("                           List or resolve pending conflicts")
	fmt.Println("  drafts [cleanup]         List drafts or remove expired ones")
	fmt.Println("  session -user U -token T Configure the sync identity")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  notesync add -title 'groceries' -content 'milk, eggs' -tags home,shopping")
	fmt.Println("  notesync list -status pending")
	fmt.Println("  notesync sync")
	fmt.Println("  notesync conflicts resolve b692f5c0 use-remote")
}

// pushAfterWrite drains the queue immediately after a mutation when sync
// on write is enabled. A failed push keeps the change queued, nothing is
// lost, but the user hears about it right away instead of at the next
// explicit sync.
func (c *Cli) pushAfterWrite(ctx context.Context) error {
	if !c.syncOnWrite {
		return nil
	}

	c.engine.SetOnline(ctx, true)
	result, err := c.engine.SyncNow(ctx)
	if err != nil {
		return fmt.Errorf("change saved locally but the push failed: %w", err)
	}
	if result.Failed > 0 || result.Conflicts > 0 {
		fmt.Fprintf(c.out, "Push incomplete: %d failed, %d conflict(s). Run 'notesync status' for details.\n",
			result.Failed, result.Conflicts)
	}
	return nil
}

// readInput reads a trimmed line from the CLI's input stream.
func (c *Cli) readInput(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	reader := bufio.NewReader(c.in)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// splitTags turns a comma-separated flag value into a tag list.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
