// Package conflict holds the pure decision logic for reconciling a local
// note with the server's current version. No I/O, no clock access: given
// identical inputs and strategy the outcome is always identical, which is
// what makes resolution auditable and testable.
package conflict

import (
	"fmt"
	"slices"

	"github.com/mkraev/notesync/internal/models"
)

// Resolution is the outcome of applying a strategy to a conflicting pair.
type Resolution struct {
	// Note is the winning payload. For use-local it is the local note (to
	// be pushed as a new update), for use-remote the remote note (to
	// overwrite the local store). Nil while a manual merge is pending.
	Note *models.Note

	// Record describes the conflict for the UI comparison view.
	Record *models.ConflictRecord

	Strategy models.Strategy

	// Pending is true for manual-merge: nothing may be mutated and the
	// note's lane stays suspended until the user decides.
	Pending bool
}

// Detect reports whether local and remote genuinely conflict: both sides
// were modified independently since their last common synced state. A
// remote that is unchanged since the last sync is not a conflict: the
// local write simply proceeds.
func Detect(local, remote *models.Note) bool {
	remoteAdvanced := remote.UpdatedAt.After(local.LastSyncedAt)
	localAdvanced := local.UpdatedAt.After(local.LastSyncedAt)
	return remoteAdvanced && localAdvanced
}

// Resolve applies the strategy to a conflicting pair.
func Resolve(local, remote *models.Note, strategy models.Strategy) (*Resolution, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("unknown conflict resolution strategy: %s", strategy)
	}

	record := Info(local, remote)
	record.Strategy = strategy

	switch strategy {
	case models.StrategyUseLocal:
		// the caller must still push the local payload as a new update
		// against the remote's version stamp
		return &Resolution{Strategy: strategy, Note: local.Clone(), Record: record}, nil

	case models.StrategyUseRemote:
		return &Resolution{Strategy: strategy, Note: remote.Clone(), Record: record}, nil

	default: // models.StrategyManualMerge
		record.Strategy = ""
		return &Resolution{Strategy: strategy, Record: record, Pending: true}, nil
	}
}

// Differences classifies each user-visible field of the pair.
func Differences(local, remote *models.Note) models.FieldDiff {
	return models.FieldDiff{
		Title:    classify(local, remote, local.Title != remote.Title),
		Content:  classify(local, remote, local.Content != remote.Content),
		Summary:  classify(local, remote, local.Summary != remote.Summary),
		Tags:     classify(local, remote, !slices.Equal(local.Tags, remote.Tags)),
		Category: classify(local, remote, local.CategoryID != remote.CategoryID),
	}
}

// Info builds the conflict summary used by the UI comparison view.
func Info(local, remote *models.Note) *models.ConflictRecord {
	return &models.ConflictRecord{
		NoteID: local.ID,
		Local:  local.Clone(),
		Remote: remote.Clone(),
		Diff:   Differences(local, remote),
	}
}

// classify attributes a field difference to the side (or sides) that moved
// since the last common synced state. Without the common ancestor's field
// values the attribution is per note, not per field: when both sides
// advanced, a differing field counts as changed on both.
func classify(local, remote *models.Note, differs bool) models.FieldChange {
	if !differs {
		return models.FieldUnchanged
	}

	localAdvanced := local.UpdatedAt.After(local.LastSyncedAt)
	remoteAdvanced := remote.UpdatedAt.After(local.LastSyncedAt)

	switch {
	case localAdvanced && remoteAdvanced:
		return models.FieldBothChanged
	case localAdvanced:
		return models.FieldLocalChanged
	case remoteAdvanced:
		return models.FieldRemoteChanged
	default:
		// the fields differ but neither timestamp moved; treat as diverged
		// on both sides so the user sees it
		return models.FieldBothChanged
	}
}
