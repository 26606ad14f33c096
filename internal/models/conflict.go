package models

// Strategy selects how a detected conflict is resolved.
type Strategy string

const (
	StrategyUseLocal    Strategy = "use-local"    // local payload wins, pushed as a new update
	StrategyUseRemote   Strategy = "use-remote"   // remote payload wins, local queue discarded
	StrategyManualMerge Strategy = "manual-merge" // suspend the lane until the user decides
)

// Valid reports whether the strategy is one of the known values.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyUseLocal, StrategyUseRemote, StrategyManualMerge:
		return true
	}
	return false
}

// FieldChange classifies how one field diverged between local and remote.
type FieldChange string

const (
	FieldUnchanged     FieldChange = "unchanged"
	FieldLocalChanged  FieldChange = "local-changed"
	FieldRemoteChanged FieldChange = "remote-changed"
	FieldBothChanged   FieldChange = "both-changed"
)

// FieldDiff is the per-field comparison between a local and a remote note.
type FieldDiff struct {
	Title    FieldChange `json:"title"`
	Content  FieldChange `json:"content"`
	Summary  FieldChange `json:"summary"`
	Tags     FieldChange `json:"tags"`
	Category FieldChange `json:"category"`
}

// Empty reports whether no field diverged at all.
func (d FieldDiff) Empty() bool {
	return d.Title == FieldUnchanged &&
		d.Content == FieldUnchanged &&
		d.Summary == FieldUnchanged &&
		d.Tags == FieldUnchanged &&
		d.Category == FieldUnchanged
}

// ConflictRecord pairs a local note version with the server's current
// version. It is transient: built when a conflict is detected, shown to the
// user, discarded after resolution.
type ConflictRecord struct {
	Local    *Note     `json:"local"`
	Remote   *Note     `json:"remote"`
	Diff     FieldDiff `json:"diff"`
	NoteID   string    `json:"note_id"`
	Strategy Strategy  `json:"strategy,omitempty"` // strategy applied, empty while pending
}
