package models

import "time"

// Draft is an ephemeral, note-scoped edit buffer. It lives in its own
// storage area and is never transmitted to the server directly; a draft has
// to be promoted into a note mutation to be synced.
type Draft struct {
	Tags    []string `json:"tags"`
	NoteID  string   `json:"note_id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	SavedAt int64    `json:"saved_at"` // epoch millis
}

// SavedTime returns SavedAt as time.Time.
func (d *Draft) SavedTime() time.Time {
	return time.UnixMilli(d.SavedAt)
}

// ExpiredAt reports whether the draft is older than maxAge at the given time.
func (d *Draft) ExpiredAt(now time.Time, maxAge time.Duration) bool {
	return d.SavedTime().Before(now.Add(-maxAge))
}

// Clone creates a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)

	c := *d
	c.Tags = tags
	return &c
}
