package model

import (
	"strings"
	"time"
)

// JournalEntry is a journal header keyed by EntryID. Entries without an ID are
// never persisted.
type JournalEntry struct {
	EntryID     string    `json:"entry_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Reference   string    `json:"reference,omitempty"`
}

// HasID reports whether the entry carries a usable ID.
func (e JournalEntry) HasID() bool {
	return strings.TrimSpace(e.EntryID) != ""
}
