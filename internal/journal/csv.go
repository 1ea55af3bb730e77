// Package journal reads and writes journal-entry headers as CSV. Entries read
// here are merged by the reconciler alongside the archive's records.
package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sageflow/ptbrecover/internal/model"
)

// Header is the CSV header for journal entry files.
const Header = "entry_id,date,description,reference"

const (
	numFields  = 4
	dateFormat = "2006-01-02"
	colEntryID = 0
	colDate    = 1
	colDesc    = 2
	colRef     = 3
)

// ReadEntries reads all entries from a journal CSV reader. Rows with a blank
// entry_id are returned as-is; the reconciler decides what to do with them.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return nil, fmt.Errorf("unexpected journal header %q", got)
	}

	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal CSV writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an entry to a CSV row. A zero date is written blank.
func MarshalEntry(e model.JournalEntry) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.EntryID
	if !e.Date.IsZero() {
		row[colDate] = e.Date.Format(dateFormat)
	}
	row[colDesc] = e.Description
	row[colRef] = e.Reference
	return row
}

// UnmarshalEntry converts a CSV row to an entry.
func UnmarshalEntry(record []string) (model.JournalEntry, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var date time.Time
	if s := strings.TrimSpace(record[colDate]); s != "" {
		var err error
		date, err = time.Parse(dateFormat, s)
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
		}
	}

	return model.JournalEntry{
		EntryID:     strings.TrimSpace(record[colEntryID]),
		Date:        date,
		Description: record[colDesc],
		Reference:   record[colRef],
	}, nil
}
