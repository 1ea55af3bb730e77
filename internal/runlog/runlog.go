// Package runlog keeps an append-only CSV history of reconciliation runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sageflow/ptbrecover/internal/model"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Company   string
	Archive   string
	Success   bool
	Counts    model.Counts
	Message   string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,company,archive,success,customers,vendors,accounts,transactions,employees,inventory,message"

const (
	numFields       = 12
	logDir          = "logs"
	logFile         = "logs/import-log.csv"
	colTimestamp    = 0
	colRunID        = 1
	colCompany      = 2
	colArchive      = 3
	colSuccess      = 4
	colCustomers    = 5
	colVendors      = 6
	colAccounts     = 7
	colTransactions = 8
	colEmployees    = 9
	colInventory    = 10
	colMessage      = 11
)

// FromResult builds a log entry for a finished run. Failed runs log their
// first error as the message.
func FromResult(now time.Time, company, archive string, res model.ImportResult) Entry {
	msg := res.Message
	if !res.Success && len(res.Errors) > 0 {
		msg = res.Errors[0]
	}
	return Entry{
		Timestamp: now,
		RunID:     res.RunID,
		Company:   company,
		Archive:   archive,
		Success:   res.Success,
		Counts:    res.Counts,
		Message:   msg,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colCompany] = e.Company
	row[colArchive] = e.Archive
	row[colSuccess] = strconv.FormatBool(e.Success)
	row[colCustomers] = strconv.Itoa(e.Counts.Customers)
	row[colVendors] = strconv.Itoa(e.Counts.Vendors)
	row[colAccounts] = strconv.Itoa(e.Counts.Accounts)
	row[colTransactions] = strconv.Itoa(e.Counts.Transactions)
	row[colEmployees] = strconv.Itoa(e.Counts.Employees)
	row[colInventory] = strconv.Itoa(e.Counts.Inventory)
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	success, err := strconv.ParseBool(record[colSuccess])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing success %q: %w", record[colSuccess], err)
	}

	var c model.Counts
	counts := []struct {
		col int
		dst *int
	}{
		{colCustomers, &c.Customers},
		{colVendors, &c.Vendors},
		{colAccounts, &c.Accounts},
		{colTransactions, &c.Transactions},
		{colEmployees, &c.Employees},
		{colInventory, &c.Inventory},
	}
	for _, f := range counts {
		n, err := strconv.Atoi(record[f.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[f.col], err)
		}
		*f.dst = n
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Company:   record[colCompany],
		Archive:   record[colArchive],
		Success:   success,
		Counts:    c,
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
