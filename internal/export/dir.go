package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sageflow/ptbrecover/internal/journal"
	"github.com/sageflow/ptbrecover/internal/model"
)

// Format names an output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Output file names.
const (
	AccountsFile   = "chart_of_accounts.csv"
	CustomersFile  = "customers.csv"
	VendorsFile    = "vendors.csv"
	ChartCandsFile = "chart_candidates.csv"
	BalancesFile   = "balances.csv"
	CandidatesFile = "candidates.csv"
	EntriesFile    = "journal_entries.csv"
	JSONFile       = "result.json"
	WorkbookFile   = "result.xlsx"
)

// ParseFormats parses a comma-separated format list such as "csv,json".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" || seen[f] {
			continue
		}
		switch f {
		case FormatCSV, FormatJSON, FormatXLSX:
		default:
			return nil, fmt.Errorf("unknown format %q (want csv, json or xlsx)", part)
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return out, nil
}

// Dir writes res into dir in each requested format and returns the paths
// written. CSV files are only written for record types that are present,
// except chart_of_accounts.csv which is always written.
func Dir(dir string, res *model.ParseResult, formats []Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	for _, format := range formats {
		var err error
		switch format {
		case FormatCSV:
			err = writeCSVFiles(res, write)
		case FormatJSON:
			err = write(JSONFile, func(w io.Writer) error { return WriteJSON(w, res) })
		case FormatXLSX:
			err = write(WorkbookFile, func(w io.Writer) error {
				wb, err := WorkbookFor(res)
				if err != nil {
					return err
				}
				defer wb.Close()
				return wb.Write(w)
			})
		default:
			err = fmt.Errorf("unknown format %q", format)
		}
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func writeCSVFiles(res *model.ParseResult, write func(string, func(io.Writer) error) error) error {
	if err := write(AccountsFile, func(w io.Writer) error { return WriteAccounts(w, res.Accounts) }); err != nil {
		return err
	}
	if len(res.Customers) > 0 {
		if err := write(CustomersFile, func(w io.Writer) error { return WriteCustomers(w, res.Customers) }); err != nil {
			return err
		}
	}
	if len(res.Vendors) > 0 {
		if err := write(VendorsFile, func(w io.Writer) error { return WriteVendors(w, res.Vendors) }); err != nil {
			return err
		}
	}
	if len(res.ChartCandidates) > 0 {
		if err := write(ChartCandsFile, func(w io.Writer) error { return WriteChartCandidates(w, res.ChartCandidates) }); err != nil {
			return err
		}
	}
	if len(res.BalanceRecords) > 0 {
		if err := write(BalancesFile, func(w io.Writer) error { return WriteBalances(w, res.BalanceRecords) }); err != nil {
			return err
		}
	}
	if len(res.Candidates) > 0 {
		if err := write(CandidatesFile, func(w io.Writer) error { return WriteCandidates(w, res.Candidates) }); err != nil {
			return err
		}
	}
	if len(res.JournalEntries) > 0 {
		if err := write(EntriesFile, func(w io.Writer) error { return journal.WriteEntries(w, res.JournalEntries) }); err != nil {
			return err
		}
	}
	return nil
}
