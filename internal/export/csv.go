// Package export writes decoded archive contents as CSV, JSON and XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sageflow/ptbrecover/internal/model"
)

const (
	numAccountFields = 4
	colNumber        = 0
	colName          = 1
	colType          = 2
	colBalance       = 3
)

// AccountsHeader is the header of chart_of_accounts.csv.
var AccountsHeader = []string{"account_number", "account_name", "type", "balance"}

// WriteAccounts writes chart_of_accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, MarshalAccount(a))
	}
	return writeCSV(w, AccountsHeader, rows)
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, numAccountFields)
	row[colNumber] = a.Number
	row[colName] = a.Name
	row[colType] = string(a.Type)
	row[colBalance] = a.Balance.StringFixed(2)
	return row
}

// WriteCustomers writes customers.csv.
func WriteCustomers(w io.Writer, customers []model.Customer) error {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.Number, c.Name, c.ContactName, c.Email, c.Phone, c.Address, c.Balance.StringFixed(2)})
	}
	return writeCSV(w, partyHeader("customer_number"), rows)
}

// WriteVendors writes vendors.csv.
func WriteVendors(w io.Writer, vendors []model.Vendor) error {
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, []string{v.Number, v.Name, v.ContactName, v.Email, v.Phone, v.Address, v.Balance.StringFixed(2)})
	}
	return writeCSV(w, partyHeader("vendor_number"), rows)
}

func partyHeader(numberCol string) []string {
	return []string{numberCol, "name", "contact_name", "email", "phone", "address", "balance"}
}

// WriteChartCandidates writes chart_candidates.csv.
func WriteChartCandidates(w io.Writer, cands []model.ChartCandidate) error {
	rows := make([][]string, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, []string{c.Number, c.Name, string(c.Type), c.Strategy, strconv.Itoa(c.Offset)})
	}
	return writeCSV(w, chartCandidatesHeader, rows)
}

var chartCandidatesHeader = []string{"account_number", "account_name", "type", "strategy", "offset"}

// WriteBalances writes balances.csv from the record-pattern scan.
func WriteBalances(w io.Writer, records []model.BalanceRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.AccountNumber, r.Balance.StringFixed(2), strconv.Itoa(r.Offset)})
	}
	return writeCSV(w, []string{"account_number", "balance", "offset"}, rows)
}

// WriteCandidates writes candidates.csv.
func WriteCandidates(w io.Writer, cands []model.CurrencyCandidate) error {
	rows := make([][]string, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, []string{strconv.Itoa(c.Offset), c.Encoding, c.Value.StringFixed(2)})
	}
	return writeCSV(w, []string{"offset", "encoding", "value"}, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
