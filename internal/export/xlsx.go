package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sageflow/ptbrecover/internal/model"
)

// Workbook sheet names.
const (
	SheetAccounts   = "Accounts"
	SheetCustomers  = "Customers"
	SheetVendors    = "Vendors"
	SheetChartCands = "Chart candidates"
	SheetBalances   = "Balances"
	SheetCandidates = "Candidates"
)

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
	widths map[string]float64
}

// WorkbookFor lays res out as a workbook with one sheet per record type.
// Amounts are written as numbers.
func WorkbookFor(res *model.ParseResult) (*excelize.File, error) {
	sheets := []sheet{
		{name: SheetAccounts, header: AccountsHeader, widths: map[string]float64{"B": 40}},
		{name: SheetCustomers, header: partyHeader("customer_number"), widths: map[string]float64{"B": 40}},
		{name: SheetVendors, header: partyHeader("vendor_number"), widths: map[string]float64{"B": 40}},
		{name: SheetBalances, header: []string{"account_number", "balance", "offset"}},
		{name: SheetCandidates, header: []string{"offset", "encoding", "value"}},
		{name: SheetChartCands, header: chartCandidatesHeader, widths: map[string]float64{"B": 40}},
	}
	for _, a := range res.Accounts {
		sheets[0].rows = append(sheets[0].rows, []interface{}{a.Number, a.Name, string(a.Type), a.Balance.InexactFloat64()})
	}
	for _, c := range res.Customers {
		sheets[1].rows = append(sheets[1].rows, []interface{}{c.Number, c.Name, c.ContactName, c.Email, c.Phone, c.Address, c.Balance.InexactFloat64()})
	}
	for _, v := range res.Vendors {
		sheets[2].rows = append(sheets[2].rows, []interface{}{v.Number, v.Name, v.ContactName, v.Email, v.Phone, v.Address, v.Balance.InexactFloat64()})
	}
	for _, b := range res.BalanceRecords {
		sheets[3].rows = append(sheets[3].rows, []interface{}{b.AccountNumber, b.Balance.InexactFloat64(), b.Offset})
	}
	for _, c := range res.Candidates {
		sheets[4].rows = append(sheets[4].rows, []interface{}{c.Offset, c.Encoding, c.Value.InexactFloat64()})
	}
	for _, c := range res.ChartCandidates {
		sheets[5].rows = append(sheets[5].rows, []interface{}{c.Number, c.Name, string(c.Type), c.Strategy, c.Offset})
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetAccounts); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				return nil, fmt.Errorf("creating sheet %s: %w", s.name, err)
			}
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", s.name, err)
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", s.name, err)
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", s.name, i+2, err)
		}
	}
	for col, width := range s.widths {
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return fmt.Errorf("sizing %s: %w", s.name, err)
		}
	}
	return nil
}
