package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the five account classes.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Account is a chart-of-accounts row recovered from an archive.
type Account struct {
	Number  string          `json:"account_number"`
	Name    string          `json:"account_name"`
	Type    AccountType     `json:"type"`
	Balance decimal.Decimal `json:"balance"`
	Offset  int             `json:"offset"` // byte offset of the number token in the chart buffer
}
