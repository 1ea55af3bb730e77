package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseResult is the structured output of an archive decode. Every list is
// optional; the reconciler handles whatever is present.
type ParseResult struct {
	Accounts        []Account           `json:"accounts,omitempty"`
	Customers       []Customer          `json:"customers,omitempty"`
	Vendors         []Vendor            `json:"vendors,omitempty"`
	Employees       []Employee          `json:"employees,omitempty"`
	InventoryItems  []InventoryItem     `json:"inventory_items,omitempty"`
	JournalEntries  []JournalEntry      `json:"journal_entries,omitempty"`
	ChartCandidates []ChartCandidate    `json:"chart_candidates,omitempty"`
	BalanceRecords  []BalanceRecord     `json:"balance_records,omitempty"`
	Candidates      []CurrencyCandidate `json:"candidates,omitempty"`
	Members         []MemberInfo        `json:"members,omitempty"`
}

// ChartCandidate is an account found by one of the record-layout heuristics.
// It is kept for review and never merged into Accounts.
type ChartCandidate struct {
	Number   string      `json:"account_number"`
	Name     string      `json:"account_name"`
	Type     AccountType `json:"type"`
	Offset   int         `json:"offset"`
	Strategy string      `json:"strategy"`
}

// BalanceRecord is a balance found by the CHARTAR record-pattern scan. It is
// kept for review and never merged into Accounts.
type BalanceRecord struct {
	AccountNumber string          `json:"account_number,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	Offset        int             `json:"offset"`
}

// CurrencyCandidate is an accepted currency hypothesis from a transaction buffer.
type CurrencyCandidate struct {
	Offset   int             `json:"offset"`
	Encoding string          `json:"encoding"` // "float64" or "int32_cents"
	Value    decimal.Decimal `json:"value"`
}

// MemberInfo describes an archive member resolved to a role.
type MemberInfo struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Records   int    `json:"records,omitempty"`
	Keys      int    `json:"keys,omitempty"`
	Ambiguous bool   `json:"ambiguous,omitempty"`
}

// Counts holds per-type insert counters for one reconciliation run.
type Counts struct {
	Customers    int `json:"customers"`
	Vendors      int `json:"vendors"`
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Employees    int `json:"employees"`
	Inventory    int `json:"inventory"`
}

// Total returns the number of inserted records across all types.
func (c Counts) Total() int {
	return c.Customers + c.Vendors + c.Accounts + c.Transactions + c.Employees + c.Inventory
}

// ImportResult is returned to the caller after a reconciliation run. It is not persisted.
type ImportResult struct {
	Success  bool     `json:"success"`
	RunID    string   `json:"run_id,omitempty"`
	Counts   Counts   `json:"counts"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// Summary renders the counts as a one-line message.
func (r ImportResult) Summary() string {
	c := r.Counts
	return fmt.Sprintf("imported %d customers, %d vendors, %d accounts, %d transactions, %d employees, %d inventory items",
		c.Customers, c.Vendors, c.Accounts, c.Transactions, c.Employees, c.Inventory)
}
