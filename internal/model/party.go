package model

import "github.com/shopspring/decimal"

// Customer is keyed by Number within a company.
type Customer struct {
	Number      string          `json:"customer_number,omitempty"`
	Name        string          `json:"name"`
	ContactName string          `json:"contact_name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

// Vendor is keyed by Number within a company.
type Vendor struct {
	Number      string          `json:"vendor_number,omitempty"`
	Name        string          `json:"name"`
	ContactName string          `json:"contact_name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

// Employee is keyed by Code within a company.
type Employee struct {
	Code    string          `json:"employee_code"`
	Name    string          `json:"name"`
	Title   string          `json:"title,omitempty"`
	Email   string          `json:"email,omitempty"`
	Phone   string          `json:"phone,omitempty"`
	PayRate decimal.Decimal `json:"pay_rate"`
}

// InventoryItem is keyed by SKU within a company.
type InventoryItem struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}
