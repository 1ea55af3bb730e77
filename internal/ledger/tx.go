package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sageflow/ptbrecover/internal/model"
)

const dateLayout = "2006-01-02"

type sqlTx struct {
	tx *sql.Tx
}

func found(err error, what, key string) (bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("finding %s %s: %w", what, key, err)
	}
	return true, nil
}

// Customers

func (t *sqlTx) FindCustomer(ctx context.Context, company, number string) (model.Customer, bool, error) {
	var c model.Customer
	err := t.tx.QueryRowContext(ctx,
		`SELECT number, name, contact_name, email, phone, address, balance
		 FROM customers WHERE company_id = ? AND number = ?`, company, number).
		Scan(&c.Number, &c.Name, &c.ContactName, &c.Email, &c.Phone, &c.Address, &c.Balance)
	ok, err := found(err, "customer", number)
	return c, ok, err
}

func (t *sqlTx) InsertCustomer(ctx context.Context, company string, c model.Customer) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO customers (company_id, number, name, contact_name, email, phone, address, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		company, c.Number, c.Name, c.ContactName, c.Email, c.Phone, c.Address, c.Balance)
	if err != nil {
		return fmt.Errorf("inserting customer %s: %w", c.Number, err)
	}
	return nil
}

func (t *sqlTx) UpdateCustomer(ctx context.Context, company string, c model.Customer) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE customers SET name = ?, contact_name = ?, email = ?, phone = ?, address = ?, balance = ?
		 WHERE company_id = ? AND number = ?`,
		c.Name, c.ContactName, c.Email, c.Phone, c.Address, c.Balance, company, c.Number)
	if err != nil {
		return fmt.Errorf("updating customer %s: %w", c.Number, err)
	}
	return nil
}

func (t *sqlTx) ListCustomers(ctx context.Context, company string) ([]model.Customer, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT number, name, contact_name, email, phone, address, balance
		 FROM customers WHERE company_id = ? ORDER BY number`, company)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.Number, &c.Name, &c.ContactName, &c.Email, &c.Phone, &c.Address, &c.Balance); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Vendors

func (t *sqlTx) FindVendor(ctx context.Context, company, number string) (model.Vendor, bool, error) {
	var v model.Vendor
	err := t.tx.QueryRowContext(ctx,
		`SELECT number, name, contact_name, email, phone, address, balance
		 FROM vendors WHERE company_id = ? AND number = ?`, company, number).
		Scan(&v.Number, &v.Name, &v.ContactName, &v.Email, &v.Phone, &v.Address, &v.Balance)
	ok, err := found(err, "vendor", number)
	return v, ok, err
}

func (t *sqlTx) InsertVendor(ctx context.Context, company string, v model.Vendor) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO vendors (company_id, number, name, contact_name, email, phone, address, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		company, v.Number, v.Name, v.ContactName, v.Email, v.Phone, v.Address, v.Balance)
	if err != nil {
		return fmt.Errorf("inserting vendor %s: %w", v.Number, err)
	}
	return nil
}

func (t *sqlTx) UpdateVendor(ctx context.Context, company string, v model.Vendor) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE vendors SET name = ?, contact_name = ?, email = ?, phone = ?, address = ?, balance = ?
		 WHERE company_id = ? AND number = ?`,
		v.Name, v.ContactName, v.Email, v.Phone, v.Address, v.Balance, company, v.Number)
	if err != nil {
		return fmt.Errorf("updating vendor %s: %w", v.Number, err)
	}
	return nil
}

func (t *sqlTx) ListVendors(ctx context.Context, company string) ([]model.Vendor, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT number, name, contact_name, email, phone, address, balance
		 FROM vendors WHERE company_id = ? ORDER BY number`, company)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var out []model.Vendor
	for rows.Next() {
		var v model.Vendor
		if err := rows.Scan(&v.Number, &v.Name, &v.ContactName, &v.Email, &v.Phone, &v.Address, &v.Balance); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Accounts

func (t *sqlTx) FindAccount(ctx context.Context, company, number string) (model.Account, bool, error) {
	var a model.Account
	err := t.tx.QueryRowContext(ctx,
		`SELECT number, name, type, balance FROM accounts WHERE company_id = ? AND number = ?`,
		company, number).
		Scan(&a.Number, &a.Name, &a.Type, &a.Balance)
	ok, err := found(err, "account", number)
	return a, ok, err
}

func (t *sqlTx) InsertAccount(ctx context.Context, company string, a model.Account) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO accounts (company_id, number, name, type, balance) VALUES (?, ?, ?, ?, ?)`,
		company, a.Number, a.Name, string(a.Type), a.Balance)
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", a.Number, err)
	}
	return nil
}

func (t *sqlTx) UpdateAccount(ctx context.Context, company string, a model.Account) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE accounts SET name = ?, type = ?, balance = ? WHERE company_id = ? AND number = ?`,
		a.Name, string(a.Type), a.Balance, company, a.Number)
	if err != nil {
		return fmt.Errorf("updating account %s: %w", a.Number, err)
	}
	return nil
}

func (t *sqlTx) ListAccounts(ctx context.Context, company string) ([]model.Account, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT number, name, type, balance FROM accounts WHERE company_id = ? ORDER BY number`, company)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.Number, &a.Name, &a.Type, &a.Balance); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Employees

func (t *sqlTx) FindEmployee(ctx context.Context, company, code string) (model.Employee, bool, error) {
	var e model.Employee
	err := t.tx.QueryRowContext(ctx,
		`SELECT code, name, title, email, phone, pay_rate FROM employees WHERE company_id = ? AND code = ?`,
		company, code).
		Scan(&e.Code, &e.Name, &e.Title, &e.Email, &e.Phone, &e.PayRate)
	ok, err := found(err, "employee", code)
	return e, ok, err
}

func (t *sqlTx) InsertEmployee(ctx context.Context, company string, e model.Employee) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO employees (company_id, code, name, title, email, phone, pay_rate) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		company, e.Code, e.Name, e.Title, e.Email, e.Phone, e.PayRate)
	if err != nil {
		return fmt.Errorf("inserting employee %s: %w", e.Code, err)
	}
	return nil
}

func (t *sqlTx) UpdateEmployee(ctx context.Context, company string, e model.Employee) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE employees SET name = ?, title = ?, email = ?, phone = ?, pay_rate = ?
		 WHERE company_id = ? AND code = ?`,
		e.Name, e.Title, e.Email, e.Phone, e.PayRate, company, e.Code)
	if err != nil {
		return fmt.Errorf("updating employee %s: %w", e.Code, err)
	}
	return nil
}

func (t *sqlTx) ListEmployees(ctx context.Context, company string) ([]model.Employee, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT code, name, title, email, phone, pay_rate FROM employees WHERE company_id = ? ORDER BY code`, company)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.Code, &e.Name, &e.Title, &e.Email, &e.Phone, &e.PayRate); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Inventory

func (t *sqlTx) FindItem(ctx context.Context, company, sku string) (model.InventoryItem, bool, error) {
	var it model.InventoryItem
	err := t.tx.QueryRowContext(ctx,
		`SELECT sku, name, description, unit, quantity, unit_cost FROM inventory_items
		 WHERE company_id = ? AND sku = ?`, company, sku).
		Scan(&it.SKU, &it.Name, &it.Description, &it.Unit, &it.Quantity, &it.UnitCost)
	ok, err := found(err, "inventory item", sku)
	return it, ok, err
}

func (t *sqlTx) InsertItem(ctx context.Context, company string, it model.InventoryItem) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO inventory_items (company_id, sku, name, description, unit, quantity, unit_cost)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		company, it.SKU, it.Name, it.Description, it.Unit, it.Quantity, it.UnitCost)
	if err != nil {
		return fmt.Errorf("inserting inventory item %s: %w", it.SKU, err)
	}
	return nil
}

func (t *sqlTx) UpdateItem(ctx context.Context, company string, it model.InventoryItem) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE inventory_items SET name = ?, description = ?, unit = ?, quantity = ?, unit_cost = ?
		 WHERE company_id = ? AND sku = ?`,
		it.Name, it.Description, it.Unit, it.Quantity, it.UnitCost, company, it.SKU)
	if err != nil {
		return fmt.Errorf("updating inventory item %s: %w", it.SKU, err)
	}
	return nil
}

func (t *sqlTx) ListItems(ctx context.Context, company string) ([]model.InventoryItem, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT sku, name, description, unit, quantity, unit_cost FROM inventory_items
		 WHERE company_id = ? ORDER BY sku`, company)
	if err != nil {
		return nil, fmt.Errorf("listing inventory items: %w", err)
	}
	defer rows.Close()

	var out []model.InventoryItem
	for rows.Next() {
		var it model.InventoryItem
		if err := rows.Scan(&it.SKU, &it.Name, &it.Description, &it.Unit, &it.Quantity, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Journal entries

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func (t *sqlTx) FindEntry(ctx context.Context, company, entryID string) (model.JournalEntry, bool, error) {
	var e model.JournalEntry
	var date string
	err := t.tx.QueryRowContext(ctx,
		`SELECT entry_id, date, description, reference FROM journal_entries
		 WHERE company_id = ? AND entry_id = ?`, company, entryID).
		Scan(&e.EntryID, &date, &e.Description, &e.Reference)
	ok, err := found(err, "journal entry", entryID)
	if !ok || err != nil {
		return e, ok, err
	}
	if e.Date, err = parseDate(date); err != nil {
		return e, false, fmt.Errorf("parsing date of entry %s: %w", entryID, err)
	}
	return e, true, nil
}

func (t *sqlTx) InsertEntry(ctx context.Context, company string, e model.JournalEntry) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO journal_entries (company_id, entry_id, date, description, reference) VALUES (?, ?, ?, ?, ?)`,
		company, e.EntryID, formatDate(e.Date), e.Description, e.Reference)
	if err != nil {
		return fmt.Errorf("inserting journal entry %s: %w", e.EntryID, err)
	}
	return nil
}

func (t *sqlTx) UpdateEntry(ctx context.Context, company string, e model.JournalEntry) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE journal_entries SET date = ?, description = ?, reference = ?
		 WHERE company_id = ? AND entry_id = ?`,
		formatDate(e.Date), e.Description, e.Reference, company, e.EntryID)
	if err != nil {
		return fmt.Errorf("updating journal entry %s: %w", e.EntryID, err)
	}
	return nil
}

func (t *sqlTx) ListEntries(ctx context.Context, company string) ([]model.JournalEntry, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT entry_id, date, description, reference FROM journal_entries
		 WHERE company_id = ? ORDER BY entry_id`, company)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	defer rows.Close()

	var out []model.JournalEntry
	for rows.Next() {
		var e model.JournalEntry
		var date string
		if err := rows.Scan(&e.EntryID, &date, &e.Description, &e.Reference); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parsing date of entry %s: %w", e.EntryID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
