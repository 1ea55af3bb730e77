// Package ledger is the destination ledger: a SQLite database holding the
// per-company records that reconciliation merges into.
package ledger

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sageflow/ptbrecover/internal/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store runs a function inside one ledger transaction.
type Store interface {
	WithTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the keyed record access available inside a transaction. Find
// reports false when no row has the key.
type Tx interface {
	FindCustomer(ctx context.Context, company, number string) (model.Customer, bool, error)
	InsertCustomer(ctx context.Context, company string, c model.Customer) error
	UpdateCustomer(ctx context.Context, company string, c model.Customer) error
	ListCustomers(ctx context.Context, company string) ([]model.Customer, error)

	FindVendor(ctx context.Context, company, number string) (model.Vendor, bool, error)
	InsertVendor(ctx context.Context, company string, v model.Vendor) error
	UpdateVendor(ctx context.Context, company string, v model.Vendor) error
	ListVendors(ctx context.Context, company string) ([]model.Vendor, error)

	FindAccount(ctx context.Context, company, number string) (model.Account, bool, error)
	InsertAccount(ctx context.Context, company string, a model.Account) error
	UpdateAccount(ctx context.Context, company string, a model.Account) error
	ListAccounts(ctx context.Context, company string) ([]model.Account, error)

	FindEmployee(ctx context.Context, company, code string) (model.Employee, bool, error)
	InsertEmployee(ctx context.Context, company string, e model.Employee) error
	UpdateEmployee(ctx context.Context, company string, e model.Employee) error
	ListEmployees(ctx context.Context, company string) ([]model.Employee, error)

	FindItem(ctx context.Context, company, sku string) (model.InventoryItem, bool, error)
	InsertItem(ctx context.Context, company string, it model.InventoryItem) error
	UpdateItem(ctx context.Context, company string, it model.InventoryItem) error
	ListItems(ctx context.Context, company string) ([]model.InventoryItem, error)

	FindEntry(ctx context.Context, company, entryID string) (model.JournalEntry, bool, error)
	InsertEntry(ctx context.Context, company string, e model.JournalEntry) error
	UpdateEntry(ctx context.Context, company string, e model.JournalEntry) error
	ListEntries(ctx context.Context, company string) ([]model.JournalEntry, error)
}

// DB is the SQLite-backed Store.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path and applies
// the schema.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring ledger: %w", err)
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// EnsureCompany records a company. A non-empty name replaces the stored one.
func (d *DB) EnsureCompany(ctx context.Context, id, name string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO companies (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE companies.name END`, id, name)
	if err != nil {
		return fmt.Errorf("saving company %s: %w", id, err)
	}
	return nil
}

// CompanyName returns the stored name of a company and whether it exists.
func (d *DB) CompanyName(ctx context.Context, id string) (string, bool, error) {
	var name string
	err := d.db.QueryRowContext(ctx, `SELECT name FROM companies WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading company %s: %w", id, err)
	}
	return name, true, nil
}

// WithTx runs fn in a transaction. Any error from fn, or a panic, rolls the
// transaction back; otherwise it commits.
func (d *DB) WithTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
