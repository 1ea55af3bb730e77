// Package reconcile merges a decoded archive into the ledger. A run is one
// transaction: either every record lands or none does.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sageflow/ptbrecover/internal/chart"
	"github.com/sageflow/ptbrecover/internal/id"
	"github.com/sageflow/ptbrecover/internal/ledger"
	"github.com/sageflow/ptbrecover/internal/model"
)

// Reconciler performs keyed upserts into a ledger store. Runs for the same
// company are serialized.
type Reconciler struct {
	store  ledger.Store
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Reconciler.
func New(store ledger.Store, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{store: store, logger: logger, locks: make(map[string]*sync.Mutex)}
}

func (r *Reconciler) lock(company string) func() {
	r.mu.Lock()
	l, ok := r.locks[company]
	if !ok {
		l = &sync.Mutex{}
		r.locks[company] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Reconcile merges res into the company's ledger. Failures are reported in
// the result rather than returned: Success is false, the counts are zero and
// Errors holds the cause.
func (r *Reconciler) Reconcile(ctx context.Context, company string, res *model.ParseResult) model.ImportResult {
	result := model.ImportResult{RunID: uuid.NewString()}
	logger := r.logger.With(zap.String("company", company), zap.String("run_id", result.RunID))

	company = strings.TrimSpace(company)
	if company == "" {
		result.Errors = []string{"company id is required"}
		return result
	}
	if res == nil {
		res = &model.ParseResult{}
	}

	unlock := r.lock(company)
	defer unlock()

	var rn *run
	err := r.store.WithTx(ctx, func(tx ledger.Tx) error {
		rn = &run{ctx: ctx, tx: tx, company: company, logger: logger}
		steps := []struct {
			name string
			fn   func() error
		}{
			{"customers", func() error { return rn.customers(res.Customers) }},
			{"vendors", func() error { return rn.vendors(res.Vendors) }},
			{"accounts", func() error { return rn.accounts(res.Accounts) }},
			{"employees", func() error { return rn.employees(res.Employees) }},
			{"inventory", func() error { return rn.items(res.InventoryItems) }},
			{"journal entries", func() error { return rn.entries(res.JournalEntries) }},
		}
		for _, s := range steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.fn(); err != nil {
				return fmt.Errorf("reconciling %s: %w", s.name, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("reconciliation rolled back", zap.Error(err))
		result.Errors = []string{err.Error()}
		return result
	}

	result.Success = true
	result.Counts = rn.counts
	result.Warnings = rn.warnings
	result.Message = result.Summary()
	logger.Info("reconciliation committed",
		zap.Int("customers", rn.counts.Customers),
		zap.Int("vendors", rn.counts.Vendors),
		zap.Int("accounts", rn.counts.Accounts),
		zap.Int("transactions", rn.counts.Transactions),
		zap.Int("employees", rn.counts.Employees),
		zap.Int("inventory", rn.counts.Inventory),
		zap.Int("warnings", len(rn.warnings)))
	return result
}

// run holds the state of one reconciliation transaction.
type run struct {
	ctx      context.Context
	tx       ledger.Tx
	company  string
	logger   *zap.Logger
	counts   model.Counts
	warnings []string
}

func (rn *run) warn(msg string, fields ...zap.Field) {
	rn.logger.Warn(msg, fields...)
	rn.warnings = append(rn.warnings, msg)
}

func (rn *run) customers(list []model.Customer) error {
	for i, in := range list {
		derived := id.Normalize(in.Number) == ""
		in.Number = id.KeyOrDerive(in.Number, in.Name)
		if in.Number == "" {
			rn.warn(fmt.Sprintf("customer %d skipped: no number and no usable name", i+1))
			continue
		}
		if derived {
			key, err := rn.freeKey(in.Number, in.Name, func(key string) (string, bool, error) {
				c, ok, err := rn.tx.FindCustomer(rn.ctx, rn.company, key)
				return c.Name, ok, err
			})
			if err != nil {
				return err
			}
			in.Number = key
		}
		old, ok, err := rn.tx.FindCustomer(rn.ctx, rn.company, in.Number)
		if err != nil {
			return err
		}
		if ok {
			if err := rn.tx.UpdateCustomer(rn.ctx, rn.company, mergeCustomer(old, in)); err != nil {
				return err
			}
			continue
		}
		if err := rn.tx.InsertCustomer(rn.ctx, rn.company, in); err != nil {
			return err
		}
		rn.counts.Customers++
	}
	return nil
}

func (rn *run) vendors(list []model.Vendor) error {
	for i, in := range list {
		derived := id.Normalize(in.Number) == ""
		in.Number = id.KeyOrDerive(in.Number, in.Name)
		if in.Number == "" {
			rn.warn(fmt.Sprintf("vendor %d skipped: no number and no usable name", i+1))
			continue
		}
		if derived {
			key, err := rn.freeKey(in.Number, in.Name, func(key string) (string, bool, error) {
				c, ok, err := rn.tx.FindVendor(rn.ctx, rn.company, key)
				return c.Name, ok, err
			})
			if err != nil {
				return err
			}
			in.Number = key
		}
		old, ok, err := rn.tx.FindVendor(rn.ctx, rn.company, in.Number)
		if err != nil {
			return err
		}
		if ok {
			if err := rn.tx.UpdateVendor(rn.ctx, rn.company, mergeVendor(old, in)); err != nil {
				return err
			}
			continue
		}
		if err := rn.tx.InsertVendor(rn.ctx, rn.company, in); err != nil {
			return err
		}
		rn.counts.Vendors++
	}
	return nil
}

// freeKey returns the first of base, base-2, base-3, ... that is either
// unused or already held by a party with the same name. Derived keys keep
// only a name prefix, so different parties can share a base.
func (rn *run) freeKey(base, name string, find func(key string) (string, bool, error)) (string, error) {
	key := base
	for n := 2; ; n++ {
		stored, ok, err := find(key)
		if err != nil {
			return "", err
		}
		if !ok || id.SameName(stored, name) {
			return key, nil
		}
		key = id.WithSuffix(base, n)
	}
}

func (rn *run) accounts(list []model.Account) error {
	for i, in := range list {
		in.Number = id.Normalize(in.Number)
		if in.Number == "" {
			rn.warn(fmt.Sprintf("account %d skipped: no account number", i+1))
			continue
		}
		if typ := chart.InferType(in.Number); in.Type != typ {
			if in.Type != "" {
				rn.warn(fmt.Sprintf("account %s: type %s replaced by %s from the account number", in.Number, in.Type, typ))
			}
			in.Type = typ
		}
		old, ok, err := rn.tx.FindAccount(rn.ctx, rn.company, in.Number)
		if err != nil {
			return err
		}
		if ok {
			if err := rn.tx.UpdateAccount(rn.ctx, rn.company, mergeAccount(old, in)); err != nil {
				return err
			}
			continue
		}
		if err := rn.tx.InsertAccount(rn.ctx, rn.company, in); err != nil {
			return err
		}
		rn.counts.Accounts++
	}
	return nil
}

func (rn *run) employees(list []model.Employee) error {
	for i, in := range list {
		in.Code = id.Normalize(in.Code)
		if in.Code == "" {
			rn.warn(fmt.Sprintf("employee %d skipped: no employee code", i+1), zap.String("name", in.Name))
			continue
		}
		old, ok, err := rn.tx.FindEmployee(rn.ctx, rn.company, in.Code)
		if err != nil {
			return err
		}
		if ok {
			if err := rn.tx.UpdateEmployee(rn.ctx, rn.company, mergeEmployee(old, in)); err != nil {
				return err
			}
			continue
		}
		if err := rn.tx.InsertEmployee(rn.ctx, rn.company, in); err != nil {
			return err
		}
		rn.counts.Employees++
	}
	return nil
}

func (rn *run) items(list []model.InventoryItem) error {
	for i, in := range list {
		in.SKU = id.Normalize(in.SKU)
		if in.SKU == "" {
			rn.warn(fmt.Sprintf("inventory item %d skipped: no sku", i+1), zap.String("name", in.Name))
			continue
		}
		old, ok, err := rn.tx.FindItem(rn.ctx, rn.company, in.SKU)
		if err != nil {
			return err
		}
		if ok {
			if err := rn.tx.UpdateItem(rn.ctx, rn.company, mergeItem(old, in)); err != nil {
				return err
			}
			continue
		}
		if err := rn.tx.InsertItem(rn.ctx, rn.company, in); err != nil {
			return err
		}
		rn.counts.Inventory++
	}
	return nil
}

func (rn *run) entries(list []model.JournalEntry) error {
	for i, in := range list {
		if !in.HasID() {
			rn.warn(fmt.Sprintf("journal entry %d skipped: no entry id", i+1), zap.String("description", in.Description))
			continue
		}
		in.EntryID = id.Normalize(in.EntryID)
		old, ok, err := rn.tx.FindEntry(rn.ctx, rn.company, in.EntryID)
		if err != nil {
			return err
		}
		if ok {
			if err := rn.tx.UpdateEntry(rn.ctx, rn.company, mergeEntry(old, in)); err != nil {
				return err
			}
			continue
		}
		if err := rn.tx.InsertEntry(rn.ctx, rn.company, in); err != nil {
			return err
		}
		rn.counts.Transactions++
	}
	return nil
}
