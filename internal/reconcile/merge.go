package reconcile

import (
	"strings"
	"time"

	"github.com/sageflow/ptbrecover/internal/chart"
	"github.com/sageflow/ptbrecover/internal/model"
)

// coalesce prefers the incoming value unless it is blank.
func coalesce(in, old string) string {
	if strings.TrimSpace(in) != "" {
		return in
	}
	return old
}

func coalesceDate(in, old time.Time) time.Time {
	if !in.IsZero() {
		return in
	}
	return old
}

// The merge functions below update descriptive fields only. Balances and
// quantities always come from old; an account's type always comes from its
// number.

func mergeCustomer(old, in model.Customer) model.Customer {
	out := old
	out.Name = coalesce(in.Name, old.Name)
	out.ContactName = coalesce(in.ContactName, old.ContactName)
	out.Email = coalesce(in.Email, old.Email)
	out.Phone = coalesce(in.Phone, old.Phone)
	out.Address = coalesce(in.Address, old.Address)
	return out
}

func mergeVendor(old, in model.Vendor) model.Vendor {
	out := old
	out.Name = coalesce(in.Name, old.Name)
	out.ContactName = coalesce(in.ContactName, old.ContactName)
	out.Email = coalesce(in.Email, old.Email)
	out.Phone = coalesce(in.Phone, old.Phone)
	out.Address = coalesce(in.Address, old.Address)
	return out
}

func mergeAccount(old, in model.Account) model.Account {
	out := old
	out.Name = coalesce(in.Name, old.Name)
	out.Type = chart.InferType(old.Number)
	return out
}

func mergeEmployee(old, in model.Employee) model.Employee {
	out := old
	out.Name = coalesce(in.Name, old.Name)
	out.Title = coalesce(in.Title, old.Title)
	out.Email = coalesce(in.Email, old.Email)
	out.Phone = coalesce(in.Phone, old.Phone)
	return out
}

func mergeItem(old, in model.InventoryItem) model.InventoryItem {
	out := old
	out.Name = coalesce(in.Name, old.Name)
	out.Description = coalesce(in.Description, old.Description)
	out.Unit = coalesce(in.Unit, old.Unit)
	return out
}

func mergeEntry(old, in model.JournalEntry) model.JournalEntry {
	out := old
	out.Date = coalesceDate(in.Date, old.Date)
	out.Description = coalesce(in.Description, old.Description)
	out.Reference = coalesce(in.Reference, old.Reference)
	return out
}
