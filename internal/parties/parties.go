// Package parties recovers customer and vendor names from CUSTOMER and VENDOR
// buffers. The records carry no reliable key, so only names are recovered;
// keys are derived downstream.
package parties

import (
	"strings"
	"unicode"

	"github.com/sageflow/ptbrecover/internal/model"
	"github.com/sageflow/ptbrecover/internal/scan"
)

// Options bounds token extraction and lists strings that mark a token as
// file-format noise rather than a name.
type Options struct {
	MinTokenLen  int      `yaml:"min_token_len"`
	MaxTokenLen  int      `yaml:"max_token_len"`
	MinLetters   int      `yaml:"min_letters"`
	CustomerJunk []string `yaml:"customer_junk"`
	VendorJunk   []string `yaml:"vendor_junk"`
	Excluded     []string `yaml:"excluded"`
}

// DefaultOptions returns the filters observed to work on Peachtree backups.
func DefaultOptions() Options {
	common := []string{"AirborneQ", "DupF", "Fv1b", "QC7P", "THx", "A1Ww", "ArvB", "DIXT"}
	return Options{
		MinTokenLen:  4,
		MaxTokenLen:  50,
		MinLetters:   3,
		CustomerJunk: append(append([]string{}, common...), "Customer"),
		VendorJunk:   append(append([]string{}, common...), "Airborne'", "Vendor", "Employee", "Payment", "Supplies", "Cost", "Inventory"),
		Excluded:     []string{"dat", "ptb", ".", "rpt"},
	}
}

// Names returns the distinct plausible names in buf, in offset order.
// Duplicates are detected case-insensitively; the first spelling wins.
func Names(buf []byte, junk []string, opts Options) []string {
	var names []string
	seen := make(map[string]bool)
	for _, tok := range scan.ExtractStrings(buf, opts.MinTokenLen, opts.MaxTokenLen) {
		lower := strings.ToLower(tok.Text)
		if !plausible(tok.Text, lower, junk, opts) || seen[lower] {
			continue
		}
		seen[lower] = true
		names = append(names, tok.Text)
	}
	return names
}

func plausible(s, lower string, junk []string, opts Options) bool {
	if len(s) < opts.MinTokenLen || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for _, j := range junk {
		if strings.Contains(lower, strings.ToLower(j)) {
			return false
		}
	}
	for _, x := range opts.Excluded {
		if strings.Contains(lower, x) {
			return false
		}
	}
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= opts.MinLetters
}

// Customers recovers customers from a CUSTOMER buffer.
func Customers(buf []byte, opts Options) []model.Customer {
	names := Names(buf, opts.CustomerJunk, opts)
	out := make([]model.Customer, 0, len(names))
	for _, n := range names {
		out = append(out, model.Customer{Name: n})
	}
	return out
}

// Vendors recovers vendors from a VENDOR buffer.
func Vendors(buf []byte, opts Options) []model.Vendor {
	names := Names(buf, opts.VendorJunk, opts)
	out := make([]model.Vendor, 0, len(names))
	for _, n := range names {
		out = append(out, model.Vendor{Name: n})
	}
	return out
}
