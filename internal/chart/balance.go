package chart

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/shopspring/decimal"

	"github.com/sageflow/ptbrecover/internal/model"
	"github.com/sageflow/ptbrecover/internal/scan"
)

// ReasonNoBalance is reported when no occurrence of a number yields a value.
const ReasonNoBalance = "no plausible balance"

// LocateBalance finds each occurrence of number in buf and reads little-endian
// float64 values at every byte offset from the occurrence up to opts.Window
// bytes past it. The first finite value with a magnitude inside the bounds
// that is exactly a whole number of cents is accepted.
func LocateBalance(buf []byte, number string, opts BalanceOptions) scan.Candidate {
	needle := []byte(number)
	if len(needle) == 0 {
		return scan.Reject(-1, scan.EncodingFloat64, 0, ReasonNoBalance)
	}
	for from := 0; from < len(buf); {
		idx := bytes.Index(buf[from:], needle)
		if idx < 0 {
			break
		}
		occ := from + idx
		for j := occ; j <= occ+opts.Window && j+8 <= len(buf); j++ {
			v := math.Float64frombits(binary.LittleEndian.Uint64(buf[j : j+8]))
			if plausibleBalance(v, opts) {
				return scan.Accept(j, scan.EncodingFloat64, v, 1)
			}
		}
		from = occ + 1
	}
	return scan.Reject(-1, scan.EncodingFloat64, 0, ReasonNoBalance)
}

func plausibleBalance(v float64, opts BalanceOptions) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	abs := math.Abs(v)
	if abs <= opts.MinMagnitude || abs >= opts.MaxMagnitude {
		return false
	}
	return v == math.Round(v*100)/100
}

// AttachBalances returns a copy of accounts with balances located in buf.
// Accounts without a plausible balance keep a zero balance. The second result
// counts accounts that received a balance.
func AttachBalances(accounts []model.Account, buf []byte, opts BalanceOptions) ([]model.Account, int) {
	out := make([]model.Account, len(accounts))
	found := 0
	for i, acct := range accounts {
		out[i] = acct
		if len(buf) == 0 {
			continue
		}
		c := LocateBalance(buf, acct.Number, opts)
		if !c.IsAccepted() {
			continue
		}
		out[i].Balance = decimal.NewFromFloat(c.Value).Round(2)
		found++
	}
	return out, found
}
