package chart

import (
	"encoding/binary"
	"math"

	"github.com/shopspring/decimal"

	"github.com/sageflow/ptbrecover/internal/model"
)

// sentinelPrefix opens a balance record in CHARTAR: six 0xFF bytes, a record
// tag of 0x11 or 0x15, then 0x00 and the little-endian float64 balance.
var sentinelPrefix = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// SentinelBalances scans a CHARTAR buffer for tagged balance records and
// attributes each to the last four-digit run within the look-behind window.
// Records are deduplicated by account number, or by balance when no number
// was found; the first record wins.
func SentinelBalances(buf []byte, opts BalanceOptions) []model.BalanceRecord {
	var records []model.BalanceRecord
	seen := make(map[string]bool)

	i := 0
	for i < len(buf)-20 {
		if !isSentinel(buf, i) {
			i++
			continue
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(buf[i+8 : i+16]))
		if !math.IsNaN(v) && math.Abs(v) > 1 && math.Abs(v) < opts.SentinelMaxMagnitude {
			rec := model.BalanceRecord{
				AccountNumber: digitsBefore(buf, i, opts.SentinelLookBehind),
				Balance:       decimal.NewFromFloat(v).Round(2),
				Offset:        i + 8,
			}
			key := rec.AccountNumber
			if key == "" {
				key = "=" + rec.Balance.String()
			}
			if !seen[key] {
				seen[key] = true
				records = append(records, rec)
			}
		}
		i += 16
	}
	return records
}

func isSentinel(buf []byte, i int) bool {
	for k, b := range sentinelPrefix {
		if buf[i+k] != b {
			return false
		}
	}
	tag := buf[i+6]
	return (tag == 0x11 || tag == 0x15) && buf[i+7] == 0x00
}

// digitsBefore returns the four-digit ASCII run closest to end within the
// lookBehind bytes preceding it.
func digitsBefore(buf []byte, end, lookBehind int) string {
	at := digitsOffset(buf, end, lookBehind)
	if at < 0 {
		return ""
	}
	return string(buf[at : at+4])
}

// digitsOffset is digitsBefore returning the run's offset, or -1.
func digitsOffset(buf []byte, end, lookBehind int) int {
	start := max(end-lookBehind, 0)
	for j := end - 4; j >= start; j-- {
		if isDigits(buf[j : j+4]) {
			return j
		}
	}
	return -1
}

func isDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
