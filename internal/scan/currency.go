package scan

import (
	"encoding/binary"
	"math"
)

// CurrencyOptions bounds the currency candidate scan over transaction rows.
type CurrencyOptions struct {
	MinMagnitude float64 `yaml:"min_magnitude"` // exclusive
	MaxMagnitude float64 `yaml:"max_magnitude"` // exclusive
	Tolerance    float64 `yaml:"tolerance"`     // allowed distance from a whole cent, float64 only
	Stride       int     `yaml:"stride"`
}

// DefaultCurrencyOptions returns the bounds used for journal row buffers.
func DefaultCurrencyOptions() CurrencyOptions {
	return CurrencyOptions{
		MinMagnitude: 0.01,
		MaxMagnitude: 1e7,
		Tolerance:    0.005,
		Stride:       2,
	}
}

// ScanCurrency returns the accepted currency candidates in buf. Both the
// float64 and int32-cents hypotheses are tried at every stride-aligned offset
// and may both fire at the same offset; no disambiguation happens here.
func ScanCurrency(buf []byte, opts CurrencyOptions) []Candidate {
	return AcceptedOnly(EvaluateCurrency(buf, opts))
}

// EvaluateCurrency returns every hypothesis tried, accepted or rejected, in
// offset order with the float64 hypothesis first at each offset.
func EvaluateCurrency(buf []byte, opts CurrencyOptions) []Candidate {
	stride := opts.Stride
	if stride < 1 {
		stride = 1
	}
	var out []Candidate
	for i := 0; i < len(buf)-8; i += stride {
		out = append(out, evalFloat64(buf, i, opts), evalInt32Cents(buf, i, opts))
	}
	return out
}

func evalFloat64(buf []byte, off int, opts CurrencyOptions) Candidate {
	if off < 0 || off+8 > len(buf) {
		return Reject(off, EncodingFloat64, 0, ReasonOutOfRange)
	}
	d := math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return Reject(off, EncodingFloat64, d, ReasonNotFinite)
	}
	abs := math.Abs(d)
	if abs <= opts.MinMagnitude || abs >= opts.MaxMagnitude {
		return Reject(off, EncodingFloat64, d, ReasonMagnitude)
	}
	dev := math.Abs(d - math.Round(d*100)/100)
	if dev >= opts.Tolerance {
		return Reject(off, EncodingFloat64, d, ReasonNotCents)
	}
	conf := 1.0
	if opts.Tolerance > 0 {
		conf = 1 - dev/opts.Tolerance
	}
	return Accept(off, EncodingFloat64, d, conf)
}

func evalInt32Cents(buf []byte, off int, opts CurrencyOptions) Candidate {
	if off < 0 || off+4 > len(buf) {
		return Reject(off, EncodingInt32Cents, 0, ReasonOutOfRange)
	}
	cents := int32(binary.LittleEndian.Uint32(buf[off : off+4]))
	v := float64(cents) / 100
	abs := math.Abs(v)
	if abs <= opts.MinMagnitude || abs >= opts.MaxMagnitude {
		return Reject(off, EncodingInt32Cents, v, ReasonMagnitude)
	}
	return Accept(off, EncodingInt32Cents, v, 1)
}
