package scan

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putFloat(buf []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
}

func putCents(buf []byte, off int, cents int32) {
	binary.LittleEndian.PutUint32(buf[off:], uint32(cents))
}

func findCandidate(cands []Candidate, off int, enc Encoding) (Candidate, bool) {
	for _, c := range cands {
		if c.Offset == off && c.Encoding == enc {
			return c, true
		}
	}
	return Candidate{}, false
}

func TestScanCurrency_DualHypothesis(t *testing.T) {
	buf := make([]byte, 40)
	putCents(buf, 2, 150000)
	putFloat(buf, 16, 2750.50)

	cands := ScanCurrency(buf, DefaultCurrencyOptions())

	cents, ok := findCandidate(cands, 2, EncodingInt32Cents)
	require.True(t, ok, "int32 cents candidate at offset 2")
	assert.Equal(t, 1500.00, cents.Value)
	assert.Equal(t, Accepted, cents.Outcome)

	dbl, ok := findCandidate(cands, 16, EncodingFloat64)
	require.True(t, ok, "float64 candidate at offset 16")
	assert.Equal(t, 2750.50, dbl.Value)
	assert.InDelta(t, 1.0, dbl.Confidence, 1e-9)

	for _, c := range cands {
		assert.True(t, c.IsAccepted())
	}
}

func TestScanCurrency_BothHypothesesAtSameOffset(t *testing.T) {
	// 0x4059000000000000 is 100.0; its low int32 word is zero, so write a
	// value whose low word is also a plausible cent amount.
	buf := make([]byte, 24)
	putFloat(buf, 0, 100.0)
	putCents(buf, 0, 12345)
	v := math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8]))
	require.False(t, math.IsNaN(v))

	all := EvaluateCurrency(buf, DefaultCurrencyOptions())
	_, ok := findCandidate(all, 0, EncodingFloat64)
	assert.True(t, ok, "float64 hypothesis is always evaluated")
	c, ok := findCandidate(all, 0, EncodingInt32Cents)
	require.True(t, ok)
	assert.True(t, c.IsAccepted())
	assert.Equal(t, 123.45, c.Value)
}

func TestScanCurrency_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		accept bool
	}{
		{"ordinary amount", 2750.50, true},
		{"within half cent", 10.004, true},
		{"too small", 0.01, false},
		{"too large", 1e7, false},
		{"negative amount", -42.10, true},
		{"infinite", math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 16)
			putFloat(buf, 0, tt.value)
			c := evalFloat64(buf, 0, DefaultCurrencyOptions())
			assert.Equal(t, tt.accept, c.IsAccepted(), "value %v reason %q", tt.value, c.Reason)
		})
	}
}

func TestScanCurrency_ToleranceIsConfigurable(t *testing.T) {
	buf := make([]byte, 16)
	putFloat(buf, 0, 10.004)

	opts := DefaultCurrencyOptions()
	c := evalFloat64(buf, 0, opts)
	require.True(t, c.IsAccepted())
	assert.Less(t, c.Confidence, 1.0)

	opts.Tolerance = 0.001
	c = evalFloat64(buf, 0, opts)
	assert.False(t, c.IsAccepted())
	assert.Equal(t, ReasonNotCents, c.Reason)
}

func TestScanCurrency_Int32Bounds(t *testing.T) {
	tests := []struct {
		cents  int32
		accept bool
	}{
		{150000, true},
		{-2599, true},
		{1, false},
		{2, true},
		{0, false},
		{math.MaxInt32, false},
	}
	for _, tt := range tests {
		buf := make([]byte, 8)
		putCents(buf, 0, tt.cents)
		c := evalInt32Cents(buf, 0, DefaultCurrencyOptions())
		assert.Equal(t, tt.accept, c.IsAccepted(), "cents %d", tt.cents)
	}
}

func TestScanCurrency_OffsetRange(t *testing.T) {
	// Offsets run over [0, len-8), so an 8-byte buffer yields nothing.
	assert.Empty(t, EvaluateCurrency(make([]byte, 8), DefaultCurrencyOptions()))

	all := EvaluateCurrency(make([]byte, 11), DefaultCurrencyOptions())
	require.Len(t, all, 4, "offsets 0 and 2, two hypotheses each")
	assert.Equal(t, 0, all[0].Offset)
	assert.Equal(t, 2, all[2].Offset)
	assert.Equal(t, ReasonMagnitude, all[0].Reason)
}

func TestScanCurrency_StrideSkipsOddOffsets(t *testing.T) {
	buf := make([]byte, 24)
	putFloat(buf, 3, 999.99)

	cands := ScanCurrency(buf, DefaultCurrencyOptions())
	_, ok := findCandidate(cands, 3, EncodingFloat64)
	assert.False(t, ok)

	opts := DefaultCurrencyOptions()
	opts.Stride = 1
	cands = ScanCurrency(buf, opts)
	_, ok = findCandidate(cands, 3, EncodingFloat64)
	assert.True(t, ok)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}
