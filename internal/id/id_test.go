package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Abebe Trading PLC", "ABEBETRA"},
		{"Selam", "SELAM"},
		{"  A & B Co.  ", "ABCO"},
		{"123 Main St Supplies", "123MAINS"},
		{"Café Addis", "CAFADDIS"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveKey(tt.name), "DeriveKey(%q)", tt.name)
	}
}

func TestKeyOrDerive(t *testing.T) {
	tests := []struct {
		key, name string
		want      string
	}{
		{"C-0001", "Abebe Trading", "C-0001"},
		{"  C-0002 ", "Abebe Trading", "C-0002"},
		{"", "Abebe Trading", "ABEBETRA"},
		{"   ", "Selam Bakery", "SELAMBAK"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyOrDerive(tt.key, tt.name))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1000", Normalize(" 1000\t"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Abebe Trading PLC", "ABEBE TRADING P.L.C.", true},
		{"Selam Cafe", "selam  cafe", true},
		{"Abebe Trading PLC", "Abebe Transport Share Co", false},
		{"Ethio Telecom", "Ethio Telecommunications Retail", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SameName(tt.a, tt.b), "SameName(%q, %q)", tt.a, tt.b)
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "ABEBETRA-2", WithSuffix("ABEBETRA", 2))
	assert.Equal(t, "ETHIOTEL-10", WithSuffix("ETHIOTEL", 10))
}
