package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJournalEntryHasID(t *testing.T) {
	tests := []struct {
		entryID string
		want    bool
	}{
		{"GJ-0001", true},
		{" 42 ", true},
		{"", false},
		{"   ", false},
		{"\t", false},
	}
	for _, tt := range tests {
		e := JournalEntry{EntryID: tt.entryID}
		assert.Equal(t, tt.want, e.HasID(), "HasID(%q)", tt.entryID)
	}
}

func TestAccountTypeValid(t *testing.T) {
	for _, at := range []AccountType{
		AccountTypeAsset,
		AccountTypeLiability,
		AccountTypeEquity,
		AccountTypeRevenue,
		AccountTypeExpense,
	} {
		assert.True(t, at.Valid(), "%s should be valid", at)
	}
	assert.False(t, AccountType("asset").Valid())
	assert.False(t, AccountType("").Valid())
}
