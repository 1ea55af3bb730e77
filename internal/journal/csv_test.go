package journal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageflow/ptbrecover/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestReadEntries(t *testing.T) {
	input := Header + "\n" +
		"GJ-0001,2019-07-01,Opening balance,OB\n" +
		",2019-07-02,No id here,\n" +
		"GJ-0002,,\"Rent, July\",CHK 1041\n"

	entries, err := ReadEntries(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "GJ-0001", entries[0].EntryID)
	assert.Equal(t, date(2019, 7, 1), entries[0].Date)
	assert.Equal(t, "OB", entries[0].Reference)

	assert.False(t, entries[1].HasID(), "rows without an id are kept for the reconciler")

	assert.True(t, entries[2].Date.IsZero())
	assert.Equal(t, "Rent, July", entries[2].Description)
}

func TestReadEntriesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad date", Header + "\nGJ-1,07/01/2019,x,y\n", "row 2"},
		{"wrong header", "id,date,desc,ref\nGJ-1,2019-07-01,x,y\n", "unexpected journal header"},
		{"wrong field count", Header + "\nGJ-1,2019-07-01\n", "reading journal CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEntries(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadEntriesEmpty(t *testing.T) {
	entries, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestWriteThenRead(t *testing.T) {
	in := []model.JournalEntry{
		{EntryID: "GJ-1", Date: date(2020, 2, 29), Description: "Leap day", Reference: "R1"},
		{EntryID: "GJ-2"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, in))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "GJ-2,,,", lines[2])

	out, err := ReadEntries(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
