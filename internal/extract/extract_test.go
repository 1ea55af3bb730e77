package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/sageflow/ptbrecover/internal/archive"
	"github.com/sageflow/ptbrecover/internal/config"
	"github.com/sageflow/ptbrecover/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func float64Bytes(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

func sampleArchive(t *testing.T) []byte {
	t.Helper()
	journal := make([]byte, 16)
	binary.LittleEndian.PutUint32(journal[4:], 150000)

	members := []struct {
		name string
		data []byte
	}{
		{"Acme/CHART.DAT", []byte("\x00\x001000\x00\x00Cash\x00\x011100\x00Bank - ETB\x00\x00")},
		{"Acme/CHARTAR.DAT", append(append([]byte("1000\x00"), float64Bytes(50000.00)...), make([]byte, 16)...)},
		{"Acme/CUSTOMER.DAT", []byte("\x00Abebe Trading PLC\x00Customer List\x00Selam Bakery\x00")},
		{"Acme/JRNLROW.DAT", journal},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write(m.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func defaultOptions() archive.Options {
	return config.Default("", "").ArchiveOptions()
}

func TestExtractBytes(t *testing.T) {
	e := New(config.DefaultHeuristics(), zap.NewNop())
	e.Timeout = time.Minute

	res, err := e.ExtractBytes(context.Background(), sampleArchive(t), defaultOptions())
	require.NoError(t, err)

	wantAccounts := []model.Account{
		{Number: "1000", Name: "Cash", Type: model.AccountTypeAsset, Balance: decimal.NewFromInt(50000), Offset: 2},
		{Number: "1100", Name: "Bank - ETB", Type: model.AccountTypeAsset, Balance: decimal.Zero, Offset: 14},
	}
	if diff := cmp.Diff(wantAccounts, res.Accounts, decimalEqual); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, res.Customers, 2)
	assert.Equal(t, "Abebe Trading PLC", res.Customers[0].Name)
	assert.Empty(t, res.Vendors)

	var cents *model.CurrencyCandidate
	for i, c := range res.Candidates {
		if c.Offset == 4 && c.Encoding == "int32_cents" {
			cents = &res.Candidates[i]
		}
	}
	require.NotNil(t, cents, "candidates: %+v", res.Candidates)
	assert.True(t, cents.Value.Equal(decimal.NewFromInt(1500)), "value %s", cents.Value)

	roles := map[string]model.MemberInfo{}
	for _, m := range res.Members {
		roles[m.Role] = m
	}
	assert.True(t, roles[archive.RoleChart].Ambiguous, "CHART also matches CHARTAR.DAT")
	assert.Equal(t, "Acme/CHART.DAT", roles[archive.RoleChart].Name)
	assert.Equal(t, "Acme/CHARTAR.DAT", roles[archive.RoleChartBalances].Name)
	assert.NotContains(t, roles, archive.RoleVendors)
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.ptb")
	require.NoError(t, os.WriteFile(path, sampleArchive(t), 0o644))

	res, err := New(config.DefaultHeuristics(), nil).ExtractFile(context.Background(), path, defaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Accounts, 2)
}

func TestExtractMissingChart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("VENDOR.DAT")
	require.NoError(t, err)
	_, err = w.Write([]byte("\x00Ethio Telecom\x00"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = New(config.DefaultHeuristics(), nil).ExtractBytes(context.Background(), buf.Bytes(), defaultOptions())
	assert.ErrorIs(t, err, archive.ErrMissingEntry)
}

func TestRunCancelled(t *testing.T) {
	bufs, err := archive.LoadBytes(context.Background(), sampleArchive(t), defaultOptions(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(config.DefaultHeuristics(), nil).Run(ctx, bufs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDoesNotMutateBuffers(t *testing.T) {
	bufs, err := archive.LoadBytes(context.Background(), sampleArchive(t), defaultOptions(), nil)
	require.NoError(t, err)

	before := map[string][]byte{}
	for role, e := range bufs.Entries {
		before[role] = bytes.Clone(e.Data)
	}
	_, err = New(config.DefaultHeuristics(), nil).Run(context.Background(), bufs)
	require.NoError(t, err)
	for role, e := range bufs.Entries {
		assert.Equal(t, before[role], e.Data, role)
	}
}
