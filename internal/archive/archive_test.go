package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	name string
	data []byte
}

func buildZip(t *testing.T, members ...member) []byte {
	t.Helper()
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

func TestResolve(t *testing.T) {
	data := buildZip(t,
		member{"Company/CHART.DAT", []byte("chart")},
		member{"Company/chartar.dat", []byte("balances")},
		member{"Company/VENDOR.DAT", []byte("vendors")},
	)
	a, err := Open(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	tests := []struct {
		name     string
		fragment string
		kind     Kind
		member   string
	}{
		{"single match", "VENDOR", Found, "Company/VENDOR.DAT"},
		{"case insensitive", "CHARTAR", Found, "Company/chartar.dat"},
		{"prefix collision takes first", "CHART", Ambiguous, "Company/CHART.DAT"},
		{"no match", "JRNLROW", Missing, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Resolve(Role{Name: tt.name, Fragment: tt.fragment})
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.member, res.Member())
		})
	}
}

func TestLoadBytes(t *testing.T) {
	data := buildZip(t,
		member{"CHART.DAT", []byte("chart-bytes")},
		member{"CUSTOMER.DAT", []byte("customer-bytes")},
	)

	bufs, err := LoadBytes(context.Background(), data, Options{Roles: DefaultRoles()}, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte("chart-bytes"), bufs.Get(RoleChart))
	assert.Equal(t, []byte("customer-bytes"), bufs.Get(RoleCustomers))
	assert.Nil(t, bufs.Get(RoleVendors))
	assert.Len(t, bufs.Resolutions, len(DefaultRoles()))

	e, ok := bufs.Entry(RoleChart)
	require.True(t, ok)
	assert.Equal(t, "CHART.DAT", e.Name)
}

func TestLoadMissingRequired(t *testing.T) {
	data := buildZip(t, member{"CUSTOMER.DAT", []byte("x")})

	_, err := LoadBytes(context.Background(), data, Options{Roles: DefaultRoles()}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingEntry))

	var missing *MissingEntryError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, RoleChart, missing.Role)
}

func TestLoadMalformed(t *testing.T) {
	_, err := LoadBytes(context.Background(), []byte("not a zip at all"), Options{Roles: DefaultRoles()}, nil)
	assert.ErrorIs(t, err, ErrMalformedArchive)
}

func TestLoadLimits(t *testing.T) {
	data := buildZip(t, member{"CHART.DAT", bytes.Repeat([]byte("A"), 4096)})

	_, err := LoadBytes(context.Background(), data, Options{Roles: DefaultRoles(), MaxArchiveBytes: 16}, nil)
	assert.ErrorIs(t, err, ErrArchiveTooLarge)

	_, err = LoadBytes(context.Background(), data, Options{Roles: DefaultRoles(), MaxMemberBytes: 1024}, nil)
	assert.ErrorIs(t, err, ErrArchiveTooLarge)

	_, err = LoadBytes(context.Background(), data, Options{Roles: DefaultRoles(), MaxMemberBytes: 4096}, nil)
	assert.NoError(t, err)
}

func TestLoadCancelled(t *testing.T) {
	data := buildZip(t, member{"CHART.DAT", []byte("x")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadBytes(ctx, data, Options{Roles: DefaultRoles()}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company.ptb")
	require.NoError(t, os.WriteFile(path, buildZip(t, member{"CHART.DAT", []byte("x")}), 0o644))

	bufs, err := LoadFile(context.Background(), path, Options{Roles: DefaultRoles()}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), bufs.Get(RoleChart))

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.ptb"), Options{}, nil)
	assert.Error(t, err)
}

func TestReadHeader(t *testing.T) {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint16(buf[0x14:], 3)
	binary.LittleEndian.PutUint32(buf[0x1C:], 1234)

	h, ok := ReadHeader(buf)
	require.True(t, ok)
	assert.Equal(t, Header{Records: 1234, Keys: 3}, h)

	_, ok = ReadHeader(buf[:0x1F])
	assert.False(t, ok)
}
