// Package archive opens Peachtree backup archives and resolves their Btrieve
// data files to the roles the decoder needs.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrMalformedArchive is returned when the container cannot be read.
	ErrMalformedArchive = errors.New("malformed archive")
	// ErrMissingEntry matches every *MissingEntryError.
	ErrMissingEntry = errors.New("missing archive entry")
	// ErrArchiveTooLarge is returned when the archive or a member exceeds its limit.
	ErrArchiveTooLarge = errors.New("archive too large")
)

// MissingEntryError reports a required role with no matching member.
type MissingEntryError struct {
	Role     string
	Fragment string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("missing archive entry for %s (no member contains %q)", e.Role, e.Fragment)
}

// Is makes errors.Is(err, ErrMissingEntry) true.
func (e *MissingEntryError) Is(target error) bool {
	return target == ErrMissingEntry
}

// Options controls which members are loaded and how large they may be.
// Zero limits disable the corresponding check.
type Options struct {
	Roles           []Role
	MaxArchiveBytes int64
	MaxMemberBytes  int64
}

// Entry is a raw archive member.
type Entry struct {
	Name string
	Data []byte
}

// Archive is an opened backup container.
type Archive struct {
	files []*zip.File
}

// Open reads the container directory.
func Open(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}
	a := &Archive{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		a.files = append(a.files, f)
	}
	return a, nil
}

// Members returns member names in archive order.
func (a *Archive) Members() []string {
	names := make([]string, len(a.files))
	for i, f := range a.files {
		names[i] = f.Name
	}
	return names
}

// Resolve matches a role against member paths, case-insensitively. Every
// member whose uppercased path contains the fragment is a candidate.
func (a *Archive) Resolve(role Role) Resolution {
	res := Resolution{Role: role}
	frag := strings.ToUpper(role.Fragment)
	for _, f := range a.files {
		if frag != "" && strings.Contains(strings.ToUpper(f.Name), frag) {
			res.Candidates = append(res.Candidates, f.Name)
		}
	}
	switch len(res.Candidates) {
	case 0:
		res.Kind = Missing
	case 1:
		res.Kind = Found
	default:
		res.Kind = Ambiguous
	}
	return res
}

// Read returns the decompressed contents of the named member.
func (a *Archive) Read(name string, limit int64) ([]byte, error) {
	for _, f := range a.files {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", ErrMalformedArchive, name, err)
		}
		defer rc.Close()

		var r io.Reader = rc
		if limit > 0 {
			r = io.LimitReader(rc, limit+1)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformedArchive, name, err)
		}
		if limit > 0 && int64(len(data)) > limit {
			return nil, fmt.Errorf("%w: member %s exceeds %d bytes", ErrArchiveTooLarge, name, limit)
		}
		return data, nil
	}
	return nil, fmt.Errorf("member %s not in archive", name)
}

// Buffers holds the loaded member for each resolved role.
type Buffers struct {
	Entries     map[string]Entry
	Resolutions []Resolution
}

// Get returns the buffer for a role, or nil when the role was not loaded.
func (b *Buffers) Get(role string) []byte {
	if b == nil {
		return nil
	}
	return b.Entries[role].Data
}

// Entry returns the member loaded for a role.
func (b *Buffers) Entry(role string) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	e, ok := b.Entries[role]
	return e, ok
}

// Load resolves every role and reads the selected members. A required role
// without a match fails with *MissingEntryError before anything is read.
func Load(ctx context.Context, a *Archive, opts Options, logger *zap.Logger) (*Buffers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bufs := &Buffers{Entries: make(map[string]Entry)}
	for _, role := range opts.Roles {
		res := a.Resolve(role)
		bufs.Resolutions = append(bufs.Resolutions, res)
		switch res.Kind {
		case Missing:
			if role.Required {
				return nil, &MissingEntryError{Role: role.Name, Fragment: role.Fragment}
			}
			logger.Debug("optional archive role not present", zap.String("role", role.Name))
		case Ambiguous:
			logger.Warn("archive role matched several members, using the first",
				zap.String("role", role.Name),
				zap.Strings("candidates", res.Candidates))
		}
	}

	for _, res := range bufs.Resolutions {
		if res.Kind == Missing {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("loading archive: %w", err)
		}
		data, err := a.Read(res.Member(), opts.MaxMemberBytes)
		if err != nil {
			return nil, err
		}
		bufs.Entries[res.Role.Name] = Entry{Name: res.Member(), Data: data}
		logger.Debug("loaded archive member",
			zap.String("role", res.Role.Name),
			zap.String("member", res.Member()),
			zap.Int("bytes", len(data)))
	}
	return bufs, nil
}

// LoadBytes opens an in-memory archive and loads it.
func LoadBytes(ctx context.Context, data []byte, opts Options, logger *zap.Logger) (*Buffers, error) {
	if opts.MaxArchiveBytes > 0 && int64(len(data)) > opts.MaxArchiveBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrArchiveTooLarge, len(data), opts.MaxArchiveBytes)
	}
	a, err := Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return Load(ctx, a, opts, logger)
}

// LoadFile opens an archive on disk and loads it.
func LoadFile(ctx context.Context, path string, opts Options, logger *zap.Logger) (*Buffers, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	if opts.MaxArchiveBytes > 0 && info.Size() > opts.MaxArchiveBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrArchiveTooLarge, info.Size(), opts.MaxArchiveBytes)
	}
	a, err := Open(f, info.Size())
	if err != nil {
		return nil, err
	}
	return Load(ctx, a, opts, logger)
}
