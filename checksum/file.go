package checksum

import (
	"errors"
	"hash/crc32"
	"io"
	"io/fs"

	"github.com/jmgilman/go/fsshell/core"
)

// blockHasher accumulates a rolling CRC-32C over fixed-size blocks of a
// byte stream. It is shared by the verifying reader and the summing
// writer; only what happens at a block boundary differs.
type blockHasher struct {
	blockSize uint32
	crc       uint32
	fill      uint32
}

// feed hashes p block by block, invoking boundary for every completed
// block sum. Trailing bytes stay buffered in the running state.
func (h *blockHasher) feed(p []byte, boundary func(sum uint32) error) error {
	for len(p) > 0 {
		take := h.blockSize - h.fill
		if take > uint32(len(p)) {
			take = uint32(len(p))
		}
		h.crc = crc32.Update(h.crc, castagnoli, p[:take])
		h.fill += take
		p = p[take:]
		if h.fill == h.blockSize {
			if err := boundary(h.crc); err != nil {
				return err
			}
			h.crc, h.fill = 0, 0
		}
	}
	return nil
}

// flush reports the sum of a trailing short block, if any bytes are
// pending.
func (h *blockHasher) flush(boundary func(sum uint32) error) error {
	if h.fill == 0 {
		return nil
	}
	err := boundary(h.crc)
	h.crc, h.fill = 0, 0
	return err
}

// verifyingFile checks a data stream against stored block sums as it is
// read. The first mismatching block poisons the file: every subsequent
// read repeats the error.
type verifyingFile struct {
	inner  fs.File
	name   string
	sums   []uint32
	hasher blockHasher
	next   int
	broken error
}

func newVerifyingFile(inner fs.File, name string, sums []uint32, blockSize uint32) *verifyingFile {
	return &verifyingFile{
		inner:  inner,
		name:   name,
		sums:   sums,
		hasher: blockHasher{blockSize: blockSize},
	}
}

// checkBlock compares one computed sum against the sidecar record.
func (f *verifyingFile) checkBlock(sum uint32) error {
	if f.next >= len(f.sums) {
		return errors.Join(core.ErrChecksumMismatch,
			errors.New("data longer than sidecar records"))
	}
	if sum != f.sums[f.next] {
		return core.ErrChecksumMismatch
	}
	f.next++
	return nil
}

func (f *verifyingFile) fail(err error) error {
	f.broken = &fs.PathError{Op: "read", Path: f.name, Err: err}
	return f.broken
}

func (f *verifyingFile) Read(p []byte) (int, error) {
	if f.broken != nil {
		return 0, f.broken
	}
	n, readErr := f.inner.Read(p)
	if n > 0 {
		if err := f.hasher.feed(p[:n], f.checkBlock); err != nil {
			return n, f.fail(err)
		}
	}
	if errors.Is(readErr, io.EOF) {
		if err := f.hasher.flush(f.checkBlock); err != nil {
			return n, f.fail(err)
		}
		if f.next != len(f.sums) {
			return n, f.fail(errors.Join(core.ErrChecksumMismatch,
				errors.New("data shorter than sidecar records")))
		}
	}
	return n, readErr
}

func (f *verifyingFile) Close() error {
	return f.inner.Close()
}

func (f *verifyingFile) Stat() (fs.FileInfo, error) {
	return f.inner.Stat()
}

// summingFile computes block sums while data is written and commits the
// sidecar when the file is closed. A write fault before close means no
// sidecar is produced.
type summingFile struct {
	inner  core.File
	owner  *FS
	name   string
	sums   []uint32
	hasher blockHasher
	closed bool
}

func newSummingFile(inner core.File, owner *FS, name string) *summingFile {
	return &summingFile{
		inner:  inner,
		owner:  owner,
		name:   name,
		hasher: blockHasher{blockSize: owner.blockSize},
	}
}

func (f *summingFile) record(sum uint32) error {
	f.sums = append(f.sums, sum)
	return nil
}

func (f *summingFile) Read(p []byte) (int, error) {
	return f.inner.Read(p)
}

func (f *summingFile) Write(p []byte) (int, error) {
	n, err := f.inner.Write(p)
	if n > 0 {
		_ = f.hasher.feed(p[:n], f.record)
	}
	return n, err
}

func (f *summingFile) Close() error {
	if f.closed {
		return core.ErrClosed
	}
	f.closed = true
	_ = f.hasher.flush(f.record)
	if err := f.inner.Close(); err != nil {
		return err
	}
	sidecar := encodeSidecar(f.sums, f.hasher.blockSize)
	return f.owner.raw.WriteFile(f.owner.ChecksumPath(f.name), sidecar, sidecarPerm)
}

func (f *summingFile) Stat() (fs.FileInfo, error) {
	return f.inner.Stat()
}

func (f *summingFile) Name() string {
	return f.name
}

// Compile-time interface checks.
var (
	_ fs.File   = (*verifyingFile)(nil)
	_ core.File = (*summingFile)(nil)
)
