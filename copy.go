package fsshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jmgilman/go/fsshell/checksum"
	"github.com/jmgilman/go/fsshell/core"
)

// CopyOption adjusts the behavior of a single copy invocation.
type CopyOption func(*copyOptions)

type copyOptions struct {
	noVerify     bool
	withChecksum bool
}

// WithoutChecksumVerification disables sidecar verification on the source
// for the duration of the copy. Sources without a verification toggle are
// unaffected.
func WithoutChecksumVerification() CopyOption {
	return func(o *copyOptions) { o.noVerify = true }
}

// WithChecksumFiles copies each file's sidecar checksum file alongside
// its data. The source filesystem must expose the checksum capability.
func WithChecksumFiles() CopyOption {
	return func(o *copyOptions) { o.withChecksum = true }
}

// CopyFromLocal copies the expansion of each source specifier to dst.
// With multiple sources, or a single specifier expanding to several
// matches, dst must be an existing directory; a single source copied to
// an absent destination takes that path as its new name.
func (s *Shell) CopyFromLocal(ctx context.Context, sources []string, dst string) error {
	return translate("copy from local", s.copy(ctx, sources, dst, copyOptions{}))
}

// CopyToLocal copies the expansion of src to dst using staged commits on
// POSIX-like destinations: the destination file appears only after its
// contents are complete, and an existing destination file is never
// overwritten.
func (s *Shell) CopyToLocal(ctx context.Context, src, dst string, opts ...CopyOption) error {
	var o copyOptions
	for _, opt := range opts {
		opt(&o)
	}
	return translate("copy to local", s.copy(ctx, []string{src}, dst, o))
}

// Cp copies the expansion of each source specifier to dst, including
// across mounts. Non-POSIX destinations are written directly, without
// staged commits.
func (s *Shell) Cp(ctx context.Context, sources []string, dst string) error {
	return translate("cp", s.copy(ctx, sources, dst, copyOptions{}))
}

// verifyToggler is the optional source capability behind
// WithoutChecksumVerification.
type verifyToggler interface {
	SetVerify(bool)
	Verifying() bool
}

func (s *Shell) copy(ctx context.Context, specs []string, dstSpec string, opts copyOptions) error {
	srcs, err := s.expandAll(specs)
	if err != nil {
		return err
	}
	dst, err := s.resolve(dstSpec)
	if err != nil {
		return err
	}

	multi := len(specs) > 1 || len(srcs) > 1
	plan, err := planDestination(dst, multi)
	if err != nil {
		return err
	}

	if opts.withChecksum {
		for _, src := range srcs {
			if _, ok := src.fsys.(core.ChecksumFS); !ok {
				return fmt.Errorf("%s: %w", src.path, ErrChecksumUnsupported)
			}
		}
	}
	if opts.noVerify {
		restored := make(map[verifyToggler]bool)
		for _, src := range srcs {
			if t, ok := src.fsys.(verifyToggler); ok && !restored[t] && t.Verifying() {
				restored[t] = true
				t.SetVerify(false)
				defer t.SetVerify(true)
			}
		}
	}

	for _, src := range srcs {
		if err := s.copyTree(ctx, src, plan.target(base(src.path)), opts); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies one source tree. The walk is an explicit stack of
// pending pairs, visited depth-first in pre-order; children are pushed in
// reverse listing order so they pop in listing order. The first failure
// aborts the walk, leaving already committed files in place.
func (s *Shell) copyTree(ctx context.Context, src, dst location, opts copyOptions) error {
	type item struct {
		src string
		dst string
	}
	stack := []item{{src: src.path, dst: dst.path}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := src.fsys.Stat(it.src)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%s: %w", it.src, ErrSourceNotFound)
			}
			return err
		}

		if !info.IsDir() {
			if err := s.copyLeaf(src.fsys, it.src, dst.fsys, it.dst, opts); err != nil {
				return err
			}
			continue
		}

		if err := dst.fsys.MkdirAll(it.dst, 0755); err != nil {
			return err
		}
		entries, err := src.fsys.ReadDir(it.src)
		if err != nil {
			return err
		}
		for i := len(entries) - 1; i >= 0; i-- {
			name := entries[i].Name()
			stack = append(stack, item{
				src: joinPath(it.src, name),
				dst: joinPath(it.dst, name),
			})
		}
	}
	return nil
}

// copyLeaf transfers one file, then its sidecar when requested. Sidecar
// bytes move through the raw filesystems so they are carried verbatim
// rather than re-checksummed.
func (s *Shell) copyLeaf(srcFS core.FS, src string, dstFS core.FS, dst string, opts copyOptions) error {
	s.log.Debug("copy file", "src", src, "dst", dst)

	if err := transferFile(srcFS, src, dstFS, dst); err != nil {
		return err
	}
	if !opts.withChecksum {
		return nil
	}

	cfs, ok := srcFS.(core.ChecksumFS)
	if !ok {
		return fmt.Errorf("%s: %w", src, ErrChecksumUnsupported)
	}
	raw := cfs.RawFS()
	crcSrc := cfs.ChecksumPath(src)
	exists, err := raw.Exists(crcSrc)
	if err != nil || !exists {
		return err
	}

	crcDstFS, crcDst := dstFS, checksum.SidecarPath(dst)
	if dcfs, ok := dstFS.(core.ChecksumFS); ok {
		crcDstFS, crcDst = dcfs.RawFS(), dcfs.ChecksumPath(dst)
	}
	return transferFile(raw, crcSrc, crcDstFS, crcDst)
}

// transferFile picks the transfer strategy for one file: staged commit on
// POSIX-like destinations, direct streaming otherwise.
func transferFile(srcFS core.ReadFS, src string, dstFS core.FS, dst string) error {
	if dstFS.Type().Posix() {
		return stageAndCommit(srcFS, src, dstFS, dst)
	}
	return streamDirect(srcFS, src, dstFS, dst)
}

func streamDirect(srcFS core.ReadFS, src string, dstFS core.FS, dst string) error {
	in, err := srcFS.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := dstFS.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, errors.Join(ErrTransfer, err))
	}
	return out.Close()
}
