package fsshell

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmgilman/go/fsshell/core"
)

// Shell executes filesystem verbs against a primary filesystem and any
// number of scheme-mounted secondary filesystems. Path arguments are
// specifiers: a bare path targets the primary filesystem, while
// "scheme://path" targets the filesystem mounted under scheme.
type Shell struct {
	primary core.FS
	mounts  map[string]core.FS
	log     *slog.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithMount registers fsys under scheme so specifiers of the form
// "scheme://path" resolve to it.
func WithMount(scheme string, fsys core.FS) Option {
	return func(s *Shell) {
		s.mounts[scheme] = fsys
	}
}

// WithLogger sets the logger used for operational events. The default
// discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(s *Shell) {
		s.log = log
	}
}

// New creates a Shell over the given primary filesystem.
func New(primary core.FS, opts ...Option) (*Shell, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary filesystem is required")
	}

	s := &Shell{
		primary: primary,
		mounts:  make(map[string]core.FS),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// location pins a specifier to a concrete filesystem and path.
type location struct {
	fsys core.FS
	path string
}

func (l location) sub(name string) location {
	return location{fsys: l.fsys, path: joinPath(l.path, name)}
}

func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}

// resolve splits a specifier into its mount and path. Resolution happens
// once per use of the specifier; callers carry the location afterwards.
func (s *Shell) resolve(spec string) (location, error) {
	scheme, rest, ok := strings.Cut(spec, "://")
	if !ok {
		return location{fsys: s.primary, path: spec}, nil
	}

	fsys, mounted := s.mounts[scheme]
	if !mounted {
		return location{}, fmt.Errorf("%q: %w", scheme, ErrUnknownScheme)
	}
	if rest == "" {
		rest = "."
	}
	return location{fsys: fsys, path: rest}, nil
}

// Expunge permanently deletes expired trash checkpoints on the primary
// filesystem. Filesystems without a managed trash return an unsupported
// error.
func (s *Shell) Expunge() error {
	trash, ok := s.primary.(core.TrashFS)
	if !ok {
		return translate("expunge", fmt.Errorf("trash: %w", core.ErrUnsupported))
	}
	return translate("expunge", trash.Expunge())
}
