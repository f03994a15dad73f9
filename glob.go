package fsshell

import (
	"github.com/jmgilman/go/fsshell/core"
)

// expand resolves a specifier and expands any wildcards against its
// filesystem. The result preserves the backend's enumeration order; a
// specifier that matches nothing yields an empty slice and a nil error.
func (s *Shell) expand(spec string) ([]location, error) {
	loc, err := s.resolve(spec)
	if err != nil {
		return nil, err
	}

	var matches []string
	if g, ok := loc.fsys.(core.GlobFS); ok {
		matches, err = g.Glob(loc.path)
	} else {
		matches, err = core.Glob(loc.fsys, loc.path)
	}
	if err != nil {
		return nil, err
	}

	out := make([]location, 0, len(matches))
	for _, m := range matches {
		out = append(out, location{fsys: loc.fsys, path: m})
	}
	return out, nil
}

// expandAll expands every specifier, failing with ErrSourceNotFound on
// the first one that matches nothing.
func (s *Shell) expandAll(specs []string) ([]location, error) {
	var out []location
	for _, spec := range specs {
		locs, err := s.expand(spec)
		if err != nil {
			return nil, err
		}
		if len(locs) == 0 {
			return nil, notFound(spec)
		}
		out = append(out, locs...)
	}
	return out, nil
}
