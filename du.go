package fsshell

import (
	"context"

	"github.com/jmgilman/go/fsshell/core"
)

// DuEntry is one path with the total byte length stored below it.
type DuEntry struct {
	Path   string
	Length int64
}

// Du reports disk usage for every path matched by the given specifiers.
// A matched directory is broken out into its immediate children, each
// with its recursive length; a matched file reports its own length.
func (s *Shell) Du(ctx context.Context, patterns ...string) ([]DuEntry, error) {
	locs, err := s.expandAll(patterns)
	if err != nil {
		return nil, translate("du", err)
	}

	var out []DuEntry
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := loc.fsys.Stat(loc.path)
		if err != nil {
			return nil, translate("du", err)
		}
		if !info.IsDir() {
			out = append(out, DuEntry{Path: loc.path, Length: info.Size()})
			continue
		}

		entries, err := loc.fsys.ReadDir(loc.path)
		if err != nil {
			return nil, translate("du", err)
		}
		for _, e := range entries {
			child := loc.sub(e.Name())
			sum, err := core.Summarize(child.fsys, child.path)
			if err != nil {
				return nil, translate("du", err)
			}
			out = append(out, DuEntry{Path: child.path, Length: sum.Length})
		}
	}
	return out, nil
}

// Dus reports one aggregated entry per matched path: the recursive byte
// length below it.
func (s *Shell) Dus(ctx context.Context, patterns ...string) ([]DuEntry, error) {
	locs, err := s.expandAll(patterns)
	if err != nil {
		return nil, translate("dus", err)
	}

	out := make([]DuEntry, 0, len(locs))
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum, err := core.Summarize(loc.fsys, loc.path)
		if err != nil {
			return nil, translate("dus", err)
		}
		out = append(out, DuEntry{Path: loc.path, Length: sum.Length})
	}
	return out, nil
}
