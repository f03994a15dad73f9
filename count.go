package fsshell

import (
	"context"

	"github.com/jmgilman/go/fsshell/core"
)

// CountEntry is one matched path with its recursive content summary.
type CountEntry struct {
	Path    string
	Summary core.ContentSummary
}

// Count summarizes every path matched by the given specifiers: total
// byte length, file count and directory count below each match.
func (s *Shell) Count(ctx context.Context, patterns ...string) ([]CountEntry, error) {
	locs, err := s.expandAll(patterns)
	if err != nil {
		return nil, translate("count", err)
	}

	out := make([]CountEntry, 0, len(locs))
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum, err := core.Summarize(loc.fsys, loc.path)
		if err != nil {
			return nil, translate("count", err)
		}
		out = append(out, CountEntry{Path: loc.path, Summary: sum})
	}
	return out, nil
}
