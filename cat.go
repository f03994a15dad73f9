package fsshell

import (
	"context"
)

// Entry is one file returned by Cat.
type Entry struct {
	Path string
	Data []byte
}

// Cat reads every file matched by the given specifiers, in listing
// order. A specifier that matches nothing fails the whole call.
func (s *Shell) Cat(ctx context.Context, patterns ...string) ([]Entry, error) {
	locs, err := s.expandAll(patterns)
	if err != nil {
		return nil, translate("cat", err)
	}

	out := make([]Entry, 0, len(locs))
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := loc.fsys.ReadFile(loc.path)
		if err != nil {
			return nil, translate("cat", err)
		}
		out = append(out, Entry{Path: loc.path, Data: data})
	}
	return out, nil
}
