package core

import (
	"path"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// globMeta are the characters that make a path segment a wildcard pattern.
// The set matches what the gobwas/glob compiler understands.
const globMeta = `*?[]{}\`

// hasMeta reports whether s contains wildcard syntax.
func hasMeta(s string) bool {
	return strings.ContainsAny(s, globMeta)
}

// Glob expands pattern against fsys and returns the matching paths.
//
// The pattern is split into slash-separated segments; segments without
// wildcard characters are taken literally, segments with wildcards are
// matched against directory listings, so matches come back in the
// filesystem's enumeration order. Supported syntax is *, ?, character
// classes and {alternatives}, per segment; a wildcard never crosses a
// slash.
//
// A pattern that matches nothing produces an empty slice and a nil error;
// only a malformed pattern or a listing fault is an error. Backends embed
// Glob to satisfy the GlobFS capability.
func Glob(fsys ReadFS, pattern string) ([]string, error) {
	cleaned := path.Clean(strings.TrimSuffix(pattern, "/"))
	if cleaned == "" || cleaned == "." {
		cleaned = "."
	}

	if !hasMeta(cleaned) {
		ok, err := fsys.Exists(cleaned)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []string{cleaned}, nil
	}

	rooted := strings.HasPrefix(cleaned, "/")
	trimmed := strings.Trim(cleaned, "/")
	segments := strings.Split(trimmed, "/")

	// Seed with the directory the first segment is resolved in.
	current := []string{""}
	if rooted {
		current = []string{"/"}
	}

	for _, segment := range segments {
		if len(current) == 0 {
			break
		}

		if !hasMeta(segment) {
			next := make([]string, 0, len(current))
			for _, base := range current {
				candidate := joinSegment(base, segment)
				ok, err := fsys.Exists(candidate)
				if err != nil {
					return nil, err
				}
				if ok {
					next = append(next, candidate)
				}
			}
			current = next
			continue
		}

		matcher, err := glob.Compile(segment)
		if err != nil {
			return nil, &invalidPatternError{pattern: pattern, cause: err}
		}

		var next []string
		for _, base := range current {
			dir := base
			if dir == "" {
				dir = "."
			}
			entries, err := fsys.ReadDir(dir)
			if err != nil {
				// A base that is not a listable directory simply
				// contributes no matches.
				continue
			}
			for _, entry := range entries {
				if matcher.Match(entry.Name()) {
					next = append(next, joinSegment(base, entry.Name()))
				}
			}
		}
		current = next
	}

	return current, nil
}

// joinSegment appends one path segment to base, preserving rootedness
// without ever doubling slashes.
func joinSegment(base, segment string) string {
	switch base {
	case "":
		return segment
	case "/":
		return "/" + segment
	default:
		return base + "/" + segment
	}
}

// invalidPatternError reports a specifier the glob compiler rejected.
type invalidPatternError struct {
	pattern string
	cause   error
}

func (e *invalidPatternError) Error() string {
	return "invalid glob pattern " + strconv.Quote(e.pattern) + ": " + e.cause.Error()
}

func (e *invalidPatternError) Unwrap() error { return e.cause }
