package fsshell

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// destPlan captures the destination's shape for a whole copy invocation.
// The directory-ness of the destination is queried exactly once, when the
// plan is made; every source placement derives from that answer.
type destPlan struct {
	loc   location
	isDir bool
}

// planDestination decides how sources land at dst. With multiple sources
// the destination must be an existing directory; a single source may also
// target an absent path, which becomes a rename-style literal target.
// Shape violations are reported before any destination I/O.
func planDestination(dst location, multi bool) (destPlan, error) {
	info, err := dst.fsys.Stat(dst.path)
	switch {
	case err == nil && info.IsDir():
		return destPlan{loc: dst, isDir: true}, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return destPlan{}, err
	case multi:
		return destPlan{}, fmt.Errorf(
			"copying multiple files, but %s is not a directory: %w",
			dst.path, ErrInvalidDestination)
	default:
		// Existing file or absent path: a literal single-source target.
		return destPlan{loc: dst, isDir: false}, nil
	}
}

// target returns where a source with the given base name lands.
func (p destPlan) target(srcBase string) location {
	if p.isDir {
		return p.loc.sub(srcBase)
	}
	return p.loc
}

// base returns the last element of a source path for placement under a
// directory destination.
func base(name string) string {
	return path.Base(path.Clean(name))
}
