package core

import (
	"fmt"
	"io/fs"
)

// ContentSummary is an aggregate usage snapshot of a path: total byte
// length plus file and directory counts. Directories count themselves, so
// the summary of an empty directory is {0, 0, 1}.
type ContentSummary struct {
	Length         int64
	FileCount      int64
	DirectoryCount int64
}

// String renders the summary in directory-count, file-count, length column
// order, mirroring the layout of the classic `count` shell output.
func (s ContentSummary) String() string {
	return fmt.Sprintf("%12d %12d %18d", s.DirectoryCount, s.FileCount, s.Length)
}

// Summarize computes the ContentSummary of name by walking the tree below
// it. A plain file summarizes to {size, 1, 0} without a walk.
func Summarize(fsys FS, name string) (ContentSummary, error) {
	info, err := fsys.Stat(name)
	if err != nil {
		return ContentSummary{}, err
	}

	if !info.IsDir() {
		return ContentSummary{Length: info.Size(), FileCount: 1}, nil
	}

	var summary ContentSummary
	err = fsys.Walk(name, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			summary.DirectoryCount++
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		summary.FileCount++
		summary.Length += fi.Size()
		return nil
	})
	if err != nil {
		return ContentSummary{}, err
	}
	return summary, nil
}
