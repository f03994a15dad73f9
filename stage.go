package fsshell

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/jmgilman/go/fsshell/core"
)

// stagePrefix names in-flight staging files so interrupted transfers are
// recognizable in the destination directory.
const stagePrefix = "_copyToLocal_"

// stageAndCommit copies one file by writing into a temporary file next to
// the destination and renaming it into place once the stream completes.
// The final path never holds partial data: a mid-stream failure leaves
// only the temporary file, named in the returned error.
func stageAndCommit(srcFS core.ReadFS, srcPath string, dstFS core.FS, dstPath string) error {
	exists, err := dstFS.Exists(dstPath)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("target %s already exists: %w", dstPath, ErrDestinationExists)
	}

	dir := path.Dir(dstPath)
	if dir != "." && dir != "/" {
		if err := dstFS.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp, tmpName, err := stageFile(dstFS, dir)
	if err != nil {
		return err
	}

	src, err := srcFS.Open(srcPath)
	if err != nil {
		tmp.Close()
		dstFS.Remove(tmpName)
		return err
	}
	defer src.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("copying %s: partial data at %s: %w",
			srcPath, tmpName, errors.Join(ErrTransfer, err))
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("copying %s: partial data at %s: %w",
			srcPath, tmpName, errors.Join(ErrTransfer, err))
	}

	if err := dstFS.Rename(tmpName, dstPath); err != nil {
		return fmt.Errorf("renaming %s to %s: %w",
			tmpName, dstPath, errors.Join(ErrCommitFailed, err))
	}
	return nil
}

// stageFile opens a uniquely named staging file in dir, preferring the
// backend's native temp-file support.
func stageFile(dstFS core.FS, dir string) (core.File, string, error) {
	if t, ok := dstFS.(core.TempFS); ok {
		f, err := t.TempFile(dir, stagePrefix+"*")
		if err != nil {
			return nil, "", err
		}
		return f, f.Name(), nil
	}

	nonce := time.Now().UnixNano()
	for i := 0; i < 10; i++ {
		name := joinPath(dir, stagePrefix+strconv.FormatInt(nonce+int64(i), 36))
		f, err := dstFS.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return f, name, nil
	}
	return nil, "", fmt.Errorf("no free staging name in %s", dir)
}
