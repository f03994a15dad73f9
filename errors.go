package fsshell

import (
	"errors"
	"fmt"
	"io/fs"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/jmgilman/go/fsshell/core"
)

// Error kinds returned by shell verbs. They are always reachable through
// errors.Is on the returned error, which is additionally a PlatformError
// carrying the matching code.
var (
	// ErrInvalidDestination indicates the destination cannot receive the
	// planned sources, such as multiple sources aimed at a non-directory.
	ErrInvalidDestination = errors.New("invalid destination")

	// ErrSourceNotFound indicates a source specifier matched nothing.
	ErrSourceNotFound = errors.New("source not found")

	// ErrDestinationExists indicates the destination file already exists
	// and would be overwritten.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrChecksumUnsupported indicates sidecar checksum files were
	// requested from a filesystem without the checksum capability.
	ErrChecksumUnsupported = errors.New("checksum files not supported")

	// ErrTransfer indicates a stream copy failed partway; staged partial
	// data is left behind under its temporary name.
	ErrTransfer = errors.New("transfer failed")

	// ErrCommitFailed indicates staged data could not be renamed into its
	// final place; the temporary file is left for inspection.
	ErrCommitFailed = errors.New("commit failed")

	// ErrUnknownScheme indicates a path specifier named a scheme with no
	// mounted filesystem.
	ErrUnknownScheme = errors.New("unknown scheme")
)

// translate wraps a verb failure into a PlatformError whose code reflects
// the error kind, preserving the chain for errors.Is and errors.As.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	return platformerrors.Wrap(err, codeFor(err), op)
}

func codeFor(err error) platformerrors.ErrorCode {
	switch {
	case errors.Is(err, ErrInvalidDestination), errors.Is(err, ErrUnknownScheme):
		return platformerrors.CodeInvalidInput
	case errors.Is(err, ErrSourceNotFound), errors.Is(err, fs.ErrNotExist):
		return platformerrors.CodeNotFound
	case errors.Is(err, ErrDestinationExists), errors.Is(err, fs.ErrExist):
		return platformerrors.CodeAlreadyExists
	case errors.Is(err, ErrChecksumUnsupported), errors.Is(err, core.ErrUnsupported):
		return platformerrors.CodeNotImplemented
	default:
		return platformerrors.CodeExecutionFailed
	}
}

// notFound reports a specifier that matched nothing.
func notFound(spec string) error {
	return fmt.Errorf("%s: no listing found: %w", spec, ErrSourceNotFound)
}
