// Package fsshell provides a programmatic shell over hierarchical
// filesystem backends. A Shell is built on a primary core.FS and an
// optional mount table of scheme-addressed secondary filesystems, and
// exposes transfer verbs (CopyFromLocal, CopyToLocal, Cp) together with
// inspection verbs (Cat, Count, Du, Dus) whose path arguments accept
// wildcard specifiers.
//
// Transfers into POSIX-like destinations are staged: data lands in a
// uniquely named temporary file in the destination's parent directory and
// is renamed into place only after the stream completes, so a partial
// final file is never observed. Object-store destinations are written
// directly and carry the weaker visibility guarantees of their backend.
//
// Backends live in the billy, minio and checksum subpackages; all of them
// satisfy the interfaces of the core subpackage.
package fsshell
