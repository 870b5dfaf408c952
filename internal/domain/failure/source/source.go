// Package source holds the failures raised while browsing repository contents.
package source

import "fmt"

// Failure is the source failure union.
type Failure interface {
	error
	source()
}

type sentinel string

func (s sentinel) Error() string { return string(s) }
func (sentinel) source()         {}

// ErrNoBranches means the repository has no branches to browse.
var ErrNoBranches Failure = sentinel("no branches found in the repository")

// GitError wraps a failure of the version-control engine.
type GitError struct {
	Err error
}

func (e *GitError) Error() string { return fmt.Sprintf("git error: %v", e.Err) }
func (e *GitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*GitError) source() {}

// PathNotFoundError means the path does not exist at the requested revision.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string { return fmt.Sprintf("path '%s' not found", e.Path) }
func (*PathNotFoundError) source()         {}

// IOError wraps a failure reading the repository from disk.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("i/o error: %v", e.Err) }
func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*IOError) source() {}
