// Package checkout holds the failures of checking a project out into a working copy.
package checkout

import "fmt"

// Failure is the checkout failure union.
type Failure interface {
	error
	checkout()
}

// PathExistsError means the checkout destination is already taken.
type PathExistsError struct {
	Path string
}

func (e *PathExistsError) Error() string {
	return fmt.Sprintf("the path provided '%s' already exists", e.Path)
}
func (*PathExistsError) checkout() {}

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
func (*GitError) checkout() {}

// IncludeError wraps a failure to write the include file for tracked peers.
type IncludeError struct {
	Err error
}

func (e *IncludeError) Error() string { return fmt.Sprintf("failed to write include file: %v", e.Err) }
func (e *IncludeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*IncludeError) checkout() {}

// IOError wraps a filesystem failure.
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
func (*IOError) checkout() {}

// TransportError wraps a failure fetching from the local monorepo.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %v", e.Err) }
func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*TransportError) checkout() {}

// PrefixError wraps a failure to build the working copy path from the project name.
type PrefixError struct {
	Err error
}

func (e *PrefixError) Error() string { return fmt.Sprintf("invalid path prefix: %v", e.Err) }
func (e *PrefixError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*PrefixError) checkout() {}
