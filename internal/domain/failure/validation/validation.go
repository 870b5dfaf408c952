// Package validation holds the failures of validating a project before it is created.
package validation

import "fmt"

// Failure is the create-validation failure union.
type Failure interface {
	error
	validation()
}

type sentinel string

func (s sentinel) Error() string { return string(s) }
func (sentinel) validation()     {}

// Failures without a payload.
var (
	ErrMissingAuthorEmail Failure = sentinel("the author email for creating the project could not be determined")
	ErrMissingAuthorName  Failure = sentinel("the author name for creating the project could not be determined")
	ErrMissingGitConfig   Failure = sentinel("the git config could not be read to determine the project author")
	ErrMissingURL         Failure = sentinel("the URL for the project could not be determined")
)

// AlreadyExistsError means the target path of a new repository is taken.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("the path provided '%s' already exists", e.Path)
}
func (*AlreadyExistsError) validation() {}

// EmptyExistingPathError means an existing repository path was given as an empty directory.
type EmptyExistingPathError struct {
	Path string
}

func (e *EmptyExistingPathError) Error() string {
	return fmt.Sprintf("the existing path provided '%s' was empty", e.Path)
}
func (*EmptyExistingPathError) validation() {}

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
func (*GitError) validation() {}

// MissingDefaultBranchError means the requested default branch is absent from the repository.
type MissingDefaultBranchError struct {
	Branch string
	Path   string
}

func (e *MissingDefaultBranchError) Error() string {
	return fmt.Sprintf("the default branch '%s' supplied was not found for the repository at '%s'", e.Branch, e.Path)
}
func (*MissingDefaultBranchError) validation() {}

// PathDoesNotExistError means an existing repository path does not exist.
type PathDoesNotExistError struct {
	Path string
}

func (e *PathDoesNotExistError) Error() string {
	return fmt.Sprintf("the path provided '%s' does not exist when it was expected to", e.Path)
}
func (*PathDoesNotExistError) validation() {}

// NotARepoError means the path exists but holds no repository.
type NotARepoError struct {
	Path string
}

func (e *NotARepoError) Error() string {
	return fmt.Sprintf("the path provided '%s' is not a git repository", e.Path)
}
func (*NotARepoError) validation() {}

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
func (*IOError) validation() {}

// URLMismatchError means the repository remote does not point at the project.
type URLMismatchError struct {
	Expected string
	Found    string
}

func (e *URLMismatchError) Error() string {
	return fmt.Sprintf("the remote URL '%s' did not match the expected URL '%s'", e.Found, e.Expected)
}
func (*URLMismatchError) validation() {}

// TransportError wraps a failure pushing to the local monorepo.
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
func (*TransportError) validation() {}

// MissingRemoteError means the repository has no remote for the project.
type MissingRemoteError struct {
	Err error
}

func (e *MissingRemoteError) Error() string { return fmt.Sprintf("the remote could not be found: %v", e.Err) }
func (e *MissingRemoteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*MissingRemoteError) validation() {}
