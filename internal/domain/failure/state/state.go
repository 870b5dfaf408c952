// Package state holds the failures of the peer state layer: checkouts, project creation,
// storage lookups and identities.
package state

import (
	"fmt"
	"reflect"

	"upstreamproxy/internal/domain/failure/checkout"
	"upstreamproxy/internal/domain/failure/validation"
)

// Failure is the state failure union.
type Failure interface {
	error
	state()
}

type sentinel string

func (s sentinel) Error() string { return string(s) }
func (sentinel) state()          {}

// ErrMissingOwner means the session has no owner identity yet.
var ErrMissingOwner Failure = sentinel("the local peer has no owner identity")

// CheckoutError wraps a checkout failure.
type CheckoutError struct {
	Err checkout.Failure
}

func (e *CheckoutError) Error() string { return text(e.Err, "checkout error") }
func (e *CheckoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*CheckoutError) state() {}

// CreateError wraps a project creation failure.
type CreateError struct {
	Err CreateFailure
}

func (e *CreateError) Error() string { return text(e.Err, "create error") }
func (e *CreateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*CreateError) state() {}

// GitError wraps a failure of the version-control engine raised by the state layer itself.
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
func (*GitError) state() {}

// StorageError wraps a failure of the peer's object storage.
type StorageError struct {
	Err StorageFailure
}

func (e *StorageError) Error() string { return text(e.Err, "storage error") }
func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*StorageError) state() {}

// IdentityExistsError means an identity with the URN is already stored.
type IdentityExistsError struct {
	URN string
}

func (e *IdentityExistsError) Error() string {
	return fmt.Sprintf("the identity '%s' already exists", e.URN)
}
func (*IdentityExistsError) state() {}

// IncludeError wraps a failure to update the include file of a project.
type IncludeError struct {
	Err error
}

func (e *IncludeError) Error() string { return fmt.Sprintf("failed to update include file: %v", e.Err) }
func (e *IncludeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*IncludeError) state() {}

// CreateFailure is the project creation failure union.
type CreateFailure interface {
	error
	create()
}

// ValidationError wraps a failure of the pre-create checks.
type ValidationError struct {
	Err validation.Failure
}

func (e *ValidationError) Error() string { return text(e.Err, "validation error") }
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*ValidationError) create() {}

// CreateIOError wraps a filesystem failure after validation passed.
type CreateIOError struct {
	Err error
}

func (e *CreateIOError) Error() string { return fmt.Sprintf("i/o error: %v", e.Err) }
func (e *CreateIOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*CreateIOError) create() {}

// StorageFailure is the storage failure union.
type StorageFailure interface {
	error
	storage()
}

// BlobError wraps a failure reading a blob from storage.
type BlobError struct {
	Err BlobFailure
}

func (e *BlobError) Error() string { return text(e.Err, "blob error") }
func (e *BlobError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*BlobError) storage() {}

// BlobFailure is the blob lookup failure union.
type BlobFailure interface {
	error
	blob()
}

// BlobNotFoundError means the blob is not in storage.
type BlobNotFoundError struct {
	Path string
}

func (e *BlobNotFoundError) Error() string { return fmt.Sprintf("blob '%s' not found", e.Path) }
func (*BlobNotFoundError) blob()           {}

// text returns err's message, or fallback when a wrapper was built without a nested failure.
func text(err error, fallback string) string {
	if isNil(err) {
		return fallback
	}
	return err.Error()
}

func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
