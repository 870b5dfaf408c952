// Package failure defines the closed set of failures the proxy can surface to an API caller.
//
// Each union is a sealed interface: the marker method is unexported, so only this package
// (or the nested packages for the nested unions) can add cases. Wrapping cases carry their
// nested failure in an Err field and unwrap to it, so errors.Is and errors.As see through
// every level.
package failure

import (
	"fmt"
	"reflect"

	"upstreamproxy/internal/domain/failure/source"
	"upstreamproxy/internal/domain/failure/state"
)

// Error is the top-level failure union.
type Error interface {
	error
	failure()
}

// KeystoreFailure is a failure raised by the credential store. Its cases are owned by the
// store; only the two predicates below are observable.
type KeystoreFailure interface {
	error
	IsInvalidPassphrase() bool
	IsKeyExists() bool
}

type sentinel string

func (s sentinel) Error() string { return string(s) }
func (sentinel) failure()        {}

// Failures without a payload.
var (
	ErrKeystoreSealed       Error = sentinel("keystore is sealed")
	ErrInvalidAuthToken     Error = sentinel("invalid authentication token")
	ErrProjectNotFound      Error = sentinel("project not found")
	ErrMissingDefaultBranch Error = sentinel("missing default branch")
)

// KeystoreError wraps a credential store failure.
type KeystoreError struct {
	Err KeystoreFailure
}

func (e *KeystoreError) Error() string { return text(e.Err, "keystore error") }
func (e *KeystoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*KeystoreError) failure() {}

// StateError wraps a failure of the peer state layer.
type StateError struct {
	Err state.Failure
}

func (e *StateError) Error() string { return text(e.Err, "state error") }
func (e *StateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*StateError) failure() {}

// SourceError wraps a failure raised while browsing repository contents.
type SourceError struct {
	Err source.Failure
}

func (e *SourceError) Error() string { return text(e.Err, "source error") }
func (e *SourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*SourceError) failure() {}

// PeerError wraps a failure of the running peer.
type PeerError struct {
	Err error
}

func (e *PeerError) Error() string { return text(e.Err, "peer error") }
func (e *PeerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*PeerError) failure() {}

// IOError wraps an I/O failure that no lower layer claimed.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return text(e.Err, "i/o error") }
func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*IOError) failure() {}

// StoreError wraps a failure of the session store.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return text(e.Err, "store error") }
func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*StoreError) failure() {}

// WaitingRoomError wraps a failure of the replication request queue.
type WaitingRoomError struct {
	Err error
}

func (e *WaitingRoomError) Error() string { return text(e.Err, "waiting room error") }
func (e *WaitingRoomError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
func (*WaitingRoomError) failure() {}

// SessionInUseError reports that the session is held by another identity.
type SessionInUseError struct {
	URN string
}

func (e *SessionInUseError) Error() string {
	return fmt.Sprintf("the current session is in use by `%s`", e.URN)
}
func (*SessionInUseError) failure() {}

// text returns err's message, or fallback when a wrapper was built without a nested failure.
func text(err error, fallback string) string {
	if IsNil(err) {
		return fallback
	}
	return err.Error()
}

// IsNil reports whether err is nil or an interface holding a nil pointer.
func IsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
