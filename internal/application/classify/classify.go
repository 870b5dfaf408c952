// Package classify maps failures onto the HTTP status, variant and message sent to callers.
//
// Classify is a pure function of its input. The decision order is fixed and the most
// specific match wins; every union is matched with an explicit default arm, so a failure
// case added later lands in a catch-all bucket instead of going unhandled.
package classify

import (
	"errors"
	"fmt"
	"net/http"

	"upstreamproxy/internal/domain/failure"
	"upstreamproxy/internal/domain/failure/checkout"
	"upstreamproxy/internal/domain/failure/source"
	"upstreamproxy/internal/domain/failure/state"
	"upstreamproxy/internal/domain/failure/validation"
)

// Fixed messages.
const (
	MessageResourceNotFound = "Resource not found"
	MessageEntityNotFound   = "entity not found"
	MessageWrongPassphrase  = "That's the wrong passphrase."
	MessageKeyExists        = "A key already exists"
	MessageSomethingWrong   = "Something went wrong"
)

// Classification is the outcome of classifying one failure.
type Classification struct {
	Status  int
	Variant Variant
	Message string
}

func classification(status int, variant Variant, message string) Classification {
	return Classification{Status: status, Variant: variant, Message: message}
}

// Classify returns the classification of err. A nil err, or one that carries no typed
// failure, classifies as an opaque internal error.
func Classify(err error) Classification {
	if failure.IsNil(err) {
		return unknown()
	}

	if errors.Is(err, failure.ErrRouteNotFound) {
		return classification(http.StatusNotFound, VariantNotFound, MessageResourceNotFound)
	}

	var routing failure.Routing
	if errors.As(err, &routing) && !failure.IsNil(routing) {
		return classifyRouting(routing)
	}

	var fe failure.Error
	if errors.As(err, &fe) {
		return classifyFailure(fe)
	}

	return unknown()
}

func unknown() Classification {
	return classification(http.StatusInternalServerError, VariantInternalError, MessageSomethingWrong)
}

func classifyRouting(err failure.Routing) Classification {
	switch err.(type) {
	case *failure.NoSessionError:
		return classification(http.StatusNotFound, VariantNotFound, err.Error())
	case *failure.InvalidQueryError:
		return classification(http.StatusBadRequest, VariantInvalidQuery, err.Error())
	case *failure.QueryMissingError:
		return classification(http.StatusBadRequest, VariantQueryMissing, err.Error())
	default:
		return classification(http.StatusBadRequest, VariantInvalidQuery, err.Error())
	}
}

func classifyFailure(err failure.Error) Classification {
	if failure.IsNil(err) {
		return unknown()
	}

	switch e := err.(type) {
	case *failure.StateError:
		return classifyState(e, e.Err)
	case *failure.SourceError:
		return classifySource(e, e.Err)
	case *failure.KeystoreError:
		return classifyKeystore(e, e.Err)
	case *failure.SessionInUseError:
		return classification(http.StatusBadRequest, VariantSessionInUse, e.Error())
	}

	if err == failure.ErrKeystoreSealed || err == failure.ErrInvalidAuthToken {
		return classification(http.StatusForbidden, VariantForbidden, err.Error())
	}

	return internalServerError(err)
}

func internalServerError(err error) Classification {
	return classification(http.StatusInternalServerError, VariantInternalServerError, err.Error())
}

// classifyState and the classifiers below receive the wrapper that carried err, so a
// wrapper holding no failure still classifies under its own text.
func classifyState(wrapper error, err state.Failure) Classification {
	if failure.IsNil(err) {
		return internalServerError(wrapper)
	}

	switch e := err.(type) {
	case *state.CheckoutError:
		return classifyCheckout(e, e.Err)
	case *state.CreateError:
		if v, ok := e.Err.(*state.ValidationError); ok && v != nil {
			return classifyValidation(e, v.Err)
		}
		return internalServerError(err)
	case *state.GitError:
		return classification(http.StatusBadRequest, VariantGitError, fmt.Sprintf("Internal Git error: %v", e.Err))
	case *state.IdentityExistsError:
		return classification(http.StatusConflict, VariantIdentityExists, e.Error())
	case *state.StorageError:
		if isEntityNotFound(e.Err) {
			return classification(http.StatusNotFound, VariantNotFound, MessageEntityNotFound)
		}
		return internalServerError(err)
	}

	if err == state.ErrMissingOwner {
		return classification(http.StatusUnauthorized, VariantUnauthorized, err.Error())
	}

	return internalServerError(err)
}

// isEntityNotFound reports whether a storage failure means the requested entity is absent.
// Only a missing blob qualifies today; further not-found shapes are added here.
func isEntityNotFound(err state.StorageFailure) bool {
	switch e := err.(type) {
	case *state.BlobError:
		if e == nil {
			return false
		}
		nf, ok := e.Err.(*state.BlobNotFoundError)
		return ok && nf != nil
	default:
		return false
	}
}

func classifyCheckout(wrapper error, err checkout.Failure) Classification {
	if failure.IsNil(err) {
		return internalServerError(wrapper)
	}

	switch e := err.(type) {
	case *checkout.PathExistsError:
		return classification(http.StatusConflict, VariantPathExists, e.Error())
	case *checkout.GitError:
		return classification(http.StatusInternalServerError, VariantGitError, innerMessage(e, e.Err))
	case *checkout.IncludeError:
		return classification(http.StatusInternalServerError, VariantInternalError, innerMessage(e, e.Err))
	case *checkout.IOError:
		return classification(http.StatusInternalServerError, VariantInternalError, innerMessage(e, e.Err))
	case *checkout.TransportError:
		return classification(http.StatusInternalServerError, VariantTransportError, innerMessage(e, e.Err))
	case *checkout.PrefixError:
		return classification(http.StatusInternalServerError, VariantPrefixError, innerMessage(e, e.Err))
	default:
		return internalServerError(err)
	}
}

// innerMessage prefers the wrapped error's own text and falls back to the wrapper's.
func innerMessage(wrapper, inner error) string {
	if failure.IsNil(inner) {
		return wrapper.Error()
	}
	return inner.Error()
}

func classifyValidation(wrapper error, err validation.Failure) Classification {
	if failure.IsNil(err) {
		return internalServerError(wrapper)
	}

	status, variant := validationStatus(err)
	return classification(status, variant, err.Error())
}

func validationStatus(err validation.Failure) (int, Variant) {
	switch err.(type) {
	case *validation.AlreadyExistsError:
		return http.StatusConflict, VariantPathExists
	case *validation.EmptyExistingPathError:
		return http.StatusBadRequest, VariantEmptyPath
	case *validation.GitError:
		return http.StatusInternalServerError, VariantGitError
	case *validation.MissingDefaultBranchError:
		return http.StatusBadRequest, VariantMissingDefaultBranch
	case *validation.PathDoesNotExistError:
		return http.StatusNotFound, VariantPathDoesNotExist
	case *validation.NotARepoError:
		return http.StatusBadRequest, VariantNotARepo
	case *validation.IOError:
		return http.StatusBadRequest, VariantIOError
	case *validation.URLMismatchError:
		return http.StatusBadRequest, VariantURLMismatch
	case *validation.TransportError:
		return http.StatusInternalServerError, VariantTransportError
	case *validation.MissingRemoteError:
		return http.StatusInternalServerError, VariantMissingRemote
	}

	switch err {
	case validation.ErrMissingAuthorEmail:
		return http.StatusBadRequest, VariantMissingAuthorEmail
	case validation.ErrMissingGitConfig:
		return http.StatusBadRequest, VariantMissingGitConfig
	case validation.ErrMissingAuthorName:
		return http.StatusBadRequest, VariantMissingAuthorName
	case validation.ErrMissingURL:
		return http.StatusBadRequest, VariantMissingURL
	default:
		return http.StatusInternalServerError, VariantInternalServerError
	}
}

func classifySource(wrapper error, err source.Failure) Classification {
	if failure.IsNil(err) {
		return internalServerError(wrapper)
	}

	switch e := err.(type) {
	case *source.GitError:
		return classification(http.StatusBadRequest, VariantGitError, fmt.Sprintf("Internal Git error: %v", e.Err))
	case *source.PathNotFoundError:
		return classification(http.StatusNotFound, VariantNotFound, e.Path)
	}

	if err == source.ErrNoBranches {
		return classification(http.StatusBadRequest, VariantGitError, err.Error())
	}

	return internalServerError(err)
}

func classifyKeystore(wrapper error, err failure.KeystoreFailure) Classification {
	switch {
	case failure.IsNil(err):
		return internalServerError(wrapper)
	case err.IsInvalidPassphrase():
		return classification(http.StatusForbidden, VariantIncorrectPassphrase, MessageWrongPassphrase)
	case err.IsKeyExists():
		return classification(http.StatusConflict, VariantKeyExists, MessageKeyExists)
	default:
		return internalServerError(err)
	}
}
