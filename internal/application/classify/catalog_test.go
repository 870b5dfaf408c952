package classify

import (
	"errors"
	"net/http"
	"slices"
	"testing"

	"upstreamproxy/internal/domain/failure"
	"upstreamproxy/internal/domain/failure/checkout"
	"upstreamproxy/internal/domain/failure/source"
	"upstreamproxy/internal/domain/failure/state"
	"upstreamproxy/internal/domain/failure/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogVariantsAreUnique(t *testing.T) {
	seen := make(map[Variant]bool)
	for _, e := range Catalog() {
		assert.False(t, seen[e.Variant], "duplicate variant %s", e.Variant)
		seen[e.Variant] = true
		assert.NotEmpty(t, e.Description)
		assert.NotEmpty(t, e.Statuses)
	}
}

func TestCatalogCoversEveryClassification(t *testing.T) {
	samples := []error{
		nil,
		failure.ErrRouteNotFound,
		&failure.NoSessionError{},
		&failure.InvalidQueryError{Query: "x", Reason: "y"},
		&failure.QueryMissingError{},
		checkoutErr(&checkout.PathExistsError{}),
		checkoutErr(&checkout.GitError{Err: errors.New("x")}),
		checkoutErr(&checkout.IncludeError{Err: errors.New("x")}),
		checkoutErr(&checkout.IOError{Err: errors.New("x")}),
		checkoutErr(&checkout.TransportError{Err: errors.New("x")}),
		checkoutErr(&checkout.PrefixError{Err: errors.New("x")}),
		validationErr(&validation.AlreadyExistsError{}),
		validationErr(&validation.EmptyExistingPathError{}),
		validationErr(&validation.GitError{}),
		validationErr(validation.ErrMissingAuthorEmail),
		validationErr(validation.ErrMissingGitConfig),
		validationErr(validation.ErrMissingAuthorName),
		validationErr(&validation.MissingDefaultBranchError{}),
		validationErr(validation.ErrMissingURL),
		validationErr(&validation.PathDoesNotExistError{}),
		validationErr(&validation.NotARepoError{}),
		validationErr(&validation.IOError{}),
		validationErr(&validation.URLMismatchError{}),
		validationErr(&validation.TransportError{}),
		validationErr(&validation.MissingRemoteError{}),
		stateErr(&state.GitError{}),
		stateErr(state.ErrMissingOwner),
		stateErr(&state.StorageError{Err: &state.BlobError{Err: &state.BlobNotFoundError{}}}),
		stateErr(&state.IdentityExistsError{}),
		stateErr(&state.IncludeError{}),
		&failure.SourceError{Err: &source.GitError{}},
		&failure.SourceError{Err: source.ErrNoBranches},
		&failure.SourceError{Err: &source.PathNotFoundError{}},
		&failure.SourceError{Err: &source.IOError{}},
		&failure.KeystoreError{Err: &keystoreFailure{invalidPassphrase: true}},
		&failure.KeystoreError{Err: &keystoreFailure{keyExists: true}},
		&failure.KeystoreError{Err: &keystoreFailure{}},
		failure.ErrKeystoreSealed,
		failure.ErrInvalidAuthToken,
		&failure.SessionInUseError{},
		failure.ErrProjectNotFound,
	}

	produced := make(map[Variant]bool)
	for _, err := range samples {
		c := Classify(err)
		entry, ok := Lookup(c.Variant)
		require.True(t, ok, "variant %s missing from catalog", c.Variant)
		assert.True(t, slices.Contains(entry.Statuses, c.Status), "status %d not published for %s", c.Status, c.Variant)
		produced[c.Variant] = true
	}

	for _, e := range Catalog() {
		assert.True(t, produced[e.Variant], "catalog variant %s is never produced", e.Variant)
	}
}

func TestCatalogStatusesAreErrors(t *testing.T) {
	allowed := []int{
		http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError,
	}
	for _, e := range Catalog() {
		for _, s := range e.Statuses {
			assert.Contains(t, allowed, s, "variant %s", e.Variant)
		}
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0].Statuses[0] = http.StatusTeapot

	entry, ok := Lookup(c[0].Variant)
	require.True(t, ok)
	assert.NotEqual(t, http.StatusTeapot, entry.Statuses[0])
}
