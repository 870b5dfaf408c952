package failure

import (
	"errors"
	"fmt"
	"testing"

	"upstreamproxy/internal/domain/failure/checkout"
	"upstreamproxy/internal/domain/failure/source"
	"upstreamproxy/internal/domain/failure/state"
	"upstreamproxy/internal/domain/failure/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "session in use",
			err:  &SessionInUseError{URN: "rad:git:hnrkyghsrokxzxpy9pww69xr11dr9q7edbxfo"},
			want: "the current session is in use by `rad:git:hnrkyghsrokxzxpy9pww69xr11dr9q7edbxfo`",
		},
		{
			name: "keystore sealed",
			err:  ErrKeystoreSealed,
			want: "keystore is sealed",
		},
		{
			name: "invalid auth token",
			err:  ErrInvalidAuthToken,
			want: "invalid authentication token",
		},
		{
			name: "invalid query",
			err:  &InvalidQueryError{Query: "path=a&b", Reason: "missing field `revision`"},
			want: "invalid query string \"path=a&b\": missing field `revision`",
		},
		{
			name: "query missing",
			err:  &QueryMissingError{},
			want: "required query string is missing",
		},
		{
			name: "no session",
			err:  &NoSessionError{},
			want: "no session has been created yet",
		},
		{
			name: "state wrappers are transparent",
			err:  &StateError{Err: &state.CheckoutError{Err: &checkout.PathExistsError{Path: "/tmp/radicle"}}},
			want: "the path provided '/tmp/radicle' already exists",
		},
		{
			name: "source wrapper is transparent",
			err:  &SourceError{Err: source.ErrNoBranches},
			want: "no branches found in the repository",
		},
		{
			name: "peer wrapper is transparent",
			err:  &PeerError{Err: errors.New("peer is offline")},
			want: "peer is offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestNestedFailuresAreReachable(t *testing.T) {
	ioErr := errors.New("permission denied")
	err := fmt.Errorf("creating project: %w", &StateError{
		Err: &state.CreateError{
			Err: &state.ValidationError{Err: &validation.IOError{Err: ioErr}},
		},
	})

	var top Error
	require.ErrorAs(t, err, &top)
	assert.IsType(t, &StateError{}, top)

	var v validation.Failure
	require.ErrorAs(t, err, &v)
	assert.IsType(t, &validation.IOError{}, v)

	assert.ErrorIs(t, err, ioErr)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []Error{ErrKeystoreSealed, ErrInvalidAuthToken, ErrProjectNotFound, ErrMissingDefaultBranch}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
	assert.ErrorIs(t, fmt.Errorf("open: %w", ErrProjectNotFound), ErrProjectNotFound)
}

func TestRoutingIsNotTopLevel(t *testing.T) {
	var top Error
	assert.False(t, errors.As(&NoSessionError{}, &top))

	var routing Routing
	assert.False(t, errors.As(ErrRouteNotFound, &routing))
}

func TestNilNestedFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil checkout in state", &StateError{Err: (*state.CheckoutError)(nil)}, "state error"},
		{
			name: "nil path exists in checkout",
			err:  &StateError{Err: &state.CheckoutError{Err: (*checkout.PathExistsError)(nil)}},
			want: "checkout error",
		},
		{
			name: "nil validation in create",
			err:  &StateError{Err: &state.CreateError{Err: (*state.ValidationError)(nil)}},
			want: "create error",
		},
		{"nil source git error", &SourceError{Err: (*source.GitError)(nil)}, "source error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				assert.Equal(t, tt.want, tt.err.Error())
				assert.NotErrorIs(t, tt.err, ErrProjectNotFound)

				var v validation.Failure
				assert.False(t, errors.As(tt.err, &v))
			})
		})
	}
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil((*StateError)(nil)))
	assert.True(t, IsNil(error((*checkout.GitError)(nil))))
	assert.False(t, IsNil(&StateError{}))
	assert.False(t, IsNil(ErrKeystoreSealed))
}
