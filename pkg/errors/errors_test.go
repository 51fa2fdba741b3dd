package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "ValidationFailed",
			code:    ValidationFailed,
			message: "validation failed",
		},
		{
			name:    "ResourceNotFound",
			code:    ResourceNotFound,
			message: "resource not found",
		},
		{
			name:    "UnknownRecombinationMode",
			code:    UnknownRecombinationMode,
			message: "recombination mode not implemented",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)

			assert.True(t, ok, "should be a custom *Error")
			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())

			// Test nil original error for new errors
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

// TestWrapError tests error wrapping functionality.
func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("original error")

	tests := []struct {
		name       string
		err        error
		code       ErrorCode
		wrapMsg    string
		expectNil  bool
		expectCode ErrorCode
	}{
		{
			name:       "wrap standard error",
			err:        originalErr,
			code:       SearchFailed,
			wrapMsg:    "search against index failed",
			expectCode: SearchFailed,
		},
		{
			name:      "wrap nil error returns nil",
			err:       nil,
			code:      InvalidInput,
			wrapMsg:   "should not matter",
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.code, tt.wrapMsg)

			if tt.expectNil {
				assert.Nil(t, wrapped)
				return
			}

			customErr, ok := wrapped.(*Error)
			require.True(t, ok)
			assert.Equal(t, tt.expectCode, customErr.Code())
			assert.Equal(t, tt.err, customErr.Unwrap())
			assert.Contains(t, wrapped.Error(), tt.wrapMsg)
			assert.Contains(t, wrapped.Error(), tt.err.Error())
		})
	}
}

// TestWithFields tests attaching structured context to errors.
func TestWithFields(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, WithFields(nil, Fields{"k": "v"}))
	})

	t.Run("adds fields to custom error", func(t *testing.T) {
		err := New(PurgeOutOfRange, "purge count exceeds population size")
		withFields := WithFields(err, Fields{"k": 5, "size": 3})

		customErr, ok := withFields.(*Error)
		require.True(t, ok)
		assert.Equal(t, PurgeOutOfRange, customErr.Code())
		assert.Equal(t, 5, customErr.Fields()["k"])
		assert.Equal(t, 3, customErr.Fields()["size"])
	})

	t.Run("does not mutate the original error", func(t *testing.T) {
		err := New(Unknown, "base")
		_ = WithFields(err, Fields{"a": 1})

		customErr, ok := err.(*Error)
		require.True(t, ok)
		assert.Empty(t, customErr.Fields())
	})

	t.Run("wraps a standard error", func(t *testing.T) {
		err := stderrors.New("plain")
		withFields := WithFields(err, Fields{"a": 1})

		customErr, ok := withFields.(*Error)
		require.True(t, ok)
		assert.Equal(t, Unknown, customErr.Code())
		assert.Equal(t, err, customErr.Unwrap())
	})
}

// TestErrorMatching tests errors.Is behavior by code.
func TestErrorMatching(t *testing.T) {
	err := New(UnknownRecombinationMode, "mode not implemented")

	assert.True(t, stderrors.Is(err, New(UnknownRecombinationMode, "other message")))
	assert.False(t, stderrors.Is(err, New(InvalidInput, "mode not implemented")))
	assert.False(t, stderrors.Is(err, stderrors.New("mode not implemented")))
}

// TestErrorAs tests errors.As casting.
func TestErrorAs(t *testing.T) {
	wrapped := Wrap(stderrors.New("io failure"), IndexUnavailable, "cannot open index")

	var customErr *Error
	require.True(t, stderrors.As(wrapped, &customErr))
	assert.Equal(t, IndexUnavailable, customErr.Code())
}

// TestCodeExtraction tests the Code convenience accessor.
func TestCodeExtraction(t *testing.T) {
	assert.Equal(t, PurgeOutOfRange, Code(New(PurgeOutOfRange, "purge count out of range")))
	assert.Equal(t, SearchFailed, Code(Wrap(stderrors.New("io"), SearchFailed, "search failed")))
	assert.Equal(t, Unknown, Code(stderrors.New("plain")))
	assert.Equal(t, Unknown, Code(nil))
}

// TestAllErrorCodes ensures every code round-trips through New.
func TestAllErrorCodes(t *testing.T) {
	testCases := []struct {
		code ErrorCode
		name string
	}{
		{Unknown, "Unknown"},
		{InvalidInput, "InvalidInput"},
		{ValidationFailed, "ValidationFailed"},
		{ResourceNotFound, "ResourceNotFound"},
		{Canceled, "Canceled"},
		{UnknownRecombinationMode, "UnknownRecombinationMode"},
		{PurgeOutOfRange, "PurgeOutOfRange"},
		{IndexUnavailable, "IndexUnavailable"},
		{SearchFailed, "SearchFailed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := New(tc.code, "test error")
			customErr, ok := err.(*Error)
			require.True(t, ok)
			assert.Equal(t, tc.code, customErr.Code())
		})
	}
}
