package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFetchError(t *testing.T) {
	cause := errors.New("boom")
	err := NewFetchError("https://example.com/x", 502, cause)

	assert.Equal(t, 502, err.StatusCode)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchErrorWithoutStatus(t *testing.T) {
	err := NewFetchError("https://example.com/x", 0, errors.New("refused"))
	assert.NotContains(t, err.Error(), "status")
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "retryable wrapper", err: &RetryableError{Err: errors.New("flaky")}, want: true},
		{name: "fetch error 503", err: NewFetchError("u", 503, errors.New("x")), want: true},
		{name: "fetch error 404", err: NewFetchError("u", 404, errors.New("x")), want: false},
		{name: "wrapped rate limit sentinel", err: fmt.Errorf("giving up: %w", ErrRateLimited), want: true},
		{name: "timeout sentinel", err: ErrTimeout, want: true},
		{name: "plain error", err: errors.New("nope"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
