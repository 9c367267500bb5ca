package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cause := errors.New("boom")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"configuration", New(ErrConfiguration, "missing key"), http.StatusBadRequest},
		{"invalid input", New(ErrInvalidInput, "bad url"), http.StatusBadRequest},
		{"not found", New(ErrNotFound, "no screenshot"), http.StatusNotFound},
		{"quota", Wrap(ErrQuotaExceeded, cause, "slow down"), http.StatusTooManyRequests},
		{"upstream", Wrap(ErrUpstreamUnavailable, cause, "chrome"), http.StatusBadGateway},
		{"wrapped twice", fmt.Errorf("ask: %w", New(ErrQuotaExceeded, "x")), http.StatusTooManyRequests},
		{"unknown", cause, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestErrorKeepsMessageAndCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(ErrUpstreamUnavailable, cause, "Failed to start Chrome. Error: %v", cause)

	assert.Equal(t, "Failed to start Chrome. Error: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
}
