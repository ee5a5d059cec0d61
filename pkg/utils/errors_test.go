package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "None"},
		{"not found", fmt.Errorf("%w: '/gone'", ErrNotFound), "HTTP_404"},
		{"rate limited", fmt.Errorf("%w: '/busy'", ErrTooManyRequests), "HTTP_429"},
		{"forbidden", fmt.Errorf("%w: status 403 403 Forbidden for '/x'", ErrOtherHTTPError), "HTTP_403"},
		{"other http", fmt.Errorf("%w: status 500 for '/x'", ErrOtherHTTPError), "HTTP_Other"},
		{"filesystem", fmt.Errorf("%w: mkdir failed", ErrFilesystem), "Filesystem"},
		{"parsing", fmt.Errorf("%w: bad html", ErrParsing), "Parsing"},
		{"request creation", fmt.Errorf("%w: bad url", ErrRequestCreation), "Internal_RequestCreation"},
		{"config", fmt.Errorf("%w: theme required", ErrConfigValidation), "Config_Validation"},
		{"context cancelled", context.Canceled, "System_ContextCanceled"},
		{"deadline", context.DeadlineExceeded, "System_ContextDeadlineExceeded"},
		{"network timeout text", fmt.Errorf("%w: dial tcp: i/o timeout", ErrNetwork), "Network_Timeout"},
		{"connection refused", fmt.Errorf("%w: connect: connection refused", ErrNetwork), "Network_ConnectionRefused"},
		{"dns", fmt.Errorf("%w: lookup x: no such host", ErrNetwork), "Network_DNSLookup"},
		{"generic network", fmt.Errorf("%w: something odd", ErrNetwork), "Network_Other"},
		{"unknown", errors.New("mystery"), "Unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CategorizeError(tc.err))
		})
	}
}
