package utils

import (
	"context"
	"errors"
	"net"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrNotFound         = errors.New("page not found (404)")
	ErrTooManyRequests  = errors.New("rate limited by server (429)")
	ErrOtherHTTPError   = errors.New("other HTTP error (non-2xx)")
	ErrNetwork          = errors.New("network error")
	ErrFilesystem       = errors.New("filesystem error") // Wraps os errors
	ErrParsing          = errors.New("parsing error")    // Wraps HTML/URL parsing errors
	ErrRequestCreation  = errors.New("failed to create HTTP request")
	ErrConfigValidation = errors.New("configuration validation error")
)

// CategorizeError maps an error to a predefined category string for logging
// and outcome reporting.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	// Check against sentinel errors first
	switch {
	case errors.Is(err, ErrNotFound):
		return "HTTP_404"
	case errors.Is(err, ErrTooManyRequests):
		return "HTTP_429"
	case errors.Is(err, ErrOtherHTTPError):
		errMsg := err.Error()
		if strings.Contains(errMsg, " 403 ") {
			return "HTTP_403"
		}
		if strings.Contains(errMsg, " 401 ") {
			return "HTTP_401"
		}
		return "HTTP_Other"
	case errors.Is(err, ErrNetwork):
		return categorizeNetwork(err)
	case errors.Is(err, ErrFilesystem):
		return "Filesystem"
	case errors.Is(err, ErrParsing):
		return "Parsing"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	// Context errors
	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}

	return categorizeNetwork(err)
}

// categorizeNetwork refines a transport-level error by common causes.
func categorizeNetwork(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network_Timeout"
	}
	lowerMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline exceeded"):
		return "Network_Timeout"
	case strings.Contains(lowerMsg, "connection refused"):
		return "Network_ConnectionRefused"
	case strings.Contains(lowerMsg, "no such host"):
		return "Network_DNSLookup"
	case strings.Contains(lowerMsg, "tls") || strings.Contains(lowerMsg, "certificate"):
		return "Network_TLS"
	case strings.Contains(lowerMsg, "reset by peer"):
		return "Network_ConnectionReset"
	case errors.Is(err, ErrNetwork):
		return "Network_Other"
	}
	return "Unknown"
}
