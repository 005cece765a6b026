package llm

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrUnavailable means the backend (including its whole fallback chain) could
// not produce a response. Callers treat it as row-local: skip the cell, mark
// the agent partially failed, keep the run going.
var ErrUnavailable = errors.New("reasoning backend unavailable")

// IsTransient reports whether err is worth retrying on another model:
// rate limits, timeouts, and 5xx-equivalent backend hiccups.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429",
		"rate limit",
		"rate_limit",
		"resource_exhausted",
		"quota",
		"timeout",
		"overloaded",
		"500", "502", "503", "504",
		"internal server error",
		"service unavailable",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsPermanent reports whether err means the model itself is unusable for the
// rest of the run (unknown model, revoked key), as opposed to a transient
// failure worth retrying later in the chain.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"404",
		"not found",
		"not_found",
		"invalid api key",
		"401",
		"permission denied",
		"403",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
