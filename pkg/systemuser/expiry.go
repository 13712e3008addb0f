package systemuser

import (
	"errors"
	"strings"
	"time"
)

// ComputeExpiry halves the lifetime reported by the identity service:
// issuedAt + (reportedExpiry - issuedAt) / 2.
func ComputeExpiry(issuedAt, reportedExpiry time.Time) time.Time {
	return issuedAt.Add(reportedExpiry.Sub(issuedAt) / 2)
}

// ParseExpiry parses an RFC 3339 expiry reported by the identity service and
// applies ComputeExpiry. Unparseable input fails with ErrInvalidExpiry; there
// is no fallback value.
func ParseExpiry(issuedAt time.Time, raw string) (time.Time, error) {
	reported, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidExpiry, err)
	}
	return ComputeExpiry(issuedAt, reported), nil
}

// IsAboutToExpire reports whether c must be refreshed at now.
// A nil credential always needs a refresh.
func IsAboutToExpire(c *Credential, now time.Time) bool {
	if c == nil {
		return true
	}
	return !now.Before(c.Expiry)
}
