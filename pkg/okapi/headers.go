package okapi

import (
	"slices"
	"strings"
)

// Canonical header names. Incoming keys are matched case-insensitively,
// outgoing keys are always written in this exact case.
const (
	Prefix    = "x-okapi-"
	Tenant    = "x-okapi-tenant"
	URL       = "x-okapi-url"
	Token     = "x-okapi-token"
	UserID    = "x-okapi-user-id"
	RequestID = "x-okapi-request-id"
)

// CanonicalNames lists the canonical headers in a stable order.
var CanonicalNames = []string{Tenant, URL, Token, UserID, RequestID}

// Headers is a header multimap. Keys keep the case they arrived with;
// lookups are case-insensitive.
type Headers map[string][]string

// Get returns the first value stored under key, or "" when absent.
// When several keys differ only in case, the lexicographically smallest key wins.
func (h Headers) Get(key string) string {
	for _, k := range h.matchingKeys(key) {
		if vs := h[k]; len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// Has reports whether key is present, ignoring case.
func (h Headers) Has(key string) bool {
	return len(h.matchingKeys(key)) > 0
}

// Values returns every value stored under key, ignoring case.
// Values of keys that differ only in case are concatenated in key order.
func (h Headers) Values(key string) []string {
	var out []string
	for _, k := range h.matchingKeys(key) {
		out = append(out, h[k]...)
	}
	return out
}

// Clone returns a deep copy. A nil receiver yields an empty, non-nil map.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, vs := range h {
		out[k] = slices.Clone(vs)
	}
	return out
}

// Keys returns the keys in sorted order.
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (h Headers) matchingKeys(key string) []string {
	var keys []string
	for k := range h {
		if strings.EqualFold(k, key) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// IsOkapiHeader reports whether name carries the x-okapi- prefix, ignoring case.
func IsOkapiHeader(name string) bool {
	return len(name) >= len(Prefix) && strings.EqualFold(name[:len(Prefix)], Prefix)
}

// canonicalName maps name to its canonical spelling if it is one of the
// five canonical headers.
func canonicalName(name string) (string, bool) {
	for _, c := range CanonicalNames {
		if strings.EqualFold(name, c) {
			return c, true
		}
	}
	return "", false
}
