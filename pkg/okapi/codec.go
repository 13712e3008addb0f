package okapi

import (
	"slices"
	"strings"
)

// Fields is the flat view of the canonical headers.
type Fields struct {
	TenantID  string
	OkapiURL  string
	Token     string
	UserID    string
	RequestID string
}

// Decode normalizes a raw header map: keys are lowercased and values of keys
// that collide after lowercasing are concatenated, never dropped. Colliding
// keys are merged in sorted order of their original spelling so the result
// is deterministic.
func Decode(raw map[string][]string) Headers {
	out := make(Headers, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		lk := strings.ToLower(k)
		out[lk] = append(out[lk], raw[k]...)
	}
	return out
}

// Filter returns the subset of h whose keys carry the x-okapi- prefix.
// Keys keep their original case and value lists are copied intact.
func Filter(h map[string][]string) Headers {
	out := make(Headers)
	for k, vs := range h {
		if IsOkapiHeader(k) {
			out[k] = slices.Clone(vs)
		}
	}
	return out
}

// FieldsOf extracts the first value of every canonical header in h.
func FieldsOf(h Headers) Fields {
	return Fields{
		TenantID:  h.Get(Tenant),
		OkapiURL:  h.Get(URL),
		Token:     h.Get(Token),
		UserID:    h.Get(UserID),
		RequestID: h.Get(RequestID),
	}
}

// Encode turns f into canonical headers. Blank fields are omitted entirely
// rather than written with an empty value.
func Encode(f Fields) Headers {
	out := make(Headers, len(CanonicalNames))
	put := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			out[key] = []string{value}
		}
	}
	put(Tenant, f.TenantID)
	put(URL, f.OkapiURL)
	put(Token, f.Token)
	put(UserID, f.UserID)
	put(RequestID, f.RequestID)
	return out
}
