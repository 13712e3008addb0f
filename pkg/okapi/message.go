package okapi

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MessageHeader is a single header as carried by a message transport.
// Value is either raw bytes (decoded as UTF-8) or an already decoded string.
type MessageHeader struct {
	Key   string
	Value any
}

// FromMessageHeaders picks the canonical headers out of transport headers.
// Message transports do not prefix their headers, so each key is matched
// case-insensitively against every canonical name individually. Output keys
// use the canonical spelling; repeated keys keep all values in order.
func FromMessageHeaders(hs []MessageHeader) Headers {
	out := make(Headers)
	for _, mh := range hs {
		name, ok := canonicalName(mh.Key)
		if !ok {
			continue
		}
		value, ok := headerValue(mh.Value)
		if !ok {
			continue
		}
		out[name] = append(out[name], value)
	}
	return out
}

// MessageHeadersFrom flattens h into transport headers with byte values.
func MessageHeadersFrom(h Headers) []MessageHeader {
	out := make([]MessageHeader, 0, len(h))
	for _, k := range h.Keys() {
		for _, v := range h[k] {
			out = append(out, MessageHeader{Key: k, Value: []byte(v)})
		}
	}
	return out
}

func headerValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case []byte:
		return validUTF8(string(val)), true
	case string:
		return validUTF8(val), true
	case fmt.Stringer:
		return validUTF8(val.String()), true
	default:
		return "", false
	}
}

// validUTF8 replaces every invalid byte sequence with U+FFFD.
func validUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
