// Package okapi defines the canonical x-okapi-* header set and the codec that
// moves it between HTTP header maps, execution-context fields and message
// transport headers.
//
// Five headers make up the set:
//
//	x-okapi-tenant       tenant id
//	x-okapi-url          base URL of the gateway
//	x-okapi-token        bearer token
//	x-okapi-user-id      user UUID
//	x-okapi-request-id   correlation id
//
// Every header starting with the "x-okapi-" prefix (case-insensitive) belongs
// to the set, so extension headers such as x-okapi-permissions travel along
// with the canonical ones.
//
// # Usage
//
//	raw := map[string][]string{"X-Okapi-Tenant": {"diku"}}
//	h := okapi.Decode(raw)           // keys lowercased, values merged
//	tenant := h.Get(okapi.Tenant)    // "diku"
//
//	out := okapi.Encode(okapi.Fields{TenantID: "diku", Token: "t"})
//	// out has x-okapi-tenant and x-okapi-token only; blank fields are omitted
//
// Message transports that carry byte values are decoded with
// FromMessageHeaders, which matches only the canonical names:
//
//	h := okapi.FromMessageHeaders([]okapi.MessageHeader{
//		{Key: "X-OKAPI-TENANT", Value: []byte("diku")},
//	})
package okapi
