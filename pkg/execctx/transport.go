package execctx

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

// Transport is an http.RoundTripper that copies the okapi headers of the
// bound execution context onto outgoing requests. Headers already set on the
// request win.
type Transport struct {
	Base http.RoundTripper
}

// NewClient returns an http.Client that propagates the bound execution
// context. A nil base uses http.DefaultTransport.
func NewClient(base http.RoundTripper) *http.Client {
	return &http.Client{Transport: &Transport{Base: base}}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	ec, ok := Current(req.Context())
	if !ok {
		return base.RoundTrip(req)
	}

	out := req.Clone(req.Context())
	inject(out.Header, outboundHeaders(ec))
	return base.RoundTrip(out)
}

// Propagator moves execution contexts across process boundaries through
// HTTP-style headers. It is safe for concurrent use.
type Propagator struct {
	metadata ModuleMetadata
}

// NewPropagator returns a propagator that attaches md to extracted contexts.
func NewPropagator(md ModuleMetadata) *Propagator {
	return &Propagator{metadata: md}
}

// Inject writes the okapi headers of the bound execution context into headers.
// Nothing is written when no context is bound.
func (p *Propagator) Inject(ctx context.Context, headers http.Header) error {
	if out, ok := OutboundHeaders(ctx); ok {
		inject(headers, out)
	}
	return nil
}

// Extract builds an execution context from headers and returns a context
// that starts a new unit of work with it bound.
func (p *Propagator) Extract(ctx context.Context, headers http.Header) (context.Context, error) {
	ec, err := FromHeaders(headers, p.metadata)
	if err != nil {
		return ctx, err
	}
	return Bind(ctx, ec), nil
}

// OutboundHeaders returns the okapi headers the execution context bound to
// ctx contributes to outgoing calls, for carriers other than http.Header.
func OutboundHeaders(ctx context.Context) (okapi.Headers, bool) {
	ec, ok := Current(ctx)
	if !ok || ec == nil {
		return nil, false
	}
	return outboundHeaders(ec), true
}

// inject writes src into dst keeping the exact key case of src.
// Keys already present in dst, in any case, are left untouched.
func inject(dst http.Header, src okapi.Headers) {
	existing := okapi.Headers(dst)
	for _, k := range src.Keys() {
		if existing.Has(k) {
			continue
		}
		dst[k] = append([]string(nil), src[k]...)
	}
}
