package execctx

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

// ExecutionContext is the identity and routing data of one unit of work.
// Implementations are immutable and safe for concurrent reads.
type ExecutionContext interface {
	TenantID() string
	OkapiURL() string
	Token() string
	UserID() (uuid.UUID, bool)
	RequestID() string
	AllHeaders() okapi.Headers
	OkapiHeaders() okapi.Headers
	Metadata() ModuleMetadata
}

// RequestContext is the execution context of a request, message or system
// user call. Header accessors return copies.
type RequestContext struct {
	tenantID  string
	okapiURL  string
	token     string
	userID    uuid.UUID
	hasUserID bool
	requestID string
	all       okapi.Headers
	okapi     okapi.Headers
	metadata  ModuleMetadata
}

var _ ExecutionContext = (*RequestContext)(nil)

func (c *RequestContext) TenantID() string  { return c.tenantID }
func (c *RequestContext) OkapiURL() string  { return c.okapiURL }
func (c *RequestContext) Token() string     { return c.token }
func (c *RequestContext) RequestID() string { return c.requestID }

// UserID returns the parsed user id and whether the header was present.
func (c *RequestContext) UserID() (uuid.UUID, bool) { return c.userID, c.hasUserID }

func (c *RequestContext) AllHeaders() okapi.Headers   { return c.all.Clone() }
func (c *RequestContext) OkapiHeaders() okapi.Headers { return c.okapi.Clone() }
func (c *RequestContext) Metadata() ModuleMetadata    { return c.metadata }

// Background is the execution context of work that has no inbound request.
// Only the tenant and the module metadata are known; every other accessor
// panics with ErrBackgroundContext.
type Background struct {
	tenantID string
	metadata ModuleMetadata
}

var _ ExecutionContext = Background{}

// NewBackground returns a background context for tenantID.
func NewBackground(tenantID string, md ModuleMetadata) Background {
	return Background{tenantID: tenantID, metadata: md}
}

func (b Background) TenantID() string         { return b.tenantID }
func (b Background) Metadata() ModuleMetadata { return b.metadata }

func (b Background) OkapiURL() string            { panic(backgroundErr("OkapiURL")) }
func (b Background) Token() string               { panic(backgroundErr("Token")) }
func (b Background) UserID() (uuid.UUID, bool)   { panic(backgroundErr("UserID")) }
func (b Background) RequestID() string           { panic(backgroundErr("RequestID")) }
func (b Background) AllHeaders() okapi.Headers   { panic(backgroundErr("AllHeaders")) }
func (b Background) OkapiHeaders() okapi.Headers { panic(backgroundErr("OkapiHeaders")) }

func backgroundErr(method string) error {
	return fmt.Errorf("%s: %w", method, ErrBackgroundContext)
}

// fieldsOf returns the canonical fields of ec without tripping the
// background accessors.
func fieldsOf(ec ExecutionContext) okapi.Fields {
	if b, ok := ec.(Background); ok {
		return okapi.Fields{TenantID: b.tenantID}
	}
	f := okapi.Fields{
		TenantID:  ec.TenantID(),
		OkapiURL:  ec.OkapiURL(),
		Token:     ec.Token(),
		RequestID: ec.RequestID(),
	}
	if id, ok := ec.UserID(); ok {
		f.UserID = id.String()
	}
	return f
}

// outboundHeaders returns the headers ec contributes to outgoing calls.
func outboundHeaders(ec ExecutionContext) okapi.Headers {
	if _, ok := ec.(Background); ok {
		return okapi.Encode(fieldsOf(ec))
	}
	return ec.OkapiHeaders()
}
