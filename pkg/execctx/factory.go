package execctx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

// SystemIdentity is the credential view of a system user.
type SystemIdentity struct {
	TenantID string
	OkapiURL string
	Token    string
	UserID   string
}

// FromHeaders builds an execution context from a raw header multimap.
// No header is required: missing values become empty strings and a missing
// user id leaves UserID unset. A user id that is present but not a UUID is an
// error wrapping ErrInvalidUserID.
func FromHeaders(headers map[string][]string, md ModuleMetadata) (*RequestContext, error) {
	all := okapi.Headers(headers).Clone()
	filtered := okapi.Filter(headers)
	fields := okapi.FieldsOf(filtered)

	ec := &RequestContext{
		tenantID:  fields.TenantID,
		okapiURL:  fields.OkapiURL,
		token:     fields.Token,
		requestID: fields.RequestID,
		all:       all,
		okapi:     filtered,
		metadata:  md,
	}

	if len(filtered.Values(okapi.UserID)) > 0 {
		id, err := parseUserID(fields.UserID)
		if err != nil {
			return nil, err
		}
		ec.userID = id
		ec.hasUserID = true
	}

	return ec, nil
}

// FromRequest builds an execution context from the request headers.
func FromRequest(r *http.Request, md ModuleMetadata) (*RequestContext, error) {
	return FromHeaders(r.Header, md)
}

// FromMessageHeaders builds an execution context from message transport
// headers whose values are raw bytes or strings.
func FromMessageHeaders(hs []okapi.MessageHeader, md ModuleMetadata) (*RequestContext, error) {
	return FromHeaders(okapi.FromMessageHeaders(hs), md)
}

// FromSystemUser builds an execution context for a call made on behalf of a
// system user. An empty token is omitted rather than treated as an error.
func FromSystemUser(id SystemIdentity, md ModuleMetadata) (*RequestContext, error) {
	return FromHeaders(okapi.Encode(okapi.Fields{
		TenantID: id.TenantID,
		OkapiURL: id.OkapiURL,
		Token:    id.Token,
		UserID:   id.UserID,
	}), md)
}

// parseUserID accepts only the canonical 8-4-4-4-12 form. uuid.Parse alone
// would also take urn, braced and undashed spellings.
func parseUserID(raw string) (uuid.UUID, error) {
	if len(raw) != canonicalUUIDLen {
		return uuid.Nil, errors.Join(ErrInvalidUserID, fmt.Errorf("user id %q is not a canonical uuid", raw))
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidUserID, err)
	}
	return id, nil
}

const canonicalUUIDLen = 36
