package systemuser

import (
	"time"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
)

// Credential is a bearer token with its safe-refresh expiry. The expiry is
// always computed by ComputeExpiry, never copied from the identity service.
type Credential struct {
	AccessToken string    `json:"access_token"`
	Expiry      time.Time `json:"expiry"`
}

// SystemUser is the service account a module uses for work that has no
// inbound request. Values are treated as immutable: refreshing produces a new
// SystemUser through WithToken.
type SystemUser struct {
	Username string      `json:"username"`
	TenantID string      `json:"tenant_id"`
	OkapiURL string      `json:"okapi_url"`
	Token    *Credential `json:"token,omitempty"`
	UserID   string      `json:"user_id,omitempty"`
}

// WithToken returns a copy of u carrying c.
func (u *SystemUser) WithToken(c *Credential) *SystemUser {
	cp := *u
	cp.Token = c
	return &cp
}

// AccessToken returns the current token or "" when the user has no credential.
func (u *SystemUser) AccessToken() string {
	if u == nil || u.Token == nil {
		return ""
	}
	return u.Token.AccessToken
}

// Identity returns the view used to build an execution context.
func (u *SystemUser) Identity() execctx.SystemIdentity {
	return execctx.SystemIdentity{
		TenantID: u.TenantID,
		OkapiURL: u.OkapiURL,
		Token:    u.AccessToken(),
		UserID:   u.UserID,
	}
}

// Context builds the execution context for calls made as u.
// A user without a credential yields a context without a token header.
func Context(u *SystemUser, md execctx.ModuleMetadata) (*execctx.RequestContext, error) {
	return execctx.FromSystemUser(u.Identity(), md)
}
