package systemuser

import (
	"context"
	"errors"
	"time"
)

// Authenticator logs system users in through an AuthClient and turns the
// reported expiry into a Credential.
type Authenticator struct {
	cfg    Config
	client AuthClient
	now    func() time.Time
}

// NewAuthenticator returns an Authenticator for cfg. A nil now uses time.Now.
func NewAuthenticator(cfg Config, client AuthClient, now func() time.Time) *Authenticator {
	if now == nil {
		now = time.Now
	}
	return &Authenticator{cfg: cfg, client: client, now: now}
}

// Authenticate logs in the system user of tenantID and, when configured,
// resolves its user id. It satisfies AuthenticateFunc.
func (a *Authenticator) Authenticate(ctx context.Context, tenantID string) (*SystemUser, error) {
	user := &SystemUser{
		Username: a.cfg.Username,
		TenantID: tenantID,
		OkapiURL: a.cfg.OkapiURL,
	}

	cred, err := a.login(ctx, user)
	if err != nil {
		return nil, err
	}
	user.Token = cred

	if a.cfg.LookupUserID {
		id, err := a.client.LookupUserID(ctx, LookupRequest{
			OkapiURL: user.OkapiURL,
			TenantID: tenantID,
			Token:    cred.AccessToken,
			Username: user.Username,
		})
		if err != nil {
			return nil, err
		}
		user.UserID = id
	}

	return user, nil
}

// Refresh logs user in again and returns a copy with the new credential.
// It satisfies RefreshFunc.
func (a *Authenticator) Refresh(ctx context.Context, user *SystemUser) (*SystemUser, error) {
	cred, err := a.login(ctx, user)
	if err != nil {
		return nil, err
	}
	return user.WithToken(cred), nil
}

func (a *Authenticator) login(ctx context.Context, user *SystemUser) (*Credential, error) {
	issuedAt := a.now()
	resp, err := a.client.Login(ctx, LoginRequest{
		OkapiURL: user.OkapiURL,
		TenantID: user.TenantID,
		Username: user.Username,
		Password: a.cfg.Password,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.AccessToken == "" {
		return nil, errors.Join(ErrAuthorization, ErrNoCredential)
	}

	expiry, err := ParseExpiry(issuedAt, resp.AccessTokenExpiration)
	if err != nil {
		return nil, err
	}
	return &Credential{AccessToken: resp.AccessToken, Expiry: expiry}, nil
}
