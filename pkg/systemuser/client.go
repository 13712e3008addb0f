package systemuser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/okapikit/pkg/okapi"
)

const (
	loginPath       = "/authn/login-with-expiry"
	usersPath       = "/users"
	accessCookie    = "folioAccessToken"
	maxErrorBodyLen = 512
)

type (
	// LoginRequest identifies the user to log in and where.
	LoginRequest struct {
		OkapiURL string
		TenantID string
		Username string
		Password string
	}

	// LoginResponse is the outcome of a successful login. AccessTokenExpiration
	// is the raw RFC 3339 expiry reported by the identity service.
	LoginResponse struct {
		AccessToken           string
		AccessTokenExpiration string
	}

	// LookupRequest identifies the user record to resolve.
	LookupRequest struct {
		OkapiURL string
		TenantID string
		Token    string
		Username string
	}

	// AuthClient talks to the identity service.
	AuthClient interface {
		Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
		LookupUserID(ctx context.Context, req LookupRequest) (string, error)
	}
)

// HTTPAuthClient is the AuthClient for the authn and users endpoints
// reached through the okapi gateway.
type HTTPAuthClient struct {
	httpClient *http.Client
}

var _ AuthClient = (*HTTPAuthClient)(nil)

// NewHTTPAuthClient returns a client that sends requests with httpClient.
// A nil httpClient uses http.DefaultClient.
func NewHTTPAuthClient(httpClient *http.Client) *HTTPAuthClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPAuthClient{httpClient: httpClient}
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	AccessTokenExpiration  string `json:"accessTokenExpiration"`
	RefreshTokenExpiration string `json:"refreshTokenExpiration"`
}

// Login posts the credentials to /authn/login-with-expiry. The access token is
// read from the folioAccessToken cookie, falling back to the x-okapi-token
// response header.
func (c *HTTPAuthClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	body, err := json.Marshal(loginBody{Username: req.Username, Password: req.Password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(req.OkapiURL, loginPath), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(ErrAuthorization, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header[okapi.Tenant] = []string{req.TenantID}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Join(ErrAuthorization, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Join(ErrAuthorization, statusError("login", resp))
	}

	var result loginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Join(ErrAuthorization, fmt.Errorf("failed to decode login response: %w", err))
	}

	token := ""
	for _, cookie := range resp.Cookies() {
		if cookie.Name == accessCookie {
			token = cookie.Value
			break
		}
	}
	if token == "" {
		token = resp.Header.Get(okapi.Token)
	}
	if token == "" {
		return nil, errors.Join(ErrAuthorization, ErrNoCredential)
	}

	return &LoginResponse{
		AccessToken:           token,
		AccessTokenExpiration: result.AccessTokenExpiration,
	}, nil
}

type usersResult struct {
	Users []struct {
		ID string `json:"id"`
	} `json:"users"`
	TotalRecords int `json:"totalRecords"`
}

// LookupUserID resolves the id of the user record named req.Username.
func (c *HTTPAuthClient) LookupUserID(ctx context.Context, req LookupRequest) (string, error) {
	query := url.Values{}
	query.Set("query", "username=="+cqlQuote(req.Username))
	target := endpoint(req.OkapiURL, usersPath) + "?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header[okapi.Tenant] = []string{req.TenantID}
	if req.Token != "" {
		httpReq.Header[okapi.Token] = []string{req.Token}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errors.Join(ErrAuthorization, statusError("user lookup", resp))
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError("user lookup", resp)
	}

	var result usersResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode users response: %w", err)
	}
	if len(result.Users) == 0 || result.Users[0].ID == "" {
		return "", ErrUserNotFound
	}
	return result.Users[0].ID, nil
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s failed with status %d", op, resp.StatusCode)
	}
	return fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode, msg)
}

// cqlQuote renders v as a quoted CQL term that matches v literally.
func cqlQuote(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '\\', '"', '*', '?', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
