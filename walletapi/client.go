// Package walletapi exposes the RosePay API operations as typed methods.
// Every call is a stateless pass-through via the gateway: no caching, no
// retries; a failed query is the caller's to handle.
package walletapi

import (
	"context"

	"github.com/rosepay/client-go/domain"
	"github.com/rosepay/client-go/gateway"
	"github.com/rosepay/client-go/session"
)

// Client groups the API operations around a gateway and the session store.
type Client struct {
	gw       *gateway.Gateway
	sessions session.Store
}

func NewClient(gw *gateway.Gateway, sessions session.Store) *Client {
	return &Client{gw: gw, sessions: sessions}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	var user domain.User
	err := c.gw.Post(ctx, "/users/register", registerRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and persists the returned credential in the session
// store. The login flow is the only writer of the session besides the
// gateway's authorization-failure handler.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Credential, error) {
	var resp loginResponse
	err := c.gw.Post(ctx, "/users/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	cred := domain.Credential{Token: resp.AccessToken, User: resp.User}
	if err := c.sessions.Set(cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Logout discards all persisted credential material. Purely local: the API
// has no logout endpoint, tokens simply lapse server-side.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// CurrentUser returns the identity attached to the stored credential.
func (c *Client) CurrentUser() (domain.User, bool) {
	cred, ok := c.sessions.Get()
	return cred.User, ok
}

// IsAuthenticated reports whether a credential is currently stored.
func (c *Client) IsAuthenticated() bool {
	return c.sessions.IsAuthenticated()
}
