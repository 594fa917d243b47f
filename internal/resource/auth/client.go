// Package auth wraps the Auth/* endpoints and drives the session manager
// through the login/profile/logout transitions.
package auth

import (
	"context"
	"log"
	"net/http"

	"admindash-sync/internal/domain"
	"admindash-sync/internal/session"
	"admindash-sync/internal/transport"
)

type Client struct {
	http    *transport.Client
	session *session.Manager
	logger  *log.Logger
}

func New(http *transport.Client, sess *session.Manager, logger *log.Logger) *Client {
	return &Client{http: http, session: sess, logger: logger}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginResponse struct {
	Token        string                 `json:"token"`
	RefreshToken string                 `json:"refreshToken"`
	User         domain.ApplicationUser `json:"user"`
}

// Login exchanges credentials for tokens and populates the session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*domain.ApplicationUser, error) {
	c.session.BeginLogin()
	var resp loginResponse
	if err := c.http.Do(ctx, http.MethodPost, "Auth/login", creds, &resp); err != nil {
		c.session.FailLogin(err)
		return nil, err
	}
	user := resp.User
	if err := c.session.CompleteLogin(&user, resp.Token, resp.RefreshToken); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new admin account. It does not log the account in.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.http.Do(ctx, http.MethodPost, "Auth/register", in, nil)
}

// Profile fetches the current user. A 401 clears the session (session
// expired); any other failure leaves it untouched.
func (c *Client) Profile(ctx context.Context) (*domain.ApplicationUser, error) {
	var user domain.ApplicationUser
	if err := c.http.Get(ctx, "Auth/profile", &user); err != nil {
		c.session.HandleProfileError(err)
		return nil, err
	}
	c.session.SetUser(&user)
	return &user, nil
}

// Logout invalidates the session server-side and clears local state.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.http.Do(ctx, http.MethodPost, "Auth/logout", nil, nil); err != nil {
		return err
	}
	return c.session.Clear()
}
