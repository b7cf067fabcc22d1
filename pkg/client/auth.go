package client

import (
	"context"
	"net/http"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Me returns the user bound to the current upstream session.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.get(ctx, &u, "/api/auth/me"); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates against the API. On success the session cookie is stored in the jar.
func (c *Client) Login(ctx context.Context, cred Credentials) (*model.User, error) {
	if cred.Username == "" || cred.Password == "" {
		return nil, Validation("Username and password are required")
	}
	var u model.User
	if err := c.post(ctx, cred, &u, "/api/auth/login"); err != nil {
		return nil, err
	}
	if u.Username == "" {
		u.Username = cred.Username
	}
	return &u, nil
}

// Logout ends the upstream session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, nil, nil, "/api/auth/logout")
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, in model.NewUser) (*model.User, error) {
	var u model.User
	if err := c.post(ctx, in, &u, "/api/auth/register"); err != nil {
		return nil, err
	}
	return &u, nil
}
