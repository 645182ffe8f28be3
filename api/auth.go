package api

import (
	"context"
	"encoding/json"

	"github.com/ihdrs/ihdrs-client-go/transport"
)

// Client groups the endpoint wrappers around one pipeline client.
type Client struct {
	http *transport.Client
}

func NewClient(http *transport.Client) *Client {
	return &Client{http: http}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// LoginPayload is the data field of a successful login envelope. UserInfo is
// kept raw: the Manager decodes it into its profile model so unknown
// extension fields survive the round trip to storage.
type LoginPayload struct {
	Token     string          `json:"token"`
	TokenType string          `json:"tokenType"`
	ExpiresIn int64           `json:"expiresIn"`
	UserInfo  json.RawMessage `json:"userInfo"`
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginPayload, error) {
	var payload LoginPayload
	if err := c.http.Post(ctx, "/auth/login", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register calls POST /auth/register and returns the created user record raw.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (json.RawMessage, error) {
	var created json.RawMessage
	if err := c.http.Post(ctx, "/auth/register", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Validate calls GET /auth/validate with the current bearer credential and
// returns the refreshed profile raw.
func (c *Client) Validate(ctx context.Context) (json.RawMessage, error) {
	var profile json.RawMessage
	if err := c.http.Get(ctx, "/auth/validate", nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UserInfo calls GET /users/info.
func (c *Client) UserInfo(ctx context.Context) (json.RawMessage, error) {
	var profile json.RawMessage
	if err := c.http.Get(ctx, "/users/info", nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}
