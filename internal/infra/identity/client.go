// Package identity is the HTTP client for the hosted identity provider
// (a GoTrue-style auth API). Admin endpoints are authorized with the
// service key, end-user flows with the anon key.
package identity

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
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("identity user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidGrant       = errors.New("invalid grant")
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d", e.Op, e.StatusCode)
	default:
		return e.Op
	}
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type Config struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	trimmedBaseURL := strings.TrimSpace(cfg.BaseURL)
	if trimmedBaseURL == "" {
		return nil, &RequestError{Op: "create identity client", Err: errors.New("base url is empty")}
	}

	parsed, err := url.Parse(trimmedBaseURL)
	if err != nil {
		return nil, &RequestError{Op: "parse identity base url", Err: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RequestError{Op: "validate identity base url", Err: fmt.Errorf("invalid base url: %s", trimmedBaseURL)}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(trimmedBaseURL, "/"),
		anonKey:    strings.TrimSpace(cfg.AnonKey),
		serviceKey: strings.TrimSpace(cfg.ServiceKey),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// LookupUserByEmail finds a user via the admin listing endpoint. Email
// matching is case-insensitive regardless of how the provider stores it.
func (c *Client) LookupUserByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, &RequestError{Op: "lookup user", Err: errors.New("email is empty")}
	}

	endpoint := c.baseURL + "/admin/users?email=" + url.QueryEscape(email)
	var listing struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, c.serviceKey, &listing); err != nil {
		return User{}, err
	}

	for _, u := range listing.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// CreateUser provisions an auto-confirmed identity with no password. The
// customer reference from the payment processor is kept in user metadata.
func (c *Client) CreateUser(ctx context.Context, email, customerRef string) (User, error) {
	body := map[string]any{
		"email":         strings.ToLower(strings.TrimSpace(email)),
		"email_confirm": true,
		"user_metadata": map[string]any{
			"stripe_customer_id": customerRef,
		},
	}

	var user User
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/admin/users", body, c.serviceKey, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// PasswordGrant exchanges email/password credentials for a session.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (Session, error) {
	body := map[string]any{
		"email":    strings.ToLower(strings.TrimSpace(email)),
		"password": password,
	}

	var session Session
	err := c.do(ctx, http.MethodPost, c.baseURL+"/token?grant_type=password", body, c.anonKey, &session)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && (reqErr.StatusCode == http.StatusBadRequest || reqErr.StatusCode == http.StatusUnauthorized) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	return session, nil
}

// RefreshGrant rotates a session from its refresh token.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (Session, error) {
	body := map[string]any{
		"refresh_token": refreshToken,
	}

	var session Session
	err := c.do(ctx, http.MethodPost, c.baseURL+"/token?grant_type=refresh_token", body, c.anonKey, &session)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusBadRequest {
			return Session{}, ErrInvalidGrant
		}
		return Session{}, err
	}
	return session, nil
}

// ExchangeCode trades a one-time authorization code (from a login link
// redirect) for a session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (Session, error) {
	body := map[string]any{
		"auth_code": strings.TrimSpace(code),
	}

	var session Session
	err := c.do(ctx, http.MethodPost, c.baseURL+"/token?grant_type=pkce", body, c.anonKey, &session)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusBadRequest {
			return Session{}, ErrInvalidGrant
		}
		return Session{}, err
	}
	return session, nil
}

// SendMagicLink asks the provider to email a single-use login link.
// create_user is always false: link issuance must never provision accounts,
// entitlement provisioning is the payment webhook's job.
func (c *Client) SendMagicLink(ctx context.Context, email, redirectTo string) error {
	endpoint := c.baseURL + "/otp"
	if redirectTo != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	body := map[string]any{
		"email":       strings.ToLower(strings.TrimSpace(email)),
		"create_user": false,
	}

	return c.do(ctx, http.MethodPost, endpoint, body, c.anonKey, nil)
}

// SignOut revokes the session behind the given access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return &RequestError{Op: "sign out", Err: err}
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: "sign out", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return &RequestError{Op: "sign out", StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, key string, target any) error {
	op := fmt.Sprintf("%s %s", method, strings.TrimPrefix(endpoint, c.baseURL))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("marshal request body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(msg))),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
