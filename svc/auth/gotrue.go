package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoTrueProvider talks to a Supabase/GoTrue auth server.
type GoTrueProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type GoTrueOption func(*GoTrueProvider)

func WithHTTPClient(c *http.Client) GoTrueOption {
	return func(p *GoTrueProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// NewGoTrueProvider creates a provider for the auth API at baseURL
// (for Supabase: https://<project>.supabase.co/auth/v1).
func NewGoTrueProvider(baseURL, apiKey string, opts ...GoTrueOption) *GoTrueProvider {
	if baseURL == "" {
		panic("auth: GoTrue base URL is required")
	}
	p := &GoTrueProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type gotrueUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u gotrueUser) user() User {
	return User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type gotrueSession struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	RefreshToken string     `json:"refresh_token"`
	User         gotrueUser `json:"user"`
}

// gotrueError covers both the OAuth-style and the newer error bodies.
type gotrueError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
}

func (e gotrueError) message() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Error, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (p *GoTrueProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var out gotrueSession
	if err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &out); err != nil {
		return nil, err
	}

	s := &Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    out.TokenType,
		User:         out.User.user(),
	}
	switch {
	case out.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(out.ExpiresAt, 0).UTC()
	case out.ExpiresIn > 0:
		s.ExpiresAt = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second).UTC()
	}
	return s, nil
}

// GetSession resolves the user behind accessToken. ExpiresAt comes from the
// token's exp claim, parsed unverified.
func (p *GoTrueProvider) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrSessionNotFound
	}

	var u gotrueUser
	if err := p.do(ctx, http.MethodGet, "/user", accessToken, nil, &u); err != nil {
		return nil, err
	}

	s := &Session{AccessToken: accessToken, TokenType: "bearer", User: u.user()}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err == nil && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.UTC()
	}
	return s, nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrSessionNotFound
	}
	return p.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (p *GoTrueProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) (*User, error) {
	if accessToken == "" {
		return nil, ErrSessionNotFound
	}
	if err := ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	var u gotrueUser
	if err := p.do(ctx, http.MethodPut, "/user", accessToken, map[string]string{"password": newPassword}, &u); err != nil {
		return nil, err
	}
	user := u.user()
	return &user, nil
}

func (p *GoTrueProvider) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("auth: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrProviderUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrProviderUnavailable, err)
	}
	return nil
}

func statusError(status int, raw []byte) error {
	var e gotrueError
	_ = json.Unmarshal(raw, &e)
	msg := e.message()
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case e.Error == "invalid_grant" || e.ErrorCode == "invalid_credentials":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	case e.ErrorCode == "weak_password" || e.ErrorCode == "same_password":
		return fmt.Errorf("%w: %s", ErrWeakPassword, msg)
	case status == http.StatusBadRequest && strings.EqualFold(msg, "Invalid login credentials"):
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case status == http.StatusNotFound && e.ErrorCode == "session_not_found":
		return fmt.Errorf("%w: %s", ErrSessionNotFound, msg)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, status, msg)
	}
	return errors.New("auth: " + msg)
}
