package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludigital/cadastro/svc/auth"
)

const testAPIKey = "anon-key"

// fakeGoTrue mimics the subset of the GoTrue API the provider uses.
func fakeGoTrue(t *testing.T, token string) *httptest.Server {
	t.Helper()

	user := map[string]any{
		"id":         "8d6f0b5e-0000-4000-8000-000000000001",
		"email":      "maria@example.com",
		"created_at": "2024-01-02T03:04:05.123456Z",
		"updated_at": "2024-01-02T03:04:05.123456Z",
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authorized := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer "+token
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body struct{ Email, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "correct-horse" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  token,
			"token_type":    "bearer",
			"expires_in":    3600,
			"expires_at":    time.Now().Add(time.Hour).Unix(),
			"refresh_token": "refresh",
			"user":          user,
		})
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "error_code": "bad_jwt", "msg": "invalid JWT"})
			return
		}
		writeJSON(w, http.StatusOK, user)
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /user", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body struct{ Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password == "same-password" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"code": 422, "error_code": "same_password", "msg": "New password should be different from the old password."})
			return
		}
		writeJSON(w, http.StatusOK, user)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "8d6f0b5e-0000-4000-8000-000000000001",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return tok
}

func TestGoTrueProvider_SignIn(t *testing.T) {
	t.Parallel()
	token := signedToken(t, time.Now().Add(time.Hour))
	srv := fakeGoTrue(t, token)
	p := auth.NewGoTrueProvider(srv.URL+"/", testAPIKey)
	ctx := context.Background()

	s, err := p.SignInWithPassword(ctx, "maria@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, token, s.AccessToken)
	assert.Equal(t, "refresh", s.RefreshToken)
	assert.Equal(t, "maria@example.com", s.User.Email)
	assert.False(t, s.Expired(time.Now()))

	_, err = p.SignInWithPassword(ctx, "maria@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestGoTrueProvider_GetSession(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := signedToken(t, exp)
	srv := fakeGoTrue(t, token)
	p := auth.NewGoTrueProvider(srv.URL, testAPIKey)
	ctx := context.Background()

	s, err := p.GetSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "8d6f0b5e-0000-4000-8000-000000000001", s.User.ID)
	assert.True(t, exp.Equal(s.ExpiresAt))

	_, err = p.GetSession(ctx, "stale")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = p.GetSession(ctx, "")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestGoTrueProvider_SignOutAndUpdate(t *testing.T) {
	t.Parallel()
	token := signedToken(t, time.Now().Add(time.Hour))
	srv := fakeGoTrue(t, token)
	p := auth.NewGoTrueProvider(srv.URL, testAPIKey)
	ctx := context.Background()

	assert.NoError(t, p.SignOut(ctx, token))
	assert.ErrorIs(t, p.SignOut(ctx, "stale"), auth.ErrUnauthorized)

	u, err := p.UpdatePassword(ctx, token, "battery-staple")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", u.Email)

	_, err = p.UpdatePassword(ctx, token, "short")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	_, err = p.UpdatePassword(ctx, token, "same-password")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	_, err = p.UpdatePassword(ctx, "stale", "battery-staple")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestGoTrueProvider_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	p := auth.NewGoTrueProvider(srv.URL, testAPIKey)

	_, err := p.SignInWithPassword(context.Background(), "maria@example.com", "correct-horse")
	assert.ErrorIs(t, err, auth.ErrProviderUnavailable)

	srv.Close()
	_, err = p.GetSession(context.Background(), "token")
	assert.ErrorIs(t, err, auth.ErrProviderUnavailable)
}
