// Package auth delegates user sessions to an identity provider.
//
// GoTrueProvider speaks the Supabase/GoTrue REST API. MemoryProvider keeps
// bcrypt-hashed users in memory and issues HS256 JWT access tokens; it backs
// local development and tests.
//
// HTTP handlers use TokenFromRequest, SetSessionCookie and the RequireSession
// middleware, which places the resolved *Session in the request context:
//
//	r.With(auth.RequireSession(provider)).Post("/auth/password", h)
//	s := auth.SessionFromContext(r.Context())
package auth
