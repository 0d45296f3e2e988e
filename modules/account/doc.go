// Package account exposes the auth provider over HTTP:
//
//	POST /auth/login     email + password, sets the session cookie
//	POST /auth/logout    revokes the session and clears the cookie
//	GET  /auth/session   current user (requires a session)
//	POST /auth/password  new password (requires a session)
//
// Requests may be url-encoded forms, JSON or Datastar signals. Bearer
// tokens in the Authorization header are accepted alongside the cookie.
package account
