package auth

import "errors"

var (
	ErrNoCredentials = errors.New("no credentials found; sign in with the Codex CLI first")
	ErrTokenExpired  = errors.New("stored access token has expired")
)
