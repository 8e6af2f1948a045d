package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/n0madic/go-jwtinfo/internal/jwt"
)

func TestOAuth2Token(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	td := TokenData{
		IDToken:      jwt.New(makeJWT(map[string]any{"email": "a@b.c"})),
		AccessToken:  jwt.New(makeJWT(map[string]any{"exp": exp.Unix()})),
		RefreshToken: "rt",
	}

	tok := OAuth2Token(td)
	if tok.AccessToken != td.AccessToken.String() || tok.RefreshToken != "rt" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}
	if !tok.Expiry.Equal(exp) {
		t.Errorf("Expiry = %v, want %v", tok.Expiry, exp)
	}
	if !tok.Valid() {
		t.Error("token expiring in an hour should be valid")
	}
	if tok.Extra("id_token") != td.IDToken.String() {
		t.Errorf("id_token extra = %v", tok.Extra("id_token"))
	}

	noExp := OAuth2Token(TokenData{AccessToken: jwt.New(makeJWT(map[string]any{}))})
	if !noExp.Expiry.IsZero() {
		t.Errorf("expected zero Expiry, got %v", noExp.Expiry)
	}
}

func TestFileTokenSource(t *testing.T) {
	dir := t.TempDir()
	now := time.Unix(1700000000, 0)
	access := makeJWT(map[string]any{"exp": now.Unix() + 600})
	p := writeAuthJSON(t, dir, `{"tokens":{"access_token":"`+access+`"}}`)

	src := &FileTokenSource{Path: p, Now: func() time.Time { return now }}
	tok, err := src.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != access {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}

	src.Now = func() time.Time { return now.Add(time.Hour) }
	if _, err := src.Token(); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}

	empty := writeAuthJSON(t, t.TempDir(), `{"tokens":{}}`)
	if _, err := (&FileTokenSource{Path: empty}).Token(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestNewTokenSourceReusesValidToken(t *testing.T) {
	dir := t.TempDir()
	access := makeJWT(map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
	p := writeAuthJSON(t, dir, `{"tokens":{"access_token":"`+access+`"}}`)

	src := NewTokenSource(p)
	first, err := src.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	// The cached token is served even after the file changes.
	writeAuthJSON(t, dir, `{"tokens":{}}`)
	second, err := src.Token()
	if err != nil {
		t.Fatalf("second Token: %v", err)
	}
	if second.AccessToken != first.AccessToken {
		t.Error("expected cached token")
	}
}
