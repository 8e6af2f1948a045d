package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// OAuth2Token converts stored tokens into an oauth2.Token. Expiry comes from
// the access token's exp claim and stays zero when the claim is absent.
func OAuth2Token(td TokenData) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  td.AccessToken.String(),
		TokenType:    "Bearer",
		RefreshToken: td.RefreshToken,
	}
	if exp, ok := td.AccessToken.ExpiresAt(); ok {
		tok.Expiry = exp
	}
	if raw, ok := td.IDToken.Raw(); ok {
		tok = tok.WithExtra(map[string]any{"id_token": raw})
	}
	return tok
}

// FileTokenSource serves the access token stored in an auth.json. It never
// refreshes; an expired token yields ErrTokenExpired.
type FileTokenSource struct {
	// Path to auth.json. Empty means search the default locations.
	Path string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Token implements oauth2.TokenSource.
func (s *FileTokenSource) Token() (*oauth2.Token, error) {
	var (
		af  *AuthFile
		err error
	)
	if s.Path != "" {
		af, err = ReadAuthFileAt(s.Path)
	} else {
		af, err = ReadAuthFile()
	}
	if err != nil {
		return nil, err
	}
	if af.Tokens.AccessToken.IsZero() {
		return nil, ErrNoCredentials
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if af.Tokens.AccessToken.ExpiredAt(now()) {
		return nil, ErrTokenExpired
	}
	return OAuth2Token(af.Tokens), nil
}

// NewTokenSource returns a caching TokenSource over the auth file at path.
func NewTokenSource(path string) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &FileTokenSource{Path: path})
}
