package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/n0madic/go-jwtinfo/internal/jwt"
)

const (
	authFilename = "auth.json"
	authClaimKey = "https://api.openai.com/auth"
)

// TokenData represents the tokens stored in auth.json. The JWT fields accept
// either a bare string or a {"token": "..."} object.
type TokenData struct {
	IDToken      jwt.Token `json:"id_token"`
	AccessToken  jwt.Token `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccountID    string    `json:"account_id"`
}

// AuthFile represents the full auth.json contents.
type AuthFile struct {
	Tokens      TokenData `json:"tokens"`
	LastRefresh string    `json:"last_refresh"`
}

// HomeDir returns the preferred auth storage directory path.
func HomeDir() string {
	for _, key := range []string{"JWTINFO_HOME", "CHATGPT_LOCAL_HOME", "CODEX_HOME"} {
		if d := os.Getenv(key); d != "" {
			return d
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatgpt-local")
}

func candidateDirs() []string {
	home, _ := os.UserHomeDir()
	return []string{
		os.Getenv("JWTINFO_HOME"),
		os.Getenv("CHATGPT_LOCAL_HOME"),
		os.Getenv("CODEX_HOME"),
		filepath.Join(home, ".chatgpt-local"),
		filepath.Join(home, ".codex"),
	}
}

// AuthFilePath returns the first existing auth.json among the known locations.
func AuthFilePath() (string, error) {
	for _, base := range candidateDirs() {
		if base == "" {
			continue
		}
		p := filepath.Join(base, authFilename)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNoCredentials
}

// WatchTarget returns path when set, otherwise the existing auth.json, or the
// location under HomeDir where one would be written.
func WatchTarget(path string) string {
	if path != "" {
		return path
	}
	if p, err := AuthFilePath(); err == nil {
		return p
	}
	return filepath.Join(HomeDir(), authFilename)
}

// ReadAuthFile searches known locations for auth.json.
func ReadAuthFile() (*AuthFile, error) {
	for _, base := range candidateDirs() {
		if base == "" {
			continue
		}
		af, err := ReadAuthFileAt(filepath.Join(base, authFilename))
		if err != nil {
			continue
		}
		return af, nil
	}
	return nil, ErrNoCredentials
}

// ReadAuthFileAt reads and decodes a specific auth.json.
func ReadAuthFileAt(path string) (*AuthFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var af AuthFile
	if err := json.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return &af, nil
}

func authClaims(tok jwt.Token) (jwt.Claims, bool) {
	v, ok := tok.Claim(authClaimKey)
	if !ok {
		return jwt.Claims{}, false
	}
	return v.AsObject()
}

func authClaimString(tok jwt.Token, key string) string {
	claims, ok := authClaims(tok)
	if !ok {
		return ""
	}
	v, ok := claims.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// DeriveAccountID extracts the ChatGPT account ID from an id_token's claims.
func DeriveAccountID(idToken jwt.Token) string {
	return authClaimString(idToken, "chatgpt_account_id")
}

var planNames = map[string]string{
	"plus": "Plus", "pro": "Pro", "free": "Free", "team": "Team", "enterprise": "Enterprise",
}

// PlanName returns a display name for the chatgpt_plan_type claim.
func PlanName(access jwt.Token) string {
	raw := authClaimString(access, "chatgpt_plan_type")
	if raw == "" {
		return "Unknown"
	}
	if name, ok := planNames[strings.ToLower(raw)]; ok {
		return name
	}
	r, size := utf8.DecodeRuneInString(raw)
	return string(unicode.ToUpper(r)) + raw[size:]
}

// Status summarizes the credentials in an auth file at a point in time.
type Status struct {
	SignedIn     bool      `json:"signed_in"`
	Email        string    `json:"email,omitempty"`
	Plan         string    `json:"plan,omitempty"`
	AccountID    string    `json:"account_id,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	Expired      bool      `json:"expired"`
	NeedsRefresh bool      `json:"needs_refresh"`
}

// Describe derives a Status from the tokens in af.
func Describe(af *AuthFile, now time.Time) Status {
	if af == nil {
		return Status{}
	}
	td := af.Tokens
	if td.AccessToken.IsZero() || td.IDToken.IsZero() {
		return Status{}
	}

	st := Status{
		SignedIn:     true,
		Plan:         PlanName(td.AccessToken),
		AccountID:    td.AccountID,
		Expired:      td.AccessToken.ExpiredAt(now),
		NeedsRefresh: NeedsRefresh(td.AccessToken, af.LastRefresh, now),
	}
	if email, ok := td.IDToken.Claim("email"); ok {
		st.Email, _ = email.AsString()
	}
	if st.Email == "" {
		if name, ok := td.IDToken.Claim("preferred_username"); ok {
			st.Email, _ = name.AsString()
		}
	}
	if st.AccountID == "" {
		st.AccountID = DeriveAccountID(td.IDToken)
	}
	if exp, ok := td.AccessToken.ExpiresAt(); ok {
		st.ExpiresAt = exp
	}
	return st
}

// NeedsRefresh reports whether the access token should be refreshed: it is
// missing, expires within five minutes, or carries no exp and the last
// refresh is at least 55 minutes old.
func NeedsRefresh(access jwt.Token, lastRefresh string, now time.Time) bool {
	if raw, ok := access.Raw(); !ok || raw == "" {
		return true
	}

	if expiry, ok := access.ExpiresAt(); ok {
		return expiry.Sub(now) <= 5*time.Minute
	}

	if lastRefresh != "" {
		t, err := time.Parse(time.RFC3339, lastRefresh)
		if err == nil {
			return now.Sub(t) >= 55*time.Minute
		}
	}

	return false
}
