package render

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/n0madic/go-jwtinfo/internal/jwt"
)

func makeJWT(claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, _ := json.Marshal(claims)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".c2ln"
}

func TestDocument(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok := jwt.New(makeJWT(map[string]any{
		"sub": "user",
		"aud": "api",
		"iat": now.Unix() - 60,
		"exp": now.Unix() + 3600,
	}))

	doc, err := Document(tok, now)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.ValidBytes(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}

	checks := map[string]string{
		"header.alg":                "HS256",
		"payload.sub":               "user",
		"signature":                 "c2ln",
		"claims.subject":            "user",
		"claims.audience.0":         "api",
		"claims.expires_at":         "2023-11-14T23:13:20Z",
		"claims.expires_in_seconds": "3600",
		"claims.expired":            "false",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(doc, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if gjson.GetBytes(doc, "error").Exists() {
		t.Errorf("unexpected error field: %s", doc)
	}
}

func TestDocumentMalformed(t *testing.T) {
	doc, err := Document(jwt.New("only.two"), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if gjson.GetBytes(doc, "header").Type != gjson.Null {
		t.Errorf("header should be null: %s", doc)
	}
	if !strings.Contains(gjson.GetBytes(doc, "error").String(), "three") {
		t.Errorf("error field missing: %s", doc)
	}
}

func TestJSONAndYAML(t *testing.T) {
	doc := []byte(`{"header":{"alg":"none"},"claims":{"expired":true,"issued_at":"2024-01-01T00:00:00Z"}}`)

	out := JSON(doc, false)
	if !strings.Contains(string(out), "\n  \"header\"") {
		t.Errorf("expected indented JSON, got %s", out)
	}
	if colored := JSON(doc, true); !strings.Contains(string(colored), "\x1b[") {
		t.Error("expected ANSI escapes in colored output")
	}

	y, err := YAML(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(y), "header:\n  alg: none\nclaims:\n  expired: true\n") {
		t.Errorf("unexpected YAML layout:\n%s", y)
	}
	var back struct {
		Claims struct {
			IssuedAt any `yaml:"issued_at"`
		} `yaml:"claims"`
	}
	if err := yaml.Unmarshal(y, &back); err != nil {
		t.Fatal(err)
	}
	if _, ok := back.Claims.IssuedAt.(string); !ok {
		t.Errorf("issued_at lost its string type: %T", back.Claims.IssuedAt)
	}
}

func TestText(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok := jwt.New(makeJWT(map[string]any{"sub": "user", "aud": []string{"a", "b"}, "exp": now.Unix() - 120}))

	var b strings.Builder
	if err := Text(&b, tok, now); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"Algorithm: HS256", "Subject: user", "Audience: a, b", "(2m ago)", "Status: expired", `"sub": "user"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	b.Reset()
	if err := Text(&b, jwt.New("bad"), now); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "Unreadable token") {
		t.Errorf("unexpected output for malformed token: %s", b.String())
	}
}

func TestStatusLabel(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tests := []struct {
		claims map[string]any
		want   string
	}{
		{claims: map[string]any{}, want: "active"},
		{claims: map[string]any{"exp": now.Unix()}, want: "expired"},
		{claims: map[string]any{"nbf": now.Unix() + 5}, want: "not yet valid"},
	}
	for _, tt := range tests {
		if got := StatusLabel(jwt.New(makeJWT(tt.claims)), now); got != tt.want {
			t.Errorf("%v: got %q, want %q", tt.claims, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{30 * time.Second, "under 1m"},
		{5 * time.Minute, "5m"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{49*time.Hour + time.Minute, "2d 1h 1m"},
		{-time.Hour, "0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
	now := time.Unix(0, 0)
	if got := Relative(now.Add(90*time.Minute), now); got != "in 1h 30m" {
		t.Errorf("Relative future = %q", got)
	}
}

func TestValue(t *testing.T) {
	tok := jwt.New(makeJWT(map[string]any{"s": "plain", "o": map[string]any{"k": 1}}))
	s, _ := tok.Claim("s")
	if got := Value(s); got != "plain" {
		t.Errorf("Value(string) = %q", got)
	}
	o, _ := tok.Claim("o")
	if got := Value(o); got != "{\n  \"k\": 1\n}" {
		t.Errorf("Value(object) = %q", got)
	}
}
