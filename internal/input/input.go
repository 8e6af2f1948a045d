// Package input loads a token from user-supplied bytes: a bare compact JWT,
// a JSON string or {"token": ...} object, or a YAML document with a token key.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/n0madic/go-jwtinfo/internal/jwt"
)

// MaxTokenSize bounds how much input Read accepts.
const MaxTokenSize = 1 << 20

var (
	ErrEmpty    = errors.New("no token found in input")
	ErrTooLarge = fmt.Errorf("input exceeds %d bytes", MaxTokenSize)
)

// Read reads at most MaxTokenSize bytes from r and parses them.
func Read(r io.Reader, opts ...jwt.Option) (jwt.Token, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTokenSize+1))
	if err != nil {
		return jwt.Token{}, err
	}
	if len(data) > MaxTokenSize {
		return jwt.Token{}, ErrTooLarge
	}
	return Parse(data, opts...)
}

// Parse detects the input shape and returns the token it holds. opts apply
// to the returned token regardless of the shape it was read from.
func Parse(data []byte, opts ...jwt.Option) (jwt.Token, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return jwt.Token{}, ErrEmpty
	}

	var tok jwt.Token
	switch {
	case trimmed[0] == '{' || trimmed[0] == '"':
		if err := json.Unmarshal(trimmed, &tok); err != nil {
			return jwt.Token{}, fmt.Errorf("decode JSON token: %w", err)
		}
	case isYAML(trimmed):
		if err := yaml.Unmarshal(trimmed, &tok); err != nil {
			return jwt.Token{}, fmt.Errorf("decode YAML token: %w", err)
		}
	default:
		tok = jwt.New(stripBearer(string(trimmed)))
	}

	raw, ok := tok.Raw()
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return jwt.Token{}, ErrEmpty
	}
	return jwt.New(raw, opts...), nil
}

func isYAML(data []byte) bool {
	return bytes.HasPrefix(data, []byte("---")) || bytes.HasPrefix(data, []byte("token:"))
}

func stripBearer(s string) string {
	if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
