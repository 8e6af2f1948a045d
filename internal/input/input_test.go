package input

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/n0madic/go-jwtinfo/internal/jwt"
)

const sample = "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0.sig"

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bare", input: sample},
		{name: "bare with newline", input: "  " + sample + "\n"},
		{name: "bearer", input: "Bearer " + sample},
		{name: "lowercase bearer", input: "bearer   " + sample},
		{name: "json string", input: `"` + sample + `"`},
		{name: "json object", input: `{"token": "` + sample + `"}`},
		{name: "yaml mapping", input: "token: " + sample + "\n"},
		{name: "yaml document", input: "---\ntoken: " + sample + "\n"},
		{name: "yaml scalar document", input: "--- " + sample + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.String() != sample {
				t.Errorf("got %q, want %q", tok.String(), sample)
			}
			if sub, ok := tok.Subject(); !ok || sub != "x" {
				t.Errorf("Subject = %q, %v", sub, ok)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n", `{}`, `{"token": null}`, `""`, "token:\n"} {
		if _, err := Parse([]byte(input)); !errors.Is(err, ErrEmpty) {
			t.Errorf("%q: expected ErrEmpty, got %v", input, err)
		}
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"token": 5}`)); err == nil {
		t.Error("expected error for numeric token field")
	}
}

func TestParseAppliesOptions(t *testing.T) {
	tok, err := Parse([]byte(`{"token":"`+sample+`"}`), jwt.WithStrict())
	if err != nil {
		t.Fatal(err)
	}
	if !tok.Strict() {
		t.Error("strict option lost")
	}
}

func TestRead(t *testing.T) {
	tok, err := Read(strings.NewReader(sample + "\n"))
	if err != nil || tok.String() != sample {
		t.Fatalf("Read = %q, %v", tok.String(), err)
	}

	big := bytes.Repeat([]byte("a"), MaxTokenSize+1)
	if _, err := Read(bytes.NewReader(big)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}
