package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/n0madic/go-jwtinfo/internal/jwt"
)

// Document builds a JSON document describing tok: the decoded header and
// payload, the raw signature and the standard claims in readable form.
// Segments that cannot be decoded are rendered as null and the reason is
// stored under "error".
func Document(tok jwt.Token, now time.Time) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, v)
		}
	}
	setRaw := func(path, raw string) {
		if err == nil {
			doc, err = sjson.SetRawBytes(doc, path, []byte(raw))
		}
	}

	if h, ok := tok.Header(); ok {
		setRaw("header", h.Raw())
	} else {
		setRaw("header", "null")
	}
	if b, ok := tok.Body(); ok {
		setRaw("payload", b.Raw())
	} else {
		setRaw("payload", "null")
	}
	if sig, ok := tok.Signature(); ok {
		set("signature", sig)
	} else {
		setRaw("signature", "null")
	}

	if v, ok := tok.Subject(); ok {
		set("claims.subject", v)
	}
	if v, ok := tok.Issuer(); ok {
		set("claims.issuer", v)
	}
	if v, ok := tok.Audience(); ok {
		set("claims.audience", v)
	}
	if v, ok := tok.Identifier(); ok {
		set("claims.id", v)
	}
	if v, ok := tok.IssuedAt(); ok {
		set("claims.issued_at", v.UTC().Format(time.RFC3339))
	}
	if v, ok := tok.NotBefore(); ok {
		set("claims.not_before", v.UTC().Format(time.RFC3339))
	}
	if v, ok := tok.ExpiresAt(); ok {
		set("claims.expires_at", v.UTC().Format(time.RFC3339))
		set("claims.expires_in_seconds", int64(v.Sub(now)/time.Second))
	}
	set("claims.expired", tok.ExpiredAt(now))

	if checkErr := tok.Check(); checkErr != nil {
		set("error", checkErr.Error())
	}
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	return doc, nil
}

// JSON indents doc and optionally adds ANSI colors.
func JSON(doc []byte, color bool) []byte {
	out := pretty.Pretty(doc)
	if color {
		out = pretty.Color(out, nil)
	}
	return out
}

// YAML converts doc to block-style YAML, keeping key order.
func YAML(doc []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(doc, &node); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	blockStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Value renders a single claim value for -path output: strings unquoted,
// everything else as indented JSON.
func Value(v jwt.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(v.Raw()), "", "  "); err != nil {
		return strings.TrimSpace(v.Raw())
	}
	return buf.String()
}
