package jwt

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Segment identifies one of the three dot-separated parts of a compact JWT.
type Segment int

const (
	SegmentHeader Segment = iota
	SegmentBody
	SegmentSignature
)

func (s Segment) String() string {
	switch s {
	case SegmentHeader:
		return "header"
	case SegmentBody:
		return "body"
	case SegmentSignature:
		return "signature"
	}
	return fmt.Sprintf("segment(%d)", int(s))
}

// SplitSegments splits a compact token on '.' and reports whether exactly
// three parts were found.
func SplitSegments(token string) ([3]string, bool) {
	var out [3]string
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return out, false
	}
	copy(out[:], parts)
	return out, true
}

// PadToMultipleOfFour appends '=' until the byte length is a multiple of four.
func PadToMultipleOfFour(s string) string {
	if m := len(s) % 4; m != 0 {
		return s + strings.Repeat("=", 4-m)
	}
	return s
}

// DecodeSegment reverses base64url encoding of a header or body segment.
// Characters outside the base64 alphabet are skipped.
func DecodeSegment(segment string) ([]byte, bool) {
	data, err := decodeSegment(segment, false)
	return data, err == nil
}

func decodeSegment(segment string, strict bool) ([]byte, error) {
	std := strings.NewReplacer("-", "+", "_", "/").Replace(segment)
	padded := PadToMultipleOfFour(std)

	if strict {
		if i := strings.IndexAny(segment, "+/="); i >= 0 {
			return nil, fmt.Errorf("%w: illegal character %q at offset %d", ErrBase64, segment[i], i)
		}
		data, err := base64.StdEncoding.Strict().DecodeString(padded)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBase64, err)
		}
		if len(data) == 0 {
			return nil, ErrBase64
		}
		return data, nil
	}

	data, err := base64.RawStdEncoding.DecodeString(filterAlphabet(padded))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBase64, err)
	}
	if len(data) == 0 {
		return nil, ErrBase64
	}
	return data, nil
}

// filterAlphabet keeps standard base64 alphabet characters up to the first
// '=' and drops a trailing character that cannot form a whole byte.
func filterAlphabet(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			break
		}
		if isBase64(c) {
			b.WriteByte(c)
		}
	}
	out := b.String()
	if len(out)%4 == 1 {
		out = out[:len(out)-1]
	}
	return out
}

func isBase64(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '+' || c == '/'
}
