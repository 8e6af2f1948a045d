package jwt

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Token is a compact JWT string. The zero value is an absent token.
//
// Nothing derived from the string is cached: every accessor re-splits and
// re-decodes, so a Token is safe to share between goroutines. Signatures are
// never verified and the alg header is never interpreted.
type Token struct {
	raw     string
	present bool
	strict  bool
}

// Option configures how a Token decodes its segments.
type Option func(*Token)

// WithStrict rejects segments containing characters outside the base64url
// alphabet instead of skipping them.
func WithStrict() Option {
	return func(t *Token) { t.strict = true }
}

// New returns a present token holding raw.
func New(raw string, opts ...Option) Token {
	t := Token{raw: raw, present: true}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Raw returns the token string and whether the token is set.
func (t Token) Raw() (string, bool) {
	return t.raw, t.present
}

func (t Token) String() string {
	return t.raw
}

func (t Token) IsZero() bool {
	return !t.present
}

func (t Token) Strict() bool {
	return t.strict
}

func (t Token) segments() ([3]string, error) {
	if !t.present {
		return [3]string{}, ErrAbsent
	}
	parts, ok := SplitSegments(t.raw)
	if !ok {
		return parts, ErrMalformed
	}
	for _, p := range parts {
		if p == "" {
			return parts, ErrMalformed
		}
	}
	return parts, nil
}

func (t Token) decode(seg Segment) (Claims, error) {
	parts, err := t.segments()
	if err != nil {
		return Claims{}, err
	}
	data, err := decodeSegment(parts[seg], t.strict)
	if err != nil {
		return Claims{}, fmt.Errorf("%s: %w", seg, err)
	}
	c, err := decodeClaims(data)
	if err != nil {
		return Claims{}, fmt.Errorf("%s: %w", seg, err)
	}
	return c, nil
}

// Check decodes the header and body and returns the first failure. The
// accessors report the same failures only as ok=false.
func (t Token) Check() error {
	if _, err := t.decode(SegmentHeader); err != nil {
		return err
	}
	_, err := t.decode(SegmentBody)
	return err
}

// Header returns the decoded JOSE header.
func (t Token) Header() (Claims, bool) {
	c, err := t.decode(SegmentHeader)
	return c, err == nil
}

// Body returns the decoded claim set.
func (t Token) Body() (Claims, bool) {
	c, err := t.decode(SegmentBody)
	return c, err == nil
}

// Signature returns the third segment verbatim.
func (t Token) Signature() (string, bool) {
	parts, err := t.segments()
	if err != nil {
		return "", false
	}
	return parts[SegmentSignature], true
}

// Claim returns a top-level body claim.
func (t Token) Claim(key string) (Value, bool) {
	body, ok := t.Body()
	if !ok {
		return Value{}, false
	}
	return body.Get(key)
}

// Path evaluates a gjson path against the body.
func (t Token) Path(path string) (Value, bool) {
	body, ok := t.Body()
	if !ok {
		return Value{}, false
	}
	return body.Path(path)
}

func (t Token) stringClaim(key string) (string, bool) {
	v, ok := t.Claim(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (t Token) timeClaim(key string) (time.Time, bool) {
	v, ok := t.Claim(key)
	if !ok {
		return time.Time{}, false
	}
	secs, ok := v.AsNumber()
	if !ok {
		return time.Time{}, false
	}
	return fromEpoch(secs), true
}

// Seconds between year 1 and the Unix epoch; time.Time cannot hold more
// than math.MaxInt64 seconds past year 1.
const unixToInternal int64 = 62135596800

var (
	maxTime = time.Unix(math.MaxInt64-unixToInternal, 999999999)
	minTime = time.Unix(math.MinInt64, 0)
)

// fromEpoch converts fractional Unix seconds, clamping to the range
// time.Time can represent.
func fromEpoch(secs float64) time.Time {
	if secs >= float64(math.MaxInt64-unixToInternal) {
		return maxTime
	}
	if secs <= float64(math.MinInt64) {
		return minTime
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9)))
}

// ExpiresAt returns the exp claim.
func (t Token) ExpiresAt() (time.Time, bool) { return t.timeClaim("exp") }

// IssuedAt returns the iat claim.
func (t Token) IssuedAt() (time.Time, bool) { return t.timeClaim("iat") }

// NotBefore returns the nbf claim.
func (t Token) NotBefore() (time.Time, bool) { return t.timeClaim("nbf") }

// Issuer returns the iss claim.
func (t Token) Issuer() (string, bool) { return t.stringClaim("iss") }

// Subject returns the sub claim.
func (t Token) Subject() (string, bool) { return t.stringClaim("sub") }

// Identifier returns the jti claim.
func (t Token) Identifier() (string, bool) { return t.stringClaim("jti") }

// IdentifierUUID parses the jti claim as a UUID.
func (t Token) IdentifierUUID() (uuid.UUID, bool) {
	jti, ok := t.Identifier()
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(jti)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Audience returns the aud claim. A single string is returned as a
// one-element slice.
func (t Token) Audience() ([]string, bool) {
	v, ok := t.Claim("aud")
	if !ok {
		return nil, false
	}
	if list, ok := v.AsStrings(); ok {
		return list, true
	}
	if s, ok := v.AsString(); ok {
		return []string{s}, true
	}
	return nil, false
}

func (t Token) headerString(key string) (string, bool) {
	h, ok := t.Header()
	if !ok {
		return "", false
	}
	v, ok := h.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Algorithm returns the alg header as written; it is not validated.
func (t Token) Algorithm() (string, bool) { return t.headerString("alg") }

// ContentType returns the typ header.
func (t Token) ContentType() (string, bool) { return t.headerString("typ") }

// KeyID returns the kid header.
func (t Token) KeyID() (string, bool) { return t.headerString("kid") }

// Expired reports whether exp is present and not after the current time.
// Tokens without exp never expire.
func (t Token) Expired() bool {
	return t.ExpiredAt(time.Now())
}

// ExpiredAt is Expired with an explicit reference time.
func (t Token) ExpiredAt(now time.Time) bool {
	exp, ok := t.ExpiresAt()
	if !ok {
		return false
	}
	return !exp.After(now)
}

// ActiveAt reports whether the token is not expired at now and, when nbf is
// set, now is not before it.
func (t Token) ActiveAt(now time.Time) bool {
	if t.ExpiredAt(now) {
		return false
	}
	if nbf, ok := t.NotBefore(); ok && nbf.After(now) {
		return false
	}
	return true
}
