package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/pretty"

	"github.com/n0madic/go-jwtinfo/internal/jwt"
)

// Text writes a human-readable summary of tok.
func Text(w io.Writer, tok jwt.Token, now time.Time) error {
	var b strings.Builder

	if err := tok.Check(); err != nil {
		fmt.Fprintln(&b, "⚠️  Unreadable token")
		fmt.Fprintf(&b, "  • %s\n", err)
		_, werr := io.WriteString(w, b.String())
		return werr
	}

	fmt.Fprintln(&b, "\U0001F511 Header")
	line(&b, "Algorithm", tok.Algorithm)
	line(&b, "Type", tok.ContentType)
	line(&b, "Key ID", tok.KeyID)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "\U0001F4CB Claims")
	line(&b, "Subject", tok.Subject)
	line(&b, "Issuer", tok.Issuer)
	if aud, ok := tok.Audience(); ok {
		fmt.Fprintf(&b, "  • Audience: %s\n", strings.Join(aud, ", "))
	}
	line(&b, "ID", tok.Identifier)
	if iat, ok := tok.IssuedAt(); ok {
		fmt.Fprintf(&b, "  • Issued at: %s\n", FormatLocalDateTime(iat))
	}
	if nbf, ok := tok.NotBefore(); ok {
		fmt.Fprintf(&b, "  • Not before: %s\n", FormatLocalDateTime(nbf))
	}
	if exp, ok := tok.ExpiresAt(); ok {
		fmt.Fprintf(&b, "  • Expires at: %s (%s)\n", FormatLocalDateTime(exp), Relative(exp, now))
	} else {
		fmt.Fprintln(&b, "  • Expires at: never")
	}
	fmt.Fprintf(&b, "  • Status: %s\n", StatusLabel(tok, now))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "\U0001F9FE Payload")
	if body, ok := tok.Body(); ok {
		for _, l := range strings.Split(strings.TrimRight(string(pretty.Pretty([]byte(body.Raw()))), "\n"), "\n") {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func line(b *strings.Builder, label string, get func() (string, bool)) {
	if v, ok := get(); ok {
		fmt.Fprintf(b, "  • %s: %s\n", label, v)
	}
}

// StatusLabel classifies tok at now as "active", "expired" or "not yet valid".
func StatusLabel(tok jwt.Token, now time.Time) string {
	switch {
	case tok.ExpiredAt(now):
		return "expired"
	case !tok.ActiveAt(now):
		return "not yet valid"
	}
	return "active"
}

// Relative describes t relative to now, e.g. "in 2h 5m" or "3d ago".
func Relative(t, now time.Time) string {
	d := t.Sub(now)
	if d >= 0 {
		return "in " + FormatDuration(d)
	}
	return FormatDuration(-d) + " ago"
}

// FormatDuration renders d as days, hours and minutes, e.g. "2d 3h 4m".
func FormatDuration(d time.Duration) string {
	v := int64(d / time.Second)
	if v < 0 {
		v = 0
	}
	days := v / 86400
	v %= 86400
	hours := v / 3600
	v %= 3600
	minutes := v / 60
	v %= 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 && v > 0 {
		parts = append(parts, "under 1m")
	}
	if len(parts) == 0 {
		parts = append(parts, "0m")
	}
	return strings.Join(parts, " ")
}

// FormatLocalDateTime formats t in the local timezone.
func FormatLocalDateTime(t time.Time) string {
	local := t.Local()
	tz := local.Format("MST")
	return fmt.Sprintf("%s %s", local.Format("Jan 02, 2006 15:04"), tz)
}
