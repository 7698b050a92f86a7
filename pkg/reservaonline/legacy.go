package reservaonline

import (
	"context"
	"fmt"
	"strings"
)

// Echo asks the legacy hub to return text unchanged. The raw envelope is
// returned; its body is {"success": true, "result": text}.
func (c *Client) Echo(ctx context.Context, text string) (*Envelope, error) {
	return c.Raw().Echo(ctx, text)
}

// ListRoutes returns the legacy hub's route listing as a raw envelope.
func (c *Client) ListRoutes(ctx context.Context) (*Envelope, error) {
	return c.Raw().ListRoutes(ctx)
}

func unsupported(op Operation, d Dialect) error {
	return fmt.Errorf("%s on %s dialect: %w", op, d.Name, ErrUnsupportedOperation)
}

const upperhex = "0123456789ABCDEF"

// encodeURI percent-encodes s the way JavaScript's encodeURI does: ASCII
// letters, digits and ;,/?:@&=+$-_.!~*'()# pass through, every other byte of
// the UTF-8 encoding becomes %XX.
func encodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func uriUnescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$-_.!~*'()#", c) >= 0
}
