package reservaonline

import (
	"encoding/json"
	"strings"
)

// Path is the target of a request, relative to the dialect's base URL.
type Path struct {
	segments []string
	query    string
}

// Segments builds a path from ordered components joined by "/".
func Segments(parts ...string) Path {
	return Path{segments: append([]string(nil), parts...)}
}

// RawPath builds a path from a pre-joined string. Anything after the first
// "?" is kept verbatim as the query string.
func RawPath(p string) Path {
	var query string
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p, query = p[:i], p[i+1:]
	}
	return Path{segments: strings.Split(strings.TrimPrefix(p, "/"), "/"), query: query}
}

// WithQuery returns a copy of p carrying the encoded query string q.
func (p Path) WithQuery(q string) Path {
	p.segments = append([]string(nil), p.segments...)
	p.query = q
	return p
}

// String renders the path with a leading "/".
func (p Path) String() string {
	s := "/" + strings.Join(p.segments, "/")
	if p.query != "" {
		s += "?" + p.query
	}
	return s
}

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyRaw
	bodyJSON
)

// Body is the request payload: absent, a raw string sent verbatim, or a
// value serialized as JSON.
type Body struct {
	kind  bodyKind
	raw   string
	value any
}

// NoBody sends an empty request body.
func NoBody() Body { return Body{} }

// RawBody sends s unchanged.
func RawBody(s string) Body { return Body{kind: bodyRaw, raw: s} }

// JSONBody serializes v as JSON.
func JSONBody(v any) Body { return Body{kind: bodyJSON, value: v} }

func (b Body) encode() ([]byte, error) {
	switch b.kind {
	case bodyRaw:
		return []byte(b.raw), nil
	case bodyJSON:
		return json.Marshal(b.value)
	default:
		return nil, nil
	}
}

// Credentials override the client's token, user and password for one call.
// Empty fields fall back to the client defaults individually.
type Credentials struct {
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

func (c Credentials) merge(override *Credentials) Credentials {
	if override == nil {
		return c
	}
	out := c
	if override.Token != "" {
		out.Token = override.Token
	}
	if override.User != "" {
		out.User = override.User
	}
	if override.Password != "" {
		out.Password = override.Password
	}
	return out
}
