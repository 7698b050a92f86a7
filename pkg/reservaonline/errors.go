package reservaonline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrUnsupportedOperation is returned when the configured dialect lacks an operation.
	ErrUnsupportedOperation = errors.New("operation not supported by dialect")
	// ErrMissingToken is returned when a client is built without an integrator token.
	ErrMissingToken = errors.New("integrator token is required")
	// ErrRawResponses is returned by typed operations on a dialect that does
	// not decode responses. Use Client.Raw instead.
	ErrRawResponses = errors.New("dialect returns raw responses")
	// ErrMissingList is wrapped by the DecodingError of a list reply that
	// lacks the dialect's list member.
	ErrMissingList = errors.New("list member missing from response")
)

const maxSnippetBytes = 512

// NetworkError reports a failure to complete the HTTP exchange (DNS, refused
// connection, reset, cancelled context).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("reserva-online: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a response outside the 2xx range. The full envelope is
// kept so callers can inspect the server's error payload.
type HTTPError struct {
	Method   string
	Path     string
	Envelope *Envelope
}

func (e *HTTPError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("reserva-online: %s %s returned status %d", e.Method, e.Path, e.StatusCode())
	}
	return fmt.Sprintf("reserva-online: %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode(), msg)
}

// StatusCode returns the response status.
func (e *HTTPError) StatusCode() int {
	if e.Envelope == nil {
		return 0
	}
	return e.Envelope.StatusCode
}

// Message extracts a human readable message from the error body.
func (e *HTTPError) Message() string {
	if e.Envelope == nil {
		return ""
	}
	return errorMessage(e.Envelope.Body)
}

// DecodingError reports a response body that is not the JSON the operation expected.
type DecodingError struct {
	Op   Operation
	Body []byte
	Err  error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("reserva-online: decode %s response: %v", e.Op, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

type errorPayload struct {
	Error json.RawMessage `json:"error"`
	Msg   string          `json:"msg"`
}

// errorMessage handles {"error": "..."}, {"error": ["...", {"error": "..."}]},
// an optional "msg", HTML error pages and finally a raw snippet.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var payload errorPayload
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &payload) == nil {
		parts := errorStrings(payload.Error)
		if msg := strings.TrimSpace(payload.Msg); msg != "" {
			parts = append(parts, msg)
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	if trimmed[0] == '<' {
		if title := htmlTitle(trimmed); title != "" {
			return title
		}
	}

	return snippet(trimmed)
}

func errorStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			return []string{single}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var nested errorPayload
		if err := json.Unmarshal(item, &nested); err == nil {
			out = append(out, errorStrings(nested.Error)...)
		}
	}
	return out
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return strings.Join(strings.Fields(title), " ")
}

// snippet truncates body to maxSnippetBytes without splitting a UTF-8 sequence.
func snippet(body []byte) string {
	if len(body) > maxSnippetBytes {
		cut := maxSnippetBytes
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return strings.TrimSpace(string(body))
}
