package reservaonline

import (
	"encoding/json"
	"net/http"
)

// Envelope is a fully buffered HTTP response.
type Envelope struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is in the 2xx range.
func (e *Envelope) Success() bool {
	return e != nil && e.StatusCode >= 200 && e.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (e *Envelope) Decode(v any) error {
	return json.Unmarshal(e.Body, v)
}
