package reservaonline

import (
	"context"
	"fmt"
	"time"

	"github.com/hmax-erp/reserva-online-go/pkg/httpclient"
)

// Send executes exactly one request/response cycle. A 2xx response yields the
// buffered envelope; any other status yields *HTTPError; a transport failure
// yields *NetworkError. Nothing is retried.
func (c *Client) Send(ctx context.Context, method string, path Path, body Body, creds *Credentials) (*Envelope, error) {
	payload, err := body.encode()
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	target := path.String()
	url := c.baseURL + target
	start := time.Now()

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: c.headers(creds),
		Body:    payload,
	})
	if err != nil {
		c.log.WarnObj("reserva-online request failed", "request_error", map[string]any{
			"method": method,
			"path":   target,
			"error":  err.Error(),
		})
		return nil, &NetworkError{Method: method, URL: url, Err: err}
	}

	env := &Envelope{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	c.log.DebugObj("reserva-online response", "response_meta", map[string]any{
		"method":        method,
		"path":          target,
		"status":        env.StatusCode,
		"body_bytes":    len(env.Body),
		"elapsed_ms":    time.Since(start).Milliseconds(),
		"dialect":       c.dialect.Name,
		"with_override": creds != nil,
	})

	if !env.Success() {
		return nil, &HTTPError{Method: method, Path: target, Envelope: env}
	}
	return env, nil
}

// headers builds the header set for one call. The token is always present;
// user and password only when resolved to a non-empty value.
func (c *Client) headers(override *Credentials) map[string]string {
	creds := c.defaults.merge(override)

	h := map[string]string{
		"Accept":        "application/json",
		"Content-Type":  "application/json",
		"Cache-Control": "no-cache",
	}
	h[c.dialect.TokenHeader] = creds.Token
	if creds.User != "" && c.dialect.UserHeader != "" {
		h[c.dialect.UserHeader] = creds.User
	}
	if creds.Password != "" && c.dialect.PasswordHeader != "" {
		h[c.dialect.PasswordHeader] = creds.Password
	}
	return h
}
