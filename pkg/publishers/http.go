package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/hmax-erp/reserva-online-go/pkg/httpclient"
)

const maxErrorBodyBytes = 512

// httpPublisher posts inventory events as JSON to a webhook.
type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	return &httpPublisher{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }
func (h *httpPublisher) Close() error { return nil }

// Publish sends evt with the configured headers plus one X- header per event
// attribute. Configured headers win on conflict.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(evt)

	for name, value := range evt.attributes() {
		if header, ok := attributeHeaders[name]; ok {
			req.SetHeader(header, value)
		}
	}
	req.SetHeaders(h.headers)

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("deliver hotel %s to %s: %w", evt.HotelID, h.url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("deliver hotel %s to %s: status %d: %s", evt.HotelID, h.url, resp.StatusCode(), bodySnippet(resp.Body()))
	}
	h.log.DebugObj("inventory event delivered", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"hotel_id":     evt.HotelID,
		"fingerprint":  evt.Fingerprint,
		"status":       resp.StatusCode(),
		"elapsed_ms":   resp.Time().Milliseconds(),
	})
	return nil
}

// bodySnippet trims an error body to maxErrorBodyBytes on a rune boundary.
func bodySnippet(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		cut := maxErrorBodyBytes
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return strings.TrimSpace(string(body))
}
