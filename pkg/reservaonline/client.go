// Package reservaonline is a client for the HMAX reserva-online hub, the
// service that synchronizes OTA reservations and room inventory between
// hotels and their property-management integrator.
//
// Example usage:
//
//	client, err := reservaonline.New(reservaonline.Config{
//	    Token:    "integrator-token",
//	    User:     "hotel-user",
//	    Password: "hotel-password",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	portals, err := client.ListPortals(ctx)
//
// Two API generations are supported through dialects: the revised
// cloudfunctions API (default) and the legacy appspot API.
package reservaonline

import (
	"strings"
	"time"

	"github.com/hmax-erp/reserva-online-go/pkg/httpclient"
)

// Logger is the structured logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Config is fixed for the lifetime of a Client.
type Config struct {
	// Token authenticates the integrator. Required.
	Token string
	// User and Password are the default hotel credentials, used when a call
	// carries no override.
	User     string
	Password string

	// Dialect selects the API generation. The zero value means RevisedDialect.
	Dialect Dialect
	// Test targets the dialect's local plaintext endpoint instead of production.
	Test bool
	// BaseURL, when set, replaces the dialect endpoint entirely.
	BaseURL string
	// Timeout bounds each request. Zero leaves requests bounded only by their context.
	Timeout time.Duration

	HTTPClient httpclient.Client
	Logger     Logger
}

// Validate checks that the config can build a client.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrMissingToken
	}
	if c.Dialect.Name != "" {
		return c.Dialect.validate()
	}
	return nil
}

// Client talks to one reserva-online deployment. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	defaults Credentials
	dialect  Dialect
	baseURL  string
	http     httpclient.Client
	log      Logger
}

// New builds a client from cfg.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialect := cfg.Dialect
	if dialect.Name == "" {
		dialect = RevisedDialect()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = dialect.Endpoint(cfg.Test).BaseURL()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpclient.NewRestyClient(cfg.Timeout)
	}

	var log Logger = noopLogger{}
	if cfg.Logger != nil {
		log = cfg.Logger
	}

	return &Client{
		defaults: Credentials{Token: cfg.Token, User: cfg.User, Password: cfg.Password},
		dialect:  dialect,
		baseURL:  baseURL,
		http:     hc,
		log:      log,
	}, nil
}

// NewWithCredentials builds a revised-generation production client from
// positional credentials. user and password may be empty.
func NewWithCredentials(token, user, password string) (*Client, error) {
	return New(Config{Token: token, User: user, Password: password})
}

// Dialect returns the API generation the client speaks.
func (c *Client) Dialect() Dialect { return c.dialect }

// BaseURL returns the scheme://host[:port] requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }
