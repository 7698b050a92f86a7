package reservaonline

import (
	"context"
	"encoding/json"
	"time"
)

// RawClient exposes every operation as an undecoded envelope. It is the only
// way to talk to dialects with DecodeResponses unset, and works on the others
// too. HTTP failures are still reported as *HTTPError.
type RawClient struct {
	c *Client
}

// Raw returns the envelope-level view of c.
func (c *Client) Raw() *RawClient { return &RawClient{c: c} }

func (r *RawClient) MapPortal(ctx context.Context, name, integratorID, site string) (*Envelope, error) {
	return r.c.call(ctx, OpMapPortal, "", mapPortalBody(name, integratorID, site), nil)
}

func (r *RawClient) ListPortals(ctx context.Context) (*Envelope, error) {
	return r.c.call(ctx, OpListPortals, "", NoBody(), nil)
}

func (r *RawClient) GetIntegratorConfig(ctx context.Context) (*Envelope, error) {
	return r.c.call(ctx, OpGetIntegratorConfig, "", NoBody(), nil)
}

func (r *RawClient) SetIntegratorConfig(ctx context.Context, cfg IntegratorConfig) (*Envelope, error) {
	return r.c.call(ctx, OpSetIntegratorConfig, "", JSONBody(cfg), nil)
}

func (r *RawClient) ListCards(ctx context.Context) (*Envelope, error) {
	return r.c.call(ctx, OpListCards, "", NoBody(), nil)
}

func (r *RawClient) GetHotelConfig(ctx context.Context, creds *Credentials) (*Envelope, error) {
	return r.c.call(ctx, OpGetHotelConfig, "", NoBody(), creds)
}

func (r *RawClient) SetHotelConfig(ctx context.Context, cfg HotelConfig, creds *Credentials) (*Envelope, error) {
	return r.c.call(ctx, OpSetHotelConfig, "", JSONBody(cfg), creds)
}

func (r *RawClient) ListRoomTypes(ctx context.Context, creds *Credentials) (*Envelope, error) {
	return r.c.call(ctx, OpListRoomTypes, "", NoBody(), creds)
}

func (r *RawClient) SubmitReservations(ctx context.Context, reservations []json.RawMessage, creds *Credentials) (*Envelope, error) {
	body, err := reservationsBody(reservations)
	if err != nil {
		return nil, err
	}
	return r.c.call(ctx, OpSubmitReservations, "", body, creds)
}

func (r *RawClient) GetInventory(ctx context.Context, start, end time.Time, creds *Credentials, opts *InventoryOptions) (*Envelope, error) {
	return r.c.call(ctx, OpGetInventory, InventoryQuery(start, end, opts), NoBody(), creds)
}

// Echo asks the hub to return text unchanged. text is escaped like
// JavaScript's encodeURI, so "/" and "?" keep their URL meaning.
func (r *RawClient) Echo(ctx context.Context, text string) (*Envelope, error) {
	p, ok := r.c.dialect.Paths[OpEcho]
	if !ok {
		return nil, unsupported(OpEcho, r.c.dialect)
	}
	return r.c.Send(ctx, OpEcho.Method(), Segments(p, encodeURI(text)), NoBody(), nil)
}

func (r *RawClient) ListRoutes(ctx context.Context) (*Envelope, error) {
	return r.c.call(ctx, OpListRoutes, "", NoBody(), nil)
}
