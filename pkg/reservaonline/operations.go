package reservaonline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MapPortal registers an OTA portal under the integrator's own id. An empty
// site is sent as null.
func (c *Client) MapPortal(ctx context.Context, name, integratorID, site string) (*Result, error) {
	return c.write(ctx, OpMapPortal, mapPortalBody(name, integratorID, site), nil)
}

// ListPortals returns the portals known to the hub.
func (c *Client) ListPortals(ctx context.Context) ([]Portal, error) {
	env, err := c.decoded(ctx, OpListPortals, "", NoBody(), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Portal](OpListPortals, c.dialect.ListKey, env)
}

// GetIntegratorConfig returns the integrator's callback configuration.
func (c *Client) GetIntegratorConfig(ctx context.Context) (*IntegratorConfig, error) {
	env, err := c.decoded(ctx, OpGetIntegratorConfig, "", NoBody(), nil)
	if err != nil {
		return nil, err
	}
	return decodeObject[IntegratorConfig](OpGetIntegratorConfig, env)
}

// SetIntegratorConfig replaces the integrator's callback configuration.
func (c *Client) SetIntegratorConfig(ctx context.Context, cfg IntegratorConfig) (*Result, error) {
	return c.write(ctx, OpSetIntegratorConfig, JSONBody(cfg), nil)
}

// ListCards returns the card brands accepted by the hub.
func (c *Client) ListCards(ctx context.Context) ([]Card, error) {
	env, err := c.decoded(ctx, OpListCards, "", NoBody(), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Card](OpListCards, c.dialect.ListKey, env)
}

// GetHotelConfig returns the settings of the hotel identified by creds (or
// the client defaults).
func (c *Client) GetHotelConfig(ctx context.Context, creds *Credentials) (*HotelConfig, error) {
	env, err := c.decoded(ctx, OpGetHotelConfig, "", NoBody(), creds)
	if err != nil {
		return nil, err
	}
	return decodeObject[HotelConfig](OpGetHotelConfig, env)
}

// SetHotelConfig updates the settings of the hotel identified by creds.
func (c *Client) SetHotelConfig(ctx context.Context, cfg HotelConfig, creds *Credentials) (*Result, error) {
	return c.write(ctx, OpSetHotelConfig, JSONBody(cfg), creds)
}

// ListRoomTypes returns the room types registered for the hotel.
func (c *Client) ListRoomTypes(ctx context.Context, creds *Credentials) ([]RoomType, error) {
	env, err := c.decoded(ctx, OpListRoomTypes, "", NoBody(), creds)
	if err != nil {
		return nil, err
	}
	return decodeList[RoomType](OpListRoomTypes, c.dialect.ListKey, env)
}

// SubmitReservations creates or updates reservations. Each element is one
// reservation object, sent byte for byte in order; the hub owns validation.
func (c *Client) SubmitReservations(ctx context.Context, reservations []json.RawMessage, creds *Credentials) (*Result, error) {
	body, err := reservationsBody(reservations)
	if err != nil {
		return nil, err
	}
	return c.write(ctx, OpSubmitReservations, body, creds)
}

// GetInventory returns per-date, per-room-type availability between start
// and end, both inclusive.
func (c *Client) GetInventory(ctx context.Context, start, end time.Time, creds *Credentials, opts *InventoryOptions) ([]InventoryEntry, error) {
	env, err := c.decoded(ctx, OpGetInventory, InventoryQuery(start, end, opts), NoBody(), creds)
	if err != nil {
		return nil, err
	}
	return decodeList[InventoryEntry](OpGetInventory, c.dialect.ListKey, env)
}

func mapPortalBody(name, integratorID, site string) Body {
	portal := Portal{Name: name, IntegratorID: integratorID}
	if site != "" {
		portal.Site = &site
	}
	return JSONBody(portal)
}

// reservationsBody joins the reservation objects into a JSON array without
// re-encoding them. A nil slice sends [].
func reservationsBody(reservations []json.RawMessage) (Body, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for i, r := range reservations {
		r = bytes.TrimSpace(r)
		if !json.Valid(r) {
			return Body{}, fmt.Errorf("encode request body: reservation %d is not valid JSON", i)
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.Write(r)
	}
	b.WriteByte(']')
	return RawBody(b.String()), nil
}

// InventoryQuery builds inicio=<start>&fim=<end>[&nao_mapeados=false][&tipos=a,b].
// A non-nil RoomTypes slice always produces the tipos parameter.
func InventoryQuery(start, end time.Time, opts *InventoryOptions) string {
	var b strings.Builder
	b.WriteString("inicio=")
	b.WriteString(FormatDate(start))
	b.WriteString("&fim=")
	b.WriteString(FormatDate(end))

	if opts == nil {
		return b.String()
	}
	if opts.HideUnmapped {
		b.WriteString("&nao_mapeados=false")
	}
	if opts.RoomTypes != nil {
		ids := make([]string, len(opts.RoomTypes))
		for i, id := range opts.RoomTypes {
			ids[i] = url.QueryEscape(strings.TrimSpace(id))
		}
		b.WriteString("&tipos=")
		b.WriteString(strings.Join(ids, ","))
	}
	return b.String()
}

// call resolves op against the dialect and sends it.
func (c *Client) call(ctx context.Context, op Operation, query string, body Body, creds *Credentials) (*Envelope, error) {
	p, ok := c.dialect.Paths[op]
	if !ok {
		return nil, unsupported(op, c.dialect)
	}
	path := RawPath(p)
	if query != "" {
		path = path.WithQuery(query)
	}
	return c.Send(ctx, op.Method(), path, body, creds)
}

// decoded is call for the typed operations, which need a dialect whose
// responses are JSON documents.
func (c *Client) decoded(ctx context.Context, op Operation, query string, body Body, creds *Credentials) (*Envelope, error) {
	if !c.dialect.DecodeResponses {
		return nil, fmt.Errorf("%s on %s dialect: %w", op, c.dialect.Name, ErrRawResponses)
	}
	return c.call(ctx, op, query, body, creds)
}

func (c *Client) write(ctx context.Context, op Operation, body Body, creds *Credentials) (*Result, error) {
	env, err := c.decoded(ctx, op, "", body, creds)
	if err != nil {
		return nil, err
	}
	return decodeObject[Result](op, env)
}

func decodeObject[T any](op Operation, env *Envelope) (*T, error) {
	var out T
	if err := env.Decode(&out); err != nil {
		return nil, &DecodingError{Op: op, Body: env.Body, Err: err}
	}
	return &out, nil
}

// DecodeList unwraps the array stored under key in a raw envelope, the way
// the typed operations do. Callers of RawClient use it to parse list replies.
func DecodeList[T any](env *Envelope, key string) ([]T, error) {
	return decodeList[T]("", key, env)
}

// decodeList unwraps the array stored under key. A bare JSON array is
// accepted as well. An object without key is a *DecodingError wrapping
// ErrMissingList and carrying the hub's error/msg text when present.
func decodeList[T any](op Operation, key string, env *Envelope) ([]T, error) {
	body := bytes.TrimSpace(env.Body)

	raw := json.RawMessage(body)
	if len(body) == 0 || body[0] != '[' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, &DecodingError{Op: op, Body: env.Body, Err: err}
		}
		inner, ok := wrapper[key]
		if !ok {
			err := fmt.Errorf("%w: no %q member", ErrMissingList, key)
			if msg := errorMessage(body); msg != "" && msg != string(body) {
				err = fmt.Errorf("%w: %s", err, msg)
			}
			return nil, &DecodingError{Op: op, Body: env.Body, Err: err}
		}
		raw = inner
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &DecodingError{Op: op, Body: env.Body, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
