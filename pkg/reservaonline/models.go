package reservaonline

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier the hub may send either as a JSON string or a number.
// It always marshals as a string.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Models below carry an Extra so members the hub sends beyond the modelled
// fields survive a decode/encode cycle.

// Result is the generic acknowledgement returned by write operations.
type Result struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Extra   Extra           `json:"-"`
}

func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	extra, err := decodeWithExtra(data, (*plain)(r))
	r.Extra = extra
	return err
}

func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return encodeWithExtra(plain(r), r.Extra)
}

// Portal is an OTA/booking portal mapped to the integrator.
type Portal struct {
	ID           ID      `json:"id,omitempty"`
	Name         string  `json:"nome"`
	IntegratorID string  `json:"id_integrador"`
	Site         *string `json:"site"`
	Extra        Extra   `json:"-"`
}

func (p *Portal) UnmarshalJSON(data []byte) error {
	type plain Portal
	extra, err := decodeWithExtra(data, (*plain)(p))
	p.Extra = extra
	return err
}

func (p Portal) MarshalJSON() ([]byte, error) {
	type plain Portal
	return encodeWithExtra(plain(p), p.Extra)
}

// IntegratorConfig holds the callback URLs the hub uses to reach the integrator.
// URLRoomTypes and URLReservations only exist in the legacy generation; any
// other member is kept in Extra and sent back by SetIntegratorConfig.
type IntegratorConfig struct {
	URLInventory    string `json:"url_inventario,omitempty"`
	URLPortals      string `json:"url_portais,omitempty"`
	URLConfirmation string `json:"url_confirmacao,omitempty"`
	URLRoomTypes    string `json:"url_tipos_apto,omitempty"`
	URLReservations string `json:"url_reservas,omitempty"`
	Extra           Extra  `json:"-"`
}

func (c *IntegratorConfig) UnmarshalJSON(data []byte) error {
	type plain IntegratorConfig
	extra, err := decodeWithExtra(data, (*plain)(c))
	c.Extra = extra
	return err
}

func (c IntegratorConfig) MarshalJSON() ([]byte, error) {
	type plain IntegratorConfig
	return encodeWithExtra(plain(c), c.Extra)
}

// HotelConfig holds per-hotel settings. User/Password rotate the hotel's
// credentials in the revised generation; Usuario/Senha in the legacy one.
type HotelConfig struct {
	UpdateInventory *bool  `json:"atualizar_inventario,omitempty"`
	User            string `json:"user,omitempty"`
	Password        string `json:"password,omitempty"`
	Usuario         string `json:"usuario,omitempty"`
	Senha           string `json:"senha,omitempty"`
	Extra           Extra  `json:"-"`
}

func (c *HotelConfig) UnmarshalJSON(data []byte) error {
	type plain HotelConfig
	extra, err := decodeWithExtra(data, (*plain)(c))
	c.Extra = extra
	return err
}

func (c HotelConfig) MarshalJSON() ([]byte, error) {
	type plain HotelConfig
	return encodeWithExtra(plain(c), c.Extra)
}

// Card is a payment card brand accepted by the hub.
type Card struct {
	ID    ID     `json:"id"`
	Name  string `json:"nome"`
	Extra Extra  `json:"-"`
}

func (c *Card) UnmarshalJSON(data []byte) error {
	type plain Card
	extra, err := decodeWithExtra(data, (*plain)(c))
	c.Extra = extra
	return err
}

func (c Card) MarshalJSON() ([]byte, error) {
	type plain Card
	return encodeWithExtra(plain(c), c.Extra)
}

// RoomType is a bookable room category registered for a hotel.
type RoomType struct {
	ID           ID     `json:"id"`
	Name         string `json:"nome"`
	IntegratorID string `json:"id_integrador,omitempty"`
	Units        int    `json:"quantidade,omitempty"`
	Extra        Extra  `json:"-"`
}

func (t *RoomType) UnmarshalJSON(data []byte) error {
	type plain RoomType
	extra, err := decodeWithExtra(data, (*plain)(t))
	t.Extra = extra
	return err
}

func (t RoomType) MarshalJSON() ([]byte, error) {
	type plain RoomType
	return encodeWithExtra(plain(t), t.Extra)
}

// InventoryEntry is the available unit count of one room type on one date.
type InventoryEntry struct {
	Date       string `json:"data"`
	RoomTypeID ID     `json:"id_tipo_apto"`
	Available  int    `json:"disponivel"`
	Mapped     *bool  `json:"mapeado,omitempty"`
	Extra      Extra  `json:"-"`
}

func (e *InventoryEntry) UnmarshalJSON(data []byte) error {
	type plain InventoryEntry
	extra, err := decodeWithExtra(data, (*plain)(e))
	e.Extra = extra
	return err
}

func (e InventoryEntry) MarshalJSON() ([]byte, error) {
	type plain InventoryEntry
	return encodeWithExtra(plain(e), e.Extra)
}

// InventoryOptions narrows an inventory query.
type InventoryOptions struct {
	// HideUnmapped drops room types not mapped on the integrator side.
	HideUnmapped bool
	// RoomTypes restricts the result to the given room type ids.
	RoomTypes []string
}
