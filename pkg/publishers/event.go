package publishers

import (
	"time"

	"github.com/hmax-erp/reserva-online-go/pkg/reservaonline"
)

// Event is an inventory snapshot for one hotel, published downstream.
type Event struct {
	HotelID     string                         `json:"hotel_id"`
	HotelName   string                         `json:"hotel_name"`
	Start       string                         `json:"start"`
	End         string                         `json:"end"`
	Fingerprint string                         `json:"fingerprint"`
	Entries     []reservaonline.InventoryEntry `json:"entries"`
	CollectedAt time.Time                      `json:"collected_at"`
}

// NewEvent constructs an Event for the given hotel + inventory window.
func NewEvent(hotelID, hotelName string, start, end time.Time, fingerprint string, entries []reservaonline.InventoryEntry) Event {
	return Event{
		HotelID:     hotelID,
		HotelName:   hotelName,
		Start:       reservaonline.FormatDate(start),
		End:         reservaonline.FormatDate(end),
		Fingerprint: fingerprint,
		Entries:     entries,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached to broker messages for subscription filtering and
// sent as X- headers by the HTTP sink. Brokers reject empty attribute
// values, so those are left out.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 4)
	for k, v := range map[string]string{
		"hotel_id":    e.HotelID,
		"fingerprint": e.Fingerprint,
		"start":       e.Start,
		"end":         e.End,
	} {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}

// attributeHeaders maps attribute names to the headers the HTTP sink sets.
var attributeHeaders = map[string]string{
	"hotel_id":    "X-Hotel-Id",
	"fingerprint": "X-Inventory-Fingerprint",
	"start":       "X-Inventory-Start",
	"end":         "X-Inventory-End",
}
