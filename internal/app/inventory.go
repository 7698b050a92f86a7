package app

import (
	"context"
	"crypto/sha1" //nolint:gosec // change detection, not security
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hmax-erp/reserva-online-go/internal/hotels"
	"github.com/hmax-erp/reserva-online-go/internal/logger"
	"github.com/hmax-erp/reserva-online-go/internal/storage"
	"github.com/hmax-erp/reserva-online-go/pkg/publishers"
	"github.com/hmax-erp/reserva-online-go/pkg/reservaonline"
)

// InventorySource fetches a hotel's availability window.
type InventorySource interface {
	GetInventory(ctx context.Context, start, end time.Time, creds *reservaonline.Credentials, opts *reservaonline.InventoryOptions) ([]reservaonline.InventoryEntry, error)
}

// envelopeInventory serves inventory from dialects that only return raw
// envelopes, parsing the list itself.
type envelopeInventory struct {
	raw     *reservaonline.RawClient
	listKey string
}

func (e envelopeInventory) GetInventory(ctx context.Context, start, end time.Time, creds *reservaonline.Credentials, opts *reservaonline.InventoryOptions) ([]reservaonline.InventoryEntry, error) {
	env, err := e.raw.GetInventory(ctx, start, end, creds, opts)
	if err != nil {
		return nil, err
	}
	return reservaonline.DecodeList[reservaonline.InventoryEntry](env, e.listKey)
}

// inventorySource picks the typed client or the envelope reader, depending
// on whether the client's dialect decodes responses.
func inventorySource(client *reservaonline.Client) InventorySource {
	d := client.Dialect()
	if d.DecodeResponses {
		return client
	}
	return envelopeInventory{raw: client.Raw(), listKey: d.ListKey}
}

// EventPublisher delivers events downstream. *publishers.Fanout satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// InventoryService pulls inventory per hotel and publishes the windows that changed.
type InventoryService struct {
	source    InventorySource
	publisher EventPublisher
	store     storage.Store
	log       logger.Logger
	days      int
	now       func() time.Time
}

// NewInventoryService wires the sync pass. days is the window length starting today.
func NewInventoryService(source InventorySource, pub EventPublisher, store storage.Store, log logger.Logger, days int) *InventoryService {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if store == nil {
		store = storage.NopStore()
	}
	if days <= 0 {
		days = 1
	}
	return &InventoryService{
		source:    source,
		publisher: pub,
		store:     store,
		log:       log,
		days:      days,
		now:       time.Now,
	}
}

// Run executes one sync pass over hotels. Failures are collected per hotel.
func (s *InventoryService) Run(ctx context.Context, list []hotels.Hotel) error {
	if s == nil || s.source == nil || s.publisher == nil {
		return fmt.Errorf("inventory service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no hotels configured for sync")
	}

	var errs []error
	for _, h := range list {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.syncHotel(ctx, h); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("hotel sync failed", "hotel_error", map[string]any{
				"hotel_id": h.ID,
				"error":    err.Error(),
			})
		}
	}
	return errors.Join(errs...)
}

func (s *InventoryService) syncHotel(ctx context.Context, h hotels.Hotel) error {
	start := s.now()
	end := start.AddDate(0, 0, s.days-1)

	entries, err := s.source.GetInventory(ctx, start, end, h.Credentials(), h.InventoryOptions())
	if err != nil {
		return fmt.Errorf("fetch inventory for hotel %s: %w", h.ID, err)
	}

	fp, err := Fingerprint(entries)
	if err != nil {
		return fmt.Errorf("fingerprint inventory for hotel %s: %w", h.ID, err)
	}

	changed, err := s.store.InventoryChanged(h.ID, fp)
	if err != nil {
		return fmt.Errorf("check inventory for hotel %s: %w", h.ID, err)
	}
	if !changed {
		s.log.DebugObj("hotel inventory unchanged", "hotel_result", map[string]any{
			"hotel_id":    h.ID,
			"fingerprint": fp,
		})
		return nil
	}

	evt := publishers.NewEvent(h.ID, h.Name, start, end, fp, entries)
	delivered, err := s.publisher.Publish(ctx, evt)
	if err != nil {
		return fmt.Errorf("publish inventory for hotel %s (%d delivered): %w", h.ID, delivered, err)
	}

	if err := s.store.MarkInventory(h.ID, fp); err != nil {
		return fmt.Errorf("mark inventory for hotel %s: %w", h.ID, err)
	}

	s.log.InfoObj("hotel inventory published", "hotel_result", map[string]any{
		"hotel_id":    h.ID,
		"entries":     len(entries),
		"fingerprint": fp,
		"delivered":   delivered,
	})
	return nil
}

// Fingerprint hashes the JSON form of entries, including members the hub sent
// beyond the modelled ones. Encoding is deterministic, so equal inventories
// hash equally.
func Fingerprint(entries []reservaonline.InventoryEntry) (string, error) {
	if entries == nil {
		entries = []reservaonline.InventoryEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
