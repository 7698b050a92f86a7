package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hmax-erp/reserva-online-go/internal/config"
	"github.com/hmax-erp/reserva-online-go/internal/hotels"
	"github.com/hmax-erp/reserva-online-go/internal/logger"
	"github.com/hmax-erp/reserva-online-go/internal/storage"
	"github.com/hmax-erp/reserva-online-go/pkg/publishers"
)

// Syncer is the inventory sync runtime. It owns the sync loop and the
// resources behind it: hotel registry, publishers and fingerprint store.
type Syncer struct {
	cfg          *config.Config
	hotelReg     *hotels.Registry
	fanout       *publishers.Fanout
	service      *InventoryService
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewSyncer builds a syncer runtime from config files.
func NewSyncer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Syncer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewReservaClient(cfg, log)
	if err != nil {
		return nil, err
	}

	hotelReg, err := hotels.LoadRegistry(cfg.HotelsFile)
	if err != nil {
		return nil, fmt.Errorf("load hotels registry: %w", err)
	}
	enabledHotels := hotelReg.Enabled()
	hotelIDs := make([]string, 0, len(enabledHotels))
	for _, h := range enabledHotels {
		hotelIDs = append(hotelIDs, h.ID)
	}
	log.InfoObj("hotels registry loaded", "hotels_meta", map[string]any{
		"count": len(hotelIDs),
		"ids":   hotelIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients, log)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		FingerprintTTL:  cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), fanout.Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"fingerprint_ttl_seconds":  int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Syncer{
		cfg:          cfg,
		hotelReg:     hotelReg,
		fanout:       fanout,
		service:      NewInventoryService(inventorySource(client), fanout, store, log, cfg.InventoryDays),
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the sync loop until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if s == nil || s.service == nil {
		return fmt.Errorf("syncer is not initialized")
	}
	defer s.close()

	list := s.hotelReg.Enabled()
	if len(list) == 0 {
		s.log.WarnObj("no hotels enabled; syncer idle", "hotels_file", s.cfg.HotelsFile)
		<-ctx.Done()
		return nil
	}

	s.log.InfoObj("sync loop starting", "syncer_state", map[string]any{
		"hotels_count":     len(list),
		"publishers_count": s.fanout.Size(),
		"sync_interval":    s.syncInterval.String(),
	})

	if err := s.runOnce(ctx, list); err != nil {
		s.log.ErrorObj("initial sync failed", "error", err.Error())
	}

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("sync loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := s.runOnce(ctx, list); err != nil {
				s.log.ErrorObj("scheduled sync failed", "error", err.Error())
			}
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context, list []hotels.Hotel) error {
	start := time.Now()
	s.log.InfoObj("sync started", "sync_meta", map[string]any{
		"hotels_count": len(list),
		"started_at":   start.UTC(),
	})
	if err := s.service.Run(ctx, list); err != nil {
		return err
	}
	s.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"hotels_count": len(list),
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases publishers and the store, logging any failure.
func (s *Syncer) close() {
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
