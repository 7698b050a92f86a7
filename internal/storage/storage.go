package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store remembers the fingerprint of the last inventory published per hotel.
type Store interface {
	Close() error
	// InventoryChanged reports whether fingerprint differs from the last
	// unexpired fingerprint recorded for hotelID.
	InventoryChanged(hotelID, fingerprint string) (bool, error)
	MarkInventory(hotelID, fingerprint string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	// FingerprintTTL forces a republish once a fingerprint is this old.
	FingerprintTTL  time.Duration
	CleanupInterval time.Duration
}

const (
	defaultFingerprintTTL  = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return NopStore(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.FingerprintTTL <= 0 {
		opts.FingerprintTTL = defaultFingerprintTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// NopStore returns a store without memory: every inventory counts as changed.
func NopStore() Store { return noopStore{} }

// noopStore reports every inventory as changed, so each sync publishes.
type noopStore struct{}

func (noopStore) Close() error                                  { return nil }
func (noopStore) InventoryChanged(string, string) (bool, error) { return true, nil }
func (noopStore) MarkInventory(string, string) error            { return nil }
