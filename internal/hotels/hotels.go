package hotels

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hmax-erp/reserva-online-go/pkg/reservaonline"
	"gopkg.in/yaml.v3"
)

// Hotel is one property whose inventory the integrator keeps in sync.
// Credential fields may reference environment variables as ${VAR}.
type Hotel struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Token        string   `json:"token" yaml:"token"`
	User         string   `json:"user" yaml:"user"`
	Password     string   `json:"password" yaml:"password"`
	Enabled      *bool    `json:"enabled" yaml:"enabled"`
	HideUnmapped bool     `json:"hide_unmapped" yaml:"hide_unmapped"`
	RoomTypes    []string `json:"room_types" yaml:"room_types"`
}

type registryFile struct {
	Hotels []Hotel `json:"hotels" yaml:"hotels"`
}

// Registry holds hotel profiles loaded from a YAML/JSON file.
type Registry struct {
	mu     sync.RWMutex
	hotels []Hotel
	idx    map[string]Hotel
}

// LoadRegistry loads hotel profiles from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("hotels file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hotels file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read hotels file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Hotels) == 0 {
		return nil, errors.New("hotels file contains no hotels entries")
	}

	reg := &Registry{
		hotels: make([]Hotel, len(parsed.Hotels)),
		idx:    make(map[string]Hotel, len(parsed.Hotels)),
	}
	for i := range parsed.Hotels {
		h := sanitizeHotel(parsed.Hotels[i])
		if err := validateHotel(h); err != nil {
			return nil, fmt.Errorf("hotels[%d]: %w", i, err)
		}
		if _, exists := reg.idx[h.ID]; exists {
			return nil, fmt.Errorf("duplicate hotel id %q", h.ID)
		}
		reg.hotels[i] = h
		reg.idx[h.ID] = h
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg registryFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("hotels file format not recognized (expected YAML or JSON)")
}

func sanitizeHotel(h Hotel) Hotel {
	h.ID = strings.TrimSpace(h.ID)
	h.Name = strings.TrimSpace(h.Name)
	h.Token = strings.TrimSpace(os.ExpandEnv(h.Token))
	h.User = strings.TrimSpace(os.ExpandEnv(h.User))
	h.Password = os.ExpandEnv(h.Password)

	if h.Enabled == nil {
		def := true
		h.Enabled = &def
	}
	if h.RoomTypes != nil {
		types := make([]string, 0, len(h.RoomTypes))
		for _, t := range h.RoomTypes {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		h.RoomTypes = types
	}
	return h
}

func validateHotel(h Hotel) error {
	if h.ID == "" {
		return errors.New("id is required")
	}
	if h.User == "" {
		return fmt.Errorf("user is required for hotel %q", h.ID)
	}
	if h.Password == "" {
		return fmt.Errorf("password is required for hotel %q", h.ID)
	}
	return nil
}

// ByID returns the hotel profile by id.
func (r *Registry) ByID(id string) (Hotel, bool) {
	if r == nil {
		return Hotel{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Hotel{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.idx[id]
	return h, ok
}

// All returns every configured hotel.
func (r *Registry) All() []Hotel {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Hotel, len(r.hotels))
	copy(out, r.hotels)
	return out
}

// Enabled returns hotels that are enabled.
func (r *Registry) Enabled() []Hotel {
	all := r.All()
	out := make([]Hotel, 0, len(all))
	for _, h := range all {
		if h.EnabledValue() {
			out = append(out, h)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (h Hotel) EnabledValue() bool {
	if h.Enabled == nil {
		return true
	}
	return *h.Enabled
}

// Credentials returns the per-call override for this hotel.
func (h Hotel) Credentials() *reservaonline.Credentials {
	return &reservaonline.Credentials{Token: h.Token, User: h.User, Password: h.Password}
}

// InventoryOptions returns the inventory filter configured for this hotel.
func (h Hotel) InventoryOptions() *reservaonline.InventoryOptions {
	return &reservaonline.InventoryOptions{HideUnmapped: h.HideUnmapped, RoomTypes: h.RoomTypes}
}
