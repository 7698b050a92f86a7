package reservaonline

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Operation names a remote capability exposed by the reservation hub.
type Operation string

const (
	OpMapPortal           Operation = "map_portal"
	OpListPortals         Operation = "list_portals"
	OpGetIntegratorConfig Operation = "get_integrator_config"
	OpSetIntegratorConfig Operation = "set_integrator_config"
	OpListCards           Operation = "list_cards"
	OpGetHotelConfig      Operation = "get_hotel_config"
	OpSetHotelConfig      Operation = "set_hotel_config"
	OpListRoomTypes       Operation = "list_room_types"
	OpSubmitReservations  Operation = "submit_reservations"
	OpGetInventory        Operation = "get_inventory"
	OpEcho                Operation = "echo"
	OpListRoutes          Operation = "list_routes"
)

var operationMethods = map[Operation]string{
	OpMapPortal:           http.MethodPost,
	OpListPortals:         http.MethodGet,
	OpGetIntegratorConfig: http.MethodGet,
	OpSetIntegratorConfig: http.MethodPost,
	OpListCards:           http.MethodGet,
	OpGetHotelConfig:      http.MethodGet,
	OpSetHotelConfig:      http.MethodPost,
	OpListRoomTypes:       http.MethodGet,
	OpSubmitReservations:  http.MethodPost,
	OpGetInventory:        http.MethodGet,
	OpEcho:                http.MethodGet,
	OpListRoutes:          http.MethodGet,
}

// Method returns the HTTP verb used for op.
func (op Operation) Method() string {
	if m, ok := operationMethods[op]; ok {
		return m
	}
	return http.MethodGet
}

// Endpoint is a host/port pair plus the scheme selector.
type Endpoint struct {
	Host string
	Port int
	TLS  bool
}

// BaseURL renders the endpoint as scheme://host[:port], omitting default ports.
func (e Endpoint) BaseURL() string {
	scheme := "http"
	if e.TLS {
		scheme = "https"
	}
	if e.Port == 0 || (e.TLS && e.Port == 443) || (!e.TLS && e.Port == 80) {
		return scheme + "://" + e.Host
	}
	return scheme + "://" + e.Host + ":" + strconv.Itoa(e.Port)
}

// Dialect captures everything that differs between API generations: hosts,
// credential header names, path names and the list envelope key.
// DecodeResponses is false for generations whose replies are not reliably
// JSON; their operations are served through Client.Raw.
type Dialect struct {
	Name           string
	Production     Endpoint
	Test           Endpoint
	TokenHeader    string
	UserHeader     string
	PasswordHeader string
	Paths          map[Operation]string
	ListKey        string

	DecodeResponses bool
}

const (
	DialectRevised = "revised"
	DialectLegacy  = "legacy"
)

// RevisedDialect is the current cloudfunctions generation of the API.
func RevisedDialect() Dialect {
	return Dialect{
		Name:           DialectRevised,
		Production:     Endpoint{Host: "us-central1-hmax-reserva-online.cloudfunctions.net", Port: 443, TLS: true},
		Test:           Endpoint{Host: "localhost", Port: 8080},
		TokenHeader:    "Token",
		UserHeader:     "User",
		PasswordHeader: "Password",
		ListKey:        "list",

		DecodeResponses: true,
		Paths: map[Operation]string{
			OpMapPortal:           "mapearPortal",
			OpListPortals:         "portais",
			OpGetIntegratorConfig: "cfgIntegrador",
			OpSetIntegratorConfig: "setCfgIntegrador",
			OpListCards:           "cartoes",
			OpGetHotelConfig:      "cfgHotel",
			OpSetHotelConfig:      "setCfgHotel",
			OpListRoomTypes:       "tiposApto",
			OpSubmitReservations:  "enviarReservas",
			OpGetInventory:        "inventario",
		},
	}
}

// LegacyDialect is the appspot generation. It has no room type listing and
// adds the echo and routes diagnostics.
func LegacyDialect() Dialect {
	return Dialect{
		Name:           DialectLegacy,
		Production:     Endpoint{Host: "reserva-online-dot-hmax-erp.appspot.com", Port: 443, TLS: true},
		Test:           Endpoint{Host: "localhost", Port: 8080},
		TokenHeader:    "token",
		UserHeader:     "user",
		PasswordHeader: "password",
		ListKey:        "list",
		Paths: map[Operation]string{
			OpEcho:                "echo",
			OpMapPortal:           "portal",
			OpListPortals:         "portal",
			OpGetIntegratorConfig: "cfg",
			OpSetIntegratorConfig: "cfg",
			OpListRoutes:          "rotas",
			OpListCards:           "cartoes",
			OpGetHotelConfig:      "cfg-hotel",
			OpSetHotelConfig:      "cfg-hotel",
			OpSubmitReservations:  "reserva",
			OpGetInventory:        "disponibilidade",
		},
	}
}

// LookupDialect resolves a dialect by name. An empty name selects the revised generation.
func LookupDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DialectRevised:
		return RevisedDialect(), nil
	case DialectLegacy:
		return LegacyDialect(), nil
	default:
		return Dialect{}, fmt.Errorf("unknown dialect %q", name)
	}
}

// Supports reports whether the dialect exposes op.
func (d Dialect) Supports(op Operation) bool {
	_, ok := d.Paths[op]
	return ok
}

// Endpoint picks the test or production endpoint.
func (d Dialect) Endpoint(test bool) Endpoint {
	if test {
		return d.Test
	}
	return d.Production
}

func (d Dialect) validate() error {
	if d.Name == "" {
		return fmt.Errorf("dialect name is required")
	}
	if d.TokenHeader == "" {
		return fmt.Errorf("dialect %q has no token header", d.Name)
	}
	if len(d.Paths) == 0 {
		return fmt.Errorf("dialect %q has no paths", d.Name)
	}
	return nil
}
