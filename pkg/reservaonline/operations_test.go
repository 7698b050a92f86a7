package reservaonline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMapPortalScenario(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"success":true}`))
	client := newTestClient(t, hub, Config{})

	res, err := client.MapPortal(context.Background(), "Test OTA", "123-y", "example.com")
	if err != nil {
		t.Fatalf("MapPortal: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success")
	}

	req := hub.last(t)
	if req.Method != http.MethodPost || req.Path != "/mapearPortal" {
		t.Fatalf("got %s %s", req.Method, req.Path)
	}
	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := map[string]any{"nome": "Test OTA", "id_integrador": "123-y", "site": "example.com"}
	if !reflect.DeepEqual(body, want) {
		t.Fatalf("body = %#v, want %#v", body, want)
	}
}

func TestMapPortalEmptySiteIsNull(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"success":true}`))
	client := newTestClient(t, hub, Config{})

	if _, err := client.MapPortal(context.Background(), "OTA", "1", ""); err != nil {
		t.Fatalf("MapPortal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(hub.last(t).Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	site, ok := body["site"]
	if !ok || site != nil {
		t.Fatalf("site should be present and null, got %#v", body)
	}
}

func TestListOperationsUnwrapList(t *testing.T) {
	hub := newFakeHub(t, func(req recordedRequest) (int, string) {
		switch req.Path {
		case "/portais":
			return 200, `{"list":[{"id":1,"nome":"Booking","id_integrador":"b","site":"booking.com"}]}`
		case "/cartoes":
			return 200, `{"list":[{"id":"VI","nome":"Visa"},{"id":"MC","nome":"Master"}]}`
		case "/tiposApto":
			return 200, `{"list":[{"id":10,"nome":"Standard"}]}`
		case "/inventario":
			return 200, `{"list":[{"data":"2018-01-05","id_tipo_apto":10,"disponivel":3}]}`
		}
		return 404, `{"error":"not found"}`
	})
	client := newTestClient(t, hub, Config{})
	ctx := context.Background()

	portals, err := client.ListPortals(ctx)
	if err != nil {
		t.Fatalf("ListPortals: %v", err)
	}
	if len(portals) != 1 || portals[0].ID != "1" || portals[0].Name != "Booking" || *portals[0].Site != "booking.com" {
		t.Fatalf("portals = %#v", portals)
	}

	cards, err := client.ListCards(ctx)
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 2 || cards[1].Name != "Master" {
		t.Fatalf("cards = %#v", cards)
	}

	types, err := client.ListRoomTypes(ctx, nil)
	if err != nil {
		t.Fatalf("ListRoomTypes: %v", err)
	}
	if len(types) != 1 || types[0].ID != "10" {
		t.Fatalf("room types = %#v", types)
	}

	day := time.Date(2018, 1, 5, 0, 0, 0, 0, time.Local)
	inv, err := client.GetInventory(ctx, day, day, nil, nil)
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if len(inv) != 1 || inv[0].Date != "2018-01-05" || inv[0].RoomTypeID != "10" || inv[0].Available != 3 || inv[0].Mapped != nil {
		t.Fatalf("inventory = %#v", inv)
	}
}

func TestListMissingKeyIsDecodingError(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"success":false,"error":"hotel blocked"}`))
	client := newTestClient(t, hub, Config{})

	portals, err := client.ListPortals(context.Background())
	if portals != nil {
		t.Fatalf("expected no portals, got %#v", portals)
	}
	if !errors.Is(err, ErrMissingList) {
		t.Fatalf("expected ErrMissingList, got %v", err)
	}
	var decErr *DecodingError
	if !errors.As(err, &decErr) || decErr.Op != OpListPortals {
		t.Fatalf("expected *DecodingError for %s, got %#v", OpListPortals, err)
	}
	if !strings.Contains(err.Error(), "hotel blocked") {
		t.Fatalf("server message lost: %v", err)
	}
}

func TestListNullIsEmpty(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"list":null}`))
	client := newTestClient(t, hub, Config{})

	cards, err := client.ListCards(context.Background())
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if cards == nil || len(cards) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", cards)
	}
}

func TestDecodeListOnRawEnvelope(t *testing.T) {
	env := &Envelope{StatusCode: 200, Body: []byte(`{"list":[{"id":"VI","nome":"Visa","bandeira":"visa"}]}`)}
	cards, err := DecodeList[Card](env, "list")
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	var brand string
	if ok, err := cards[0].Extra.Get("bandeira", &brand); !ok || err != nil || brand != "visa" {
		t.Fatalf("extra member = %q (%v, %v)", brand, ok, err)
	}

	if _, err := DecodeList[Card](&Envelope{Body: []byte(`{"rows":[]}`)}, "list"); !errors.Is(err, ErrMissingList) {
		t.Fatalf("expected ErrMissingList, got %v", err)
	}
}

func TestListAcceptsBareArray(t *testing.T) {
	hub := newFakeHub(t, okJSON(`[{"id":"VI","nome":"Visa"}]`))
	client := newTestClient(t, hub, Config{})

	cards, err := client.ListCards(context.Background())
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "VI" {
		t.Fatalf("cards = %#v", cards)
	}
}

func TestDecodingError(t *testing.T) {
	hub := newFakeHub(t, okJSON(`<html>not json</html>`))
	client := newTestClient(t, hub, Config{})

	_, err := client.GetIntegratorConfig(context.Background())
	var decErr *DecodingError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodingError, got %T (%v)", err, err)
	}
	if decErr.Op != OpGetIntegratorConfig {
		t.Fatalf("Op = %s", decErr.Op)
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		t.Fatalf("decoding failure must not look like an HTTP error")
	}

	_, err = client.ListPortals(context.Background())
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodingError from list op, got %v", err)
	}
}

func TestInventoryQuery(t *testing.T) {
	start := time.Date(2018, 1, 5, 0, 0, 0, 0, time.Local)
	end := time.Date(2018, 2, 9, 0, 0, 0, 0, time.Local)

	cases := []struct {
		opts *InventoryOptions
		want string
	}{
		{nil, "inicio=2018-01-05&fim=2018-02-09"},
		{&InventoryOptions{}, "inicio=2018-01-05&fim=2018-02-09"},
		{&InventoryOptions{HideUnmapped: true}, "inicio=2018-01-05&fim=2018-02-09&nao_mapeados=false"},
		{&InventoryOptions{RoomTypes: []string{"1", "22"}}, "inicio=2018-01-05&fim=2018-02-09&tipos=1,22"},
		{&InventoryOptions{HideUnmapped: true, RoomTypes: []string{"3"}}, "inicio=2018-01-05&fim=2018-02-09&nao_mapeados=false&tipos=3"},
	}
	for _, tc := range cases {
		if got := InventoryQuery(start, end, tc.opts); got != tc.want {
			t.Fatalf("InventoryQuery = %q, want %q", got, tc.want)
		}
	}
}

func TestGetInventoryRequest(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"list":[]}`))
	client := newTestClient(t, hub, Config{})

	start := time.Date(2018, 1, 5, 0, 0, 0, 0, time.Local)
	end := time.Date(2018, 1, 7, 0, 0, 0, 0, time.Local)
	creds := &Credentials{User: "h1", Password: "p1"}
	if _, err := client.GetInventory(context.Background(), start, end, creds, &InventoryOptions{HideUnmapped: true, RoomTypes: []string{"1", "2"}}); err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	req := hub.last(t)
	if req.Method != http.MethodGet || req.Path != "/inventario" {
		t.Fatalf("got %s %s", req.Method, req.Path)
	}
	if req.RawQuery != "inicio=2018-01-05&fim=2018-01-07&nao_mapeados=false&tipos=1,2" {
		t.Fatalf("query = %q", req.RawQuery)
	}
	if req.Header.Get("User") != "h1" || req.Header.Get("Password") != "p1" {
		t.Fatalf("hotel credentials missing: %v", req.Header)
	}
}

func TestIntegratorConfigRoundTrip(t *testing.T) {
	var (
		mu    sync.Mutex
		saved = []byte(`{}`)
	)
	hub := newFakeHub(t, func(req recordedRequest) (int, string) {
		mu.Lock()
		defer mu.Unlock()
		switch req.Path {
		case "/setCfgIntegrador":
			saved = req.Body
			return 200, `{"success":true}`
		case "/cfgIntegrador":
			return 200, string(saved)
		}
		return 404, `{"error":"not found"}`
	})
	client := newTestClient(t, hub, Config{})
	ctx := context.Background()

	cfg := IntegratorConfig{
		URLInventory:    "https://pms.example/inventario",
		URLPortals:      "https://pms.example/portais",
		URLConfirmation: "https://pms.example/confirmacao",
	}
	res, err := client.SetIntegratorConfig(ctx, cfg)
	if err != nil || !res.Success {
		t.Fatalf("SetIntegratorConfig: %v %#v", err, res)
	}
	got, err := client.GetIntegratorConfig(ctx)
	if err != nil {
		t.Fatalf("GetIntegratorConfig: %v", err)
	}
	if got.URLInventory != cfg.URLInventory || got.URLPortals != cfg.URLPortals || got.URLConfirmation != cfg.URLConfirmation ||
		got.URLRoomTypes != "" || got.URLReservations != "" || len(got.Extra.Fields) != 0 {
		t.Fatalf("round trip = %#v, want %#v", *got, cfg)
	}
}

func TestIntegratorConfigKeepsUnknownMembers(t *testing.T) {
	hub := newFakeHub(t, func(req recordedRequest) (int, string) {
		if req.Path == "/cfgIntegrador" {
			return 200, `{"url_inventario":"a","url_webhook_extra":"b","ativo":true}`
		}
		return 200, `{"success":true}`
	})
	client := newTestClient(t, hub, Config{})
	ctx := context.Background()

	cfg, err := client.GetIntegratorConfig(ctx)
	if err != nil {
		t.Fatalf("GetIntegratorConfig: %v", err)
	}
	cfg.URLPortals = "c"
	if _, err := client.SetIntegratorConfig(ctx, *cfg); err != nil {
		t.Fatalf("SetIntegratorConfig: %v", err)
	}

	var sent map[string]any
	if err := json.Unmarshal(hub.last(t).Body, &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := map[string]any{"url_inventario": "a", "url_portais": "c", "url_webhook_extra": "b", "ativo": true}
	if !reflect.DeepEqual(sent, want) {
		t.Fatalf("sent = %#v, want %#v", sent, want)
	}
}

func TestDecodedModelsDoNotGainMembers(t *testing.T) {
	in := `{"data":"2018-01-05","id_tipo_apto":"10","disponivel":0,"tarifa":99.5,"bloqueado":false}`
	var entry InventoryEntry
	if err := json.Unmarshal([]byte(in), &entry); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got, want map[string]any
	_ = json.Unmarshal(out, &got)
	_ = json.Unmarshal([]byte(in), &want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("re-encoded = %s, want %s", out, in)
	}

	var portal Portal
	if err := json.Unmarshal([]byte(`{"nome":"Booking","comissao":15}`), &portal); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, _ = json.Marshal(portal)
	if string(out) != `{"comissao":15,"nome":"Booking"}` {
		t.Fatalf("portal re-encoded = %s", out)
	}
}

func TestHotelConfigUsesCredentials(t *testing.T) {
	hub := newFakeHub(t, func(req recordedRequest) (int, string) {
		if req.Path == "/cfgHotel" {
			return 200, `{"atualizar_inventario":true}`
		}
		return 200, `{"success":true}`
	})
	client := newTestClient(t, hub, Config{User: "default", Password: "pw"})
	ctx := context.Background()
	creds := &Credentials{User: "hotel-9", Password: "pw-9"}

	cfg, err := client.GetHotelConfig(ctx, creds)
	if err != nil {
		t.Fatalf("GetHotelConfig: %v", err)
	}
	if cfg.UpdateInventory == nil || !*cfg.UpdateInventory {
		t.Fatalf("cfg = %#v", cfg)
	}
	if hub.last(t).Header.Get("User") != "hotel-9" {
		t.Fatalf("override user not sent")
	}

	update := true
	if _, err := client.SetHotelConfig(ctx, HotelConfig{UpdateInventory: &update, User: "new"}, nil); err != nil {
		t.Fatalf("SetHotelConfig: %v", err)
	}
	req := hub.last(t)
	if req.Method != http.MethodPost || req.Path != "/setCfgHotel" {
		t.Fatalf("got %s %s", req.Method, req.Path)
	}
	if req.Header.Get("User") != "default" {
		t.Fatalf("default user not sent")
	}
	if string(req.Body) != `{"atualizar_inventario":true,"user":"new"}` {
		t.Fatalf("body = %s", req.Body)
	}
}

func TestSubmitReservationsPassesPayloadThrough(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"success":true}`))
	client := newTestClient(t, hub, Config{})

	first := `{"id_integrador":"r1","id_portal":"2","observacao":"late checkin","aptos":[{"id_integrador":"a1","valor_total":300}]}`
	second := `{"id_integrador":"r2","id_portal":7,"aptos":[]}`
	reservations := []json.RawMessage{json.RawMessage(first), json.RawMessage(second)}

	res, err := client.SubmitReservations(context.Background(), reservations, nil)
	if err != nil || !res.Success {
		t.Fatalf("SubmitReservations: %v %#v", err, res)
	}
	req := hub.last(t)
	if req.Method != http.MethodPost || req.Path != "/enviarReservas" {
		t.Fatalf("got %s %s", req.Method, req.Path)
	}
	if want := "[" + first + "," + second + "]"; string(req.Body) != want {
		t.Fatalf("payload changed in transit:\n got %s\nwant %s", req.Body, want)
	}
}

func TestSubmitReservationsRejectsInvalidJSON(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"success":true}`))
	client := newTestClient(t, hub, Config{})

	_, err := client.SubmitReservations(context.Background(), []json.RawMessage{json.RawMessage(`{"id":`)}, nil)
	if err == nil || !strings.Contains(err.Error(), "encode request body") {
		t.Fatalf("expected encode error, got %v", err)
	}
	if hub.count() != 0 {
		t.Fatalf("invalid payload must not reach the network")
	}
}

func TestSubmitReservationsNilSendsEmptyArray(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"success":true}`))
	client := newTestClient(t, hub, Config{})

	if _, err := client.SubmitReservations(context.Background(), nil, nil); err != nil {
		t.Fatalf("SubmitReservations: %v", err)
	}
	if string(hub.last(t).Body) != "[]" {
		t.Fatalf("body = %s", hub.last(t).Body)
	}
}

func TestLegacyDialect(t *testing.T) {
	hub := newFakeHub(t, func(req recordedRequest) (int, string) {
		if req.Path == "/echo/texto teste" {
			return 200, `{"success":true,"result":"texto teste"}`
		}
		return 200, `{"success":true,"list":[]}`
	})
	client := newTestClient(t, hub, Config{Dialect: LegacyDialect(), User: "hmax", Password: "pw"})
	raw := client.Raw()
	ctx := context.Background()

	env, err := client.Echo(ctx, "texto teste")
	if err != nil {
		t.Fatalf("Echo: %v", err)
	}
	var echoed Result
	if err := env.Decode(&echoed); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	var text string
	if err := json.Unmarshal(echoed.Result, &text); err != nil || text != "texto teste" || !echoed.Success {
		t.Fatalf("echo result = %#v (%v)", echoed, err)
	}
	req := hub.last(t)
	if req.Header.Get("token") != "tok-default" || req.Header.Get("user") != "hmax" || req.Header.Get("password") != "pw" {
		t.Fatalf("legacy headers = %v", req.Header)
	}

	paths := []struct {
		call   func() (*Envelope, error)
		method string
		path   string
	}{
		{func() (*Envelope, error) { return raw.MapPortal(ctx, "a", "b", "") }, http.MethodPost, "/portal"},
		{func() (*Envelope, error) { return raw.ListPortals(ctx) }, http.MethodGet, "/portal"},
		{func() (*Envelope, error) { return raw.GetIntegratorConfig(ctx) }, http.MethodGet, "/cfg"},
		{func() (*Envelope, error) { return raw.SetIntegratorConfig(ctx, IntegratorConfig{}) }, http.MethodPost, "/cfg"},
		{func() (*Envelope, error) { return raw.ListCards(ctx) }, http.MethodGet, "/cartoes"},
		{func() (*Envelope, error) { return client.ListRoutes(ctx) }, http.MethodGet, "/rotas"},
		{func() (*Envelope, error) { return raw.GetHotelConfig(ctx, nil) }, http.MethodGet, "/cfg-hotel"},
		{func() (*Envelope, error) { return raw.SetHotelConfig(ctx, HotelConfig{}, nil) }, http.MethodPost, "/cfg-hotel"},
		{func() (*Envelope, error) { return raw.SubmitReservations(ctx, nil, nil) }, http.MethodPost, "/reserva"},
	}
	for _, p := range paths {
		env, err := p.call()
		if err != nil {
			t.Fatalf("%s %s: %v", p.method, p.path, err)
		}
		if env == nil || env.StatusCode != http.StatusOK {
			t.Fatalf("%s %s: envelope = %#v", p.method, p.path, env)
		}
		req := hub.last(t)
		if req.Method != p.method || req.Path != p.path {
			t.Fatalf("got %s %s, want %s %s", req.Method, req.Path, p.method, p.path)
		}
	}

	start := time.Date(2018, 1, 5, 0, 0, 0, 0, time.Local)
	end := time.Date(2018, 1, 9, 0, 0, 0, 0, time.Local)
	if _, err := raw.GetInventory(ctx, start, end, nil, nil); err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	req = hub.last(t)
	if req.Path != "/disponibilidade" || req.RawQuery != "inicio=2018-01-05&fim=2018-01-09" {
		t.Fatalf("legacy inventory request = %s?%s", req.Path, req.RawQuery)
	}

	if _, err := raw.ListRoomTypes(ctx, nil); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestLegacyReturnsNonJSONBodies(t *testing.T) {
	hub := newFakeHub(t, okJSON("OK"))
	client := newTestClient(t, hub, Config{Dialect: LegacyDialect()})

	env, err := client.Raw().MapPortal(context.Background(), "OTA", "1", "")
	if err != nil {
		t.Fatalf("MapPortal: %v", err)
	}
	if string(env.Body) != "OK" {
		t.Fatalf("body = %q", env.Body)
	}
}

func TestLegacyTypedOperationsNeedRaw(t *testing.T) {
	hub := newFakeHub(t, okJSON("OK"))
	client := newTestClient(t, hub, Config{Dialect: LegacyDialect()})
	ctx := context.Background()

	calls := map[Operation]func() error{
		OpMapPortal:           func() error { _, err := client.MapPortal(ctx, "a", "b", ""); return err },
		OpListPortals:         func() error { _, err := client.ListPortals(ctx); return err },
		OpGetIntegratorConfig: func() error { _, err := client.GetIntegratorConfig(ctx); return err },
		OpSubmitReservations:  func() error { _, err := client.SubmitReservations(ctx, nil, nil); return err },
		OpGetInventory: func() error {
			_, err := client.GetInventory(ctx, time.Now(), time.Now(), nil, nil)
			return err
		},
	}
	for op, call := range calls {
		if err := call(); !errors.Is(err, ErrRawResponses) {
			t.Fatalf("%s: expected ErrRawResponses, got %v", op, err)
		}
	}
	if hub.count() != 0 {
		t.Fatalf("typed calls on a raw dialect must not reach the network")
	}
}

func TestEchoEncodesLikeEncodeURI(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{"success":true}`))
	client := newTestClient(t, hub, Config{Dialect: LegacyDialect()})

	if _, err := client.Echo(context.Background(), "a/b c"); err != nil {
		t.Fatalf("Echo: %v", err)
	}
	if uri := hub.last(t).RequestURI; uri != "/echo/a/b%20c" {
		t.Fatalf("request uri = %q", uri)
	}

	cases := map[string]string{
		"texto teste":   "texto%20teste",
		"a/b?c=d&e#f":   "a/b?c=d&e#f",
		"ação":          "a%C3%A7%C3%A3o",
		"50%":           "50%25",
		"-_.!~*'()":     "-_.!~*'()",
		"[x]{y}|\\^`\"": "%5Bx%5D%7By%7D%7C%5C%5E%60%22",
	}
	for in, want := range cases {
		if got := encodeURI(in); got != want {
			t.Fatalf("encodeURI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRevisedDialectLacksDiagnostics(t *testing.T) {
	hub := newFakeHub(t, okJSON(`{}`))
	client := newTestClient(t, hub, Config{})

	if _, err := client.Echo(context.Background(), "x"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("Echo: expected ErrUnsupportedOperation, got %v", err)
	}
	if _, err := client.ListRoutes(context.Background()); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("ListRoutes: expected ErrUnsupportedOperation, got %v", err)
	}
	if hub.count() != 0 {
		t.Fatalf("unsupported operations must not reach the network")
	}
}

func TestConcurrentCallsAreIndependent(t *testing.T) {
	hub := newFakeHub(t, func(req recordedRequest) (int, string) {
		return 200, `{"success":true,"msg":"` + req.Header.Get("User") + `"}`
	})
	client := newTestClient(t, hub, Config{User: "default"})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := "default"
			var creds *Credentials
			if i%2 == 0 {
				user = "hotel-even"
				creds = &Credentials{User: user}
			}
			res, err := client.SetHotelConfig(context.Background(), HotelConfig{}, creds)
			if err != nil {
				errs <- err
				return
			}
			if res.Msg != user {
				errs <- errors.New("response crossed between calls: " + res.Msg)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
