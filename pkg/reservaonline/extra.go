package reservaonline

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra keeps what a typed model does not describe about the JSON object it
// was decoded from: members without a matching field, and which modelled
// members were absent. Encoding a decoded model therefore reproduces the
// object the hub sent, apart from member order and fields changed in between.
type Extra struct {
	// Fields holds members no struct field maps to.
	Fields map[string]json.RawMessage
	absent map[string]bool
}

// Get decodes the unmodelled member key into v. It reports false when the
// member is missing.
func (e Extra) Get(key string, v any) (bool, error) {
	raw, ok := e.Fields[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// Set stores an unmodelled member, sent on the next encode.
func (e *Extra) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if e.Fields == nil {
		e.Fields = make(map[string]json.RawMessage)
	}
	e.Fields[key] = raw
	return nil
}

// decodeWithExtra unmarshals data into v, a pointer to a struct, and records
// the members the struct has no field for.
func decodeWithExtra(data []byte, v any) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return Extra{}, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return Extra{}, err
	}

	known := jsonFieldNames(reflect.TypeOf(v).Elem())
	seen := make(map[string]bool, len(members))
	var extra Extra
	for k, raw := range members {
		name, ok := known[strings.ToLower(k)]
		if ok {
			seen[name] = true
			continue
		}
		if extra.Fields == nil {
			extra.Fields = make(map[string]json.RawMessage)
		}
		extra.Fields[k] = raw
	}
	for _, name := range known {
		if !seen[name] {
			if extra.absent == nil {
				extra.absent = make(map[string]bool)
			}
			extra.absent[name] = true
		}
	}
	return extra, nil
}

// encodeWithExtra marshals v and merges extra back in. Modelled members that
// were absent on decode and still hold a zero value stay absent.
func encodeWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || (len(extra.Fields) == 0 && len(extra.absent) == 0) {
		return data, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	for name := range extra.absent {
		if raw, ok := members[name]; ok && isZeroJSON(raw) {
			delete(members, name)
		}
	}
	for k, raw := range extra.Fields {
		if _, ok := members[k]; !ok {
			members[k] = raw
		}
	}
	return json.Marshal(members)
}

func isZeroJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case `null`, `""`, `0`, `false`, `[]`, `{}`:
		return true
	}
	return false
}

var fieldNameCache sync.Map // reflect.Type -> map[string]string

// jsonFieldNames maps the lower-cased JSON name of every exported field of t
// to its exact name.
func jsonFieldNames(t reflect.Type) map[string]string {
	if cached, ok := fieldNameCache.Load(t); ok {
		return cached.(map[string]string)
	}
	names := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		names[strings.ToLower(name)] = name
	}
	fieldNameCache.Store(t, names)
	return names
}
