package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds the members of a JSON object that the decoding struct has no
// field for. They are written back untouched on encode.
type Extra map[string]json.RawMessage

// With returns a copy of x with key set to raw.
func (x Extra) With(key string, raw json.RawMessage) Extra {
	out := make(Extra, len(x)+1)
	for k, v := range x {
		out[k] = v
	}
	out[key] = raw
	return out
}

var knownCache sync.Map

// knownKeys returns the JSON member names a struct type decodes, including
// the promoted fields of embedded structs.
func knownKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownCache.Load(t); ok {
		return cached.(map[string]struct{})
	}

	keys := make(map[string]struct{})
	collectKeys(t, keys)
	knownCache.Store(t, keys)
	return keys
}

func collectKeys(t reflect.Type, keys map[string]struct{}) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			collectKeys(f.Type, keys)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[name] = struct{}{}
	}
}

// DecodeWithExtra decodes data into v, which must point to a struct, and
// returns the members v has no field for.
func DecodeWithExtra(data []byte, v any) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	for key := range knownKeys(reflect.TypeOf(v)) {
		delete(all, key)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Extra(all), nil
}

// EncodeWithExtra encodes v and adds every member of extra that the encoding
// of v does not already contain.
func EncodeWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	for key, raw := range extra {
		if _, ok := members[key]; !ok {
			members[key] = raw
		}
	}
	return json.Marshal(members)
}

// Clone returns a deep copy of v made through a JSON round trip.
func Clone[T any](v T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}
