package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// knownKeys caches the lower-cased JSON keys declared by a struct type.
var knownKeys sync.Map

func jsonKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeys.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{})
	collectKeys(t, keys)
	knownKeys.Store(t, keys)
	return keys
}

func collectKeys(t reflect.Type, keys map[string]struct{}) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			collectKeys(field.Type, keys)
			continue
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		keys[strings.ToLower(name)] = struct{}{}
	}
}

// decodeWithExtra decodes data into v and stores the keys v does not declare in extra.
// v must be a pointer to a struct without its own UnmarshalJSON.
func decodeWithExtra(data []byte, v any, extra *map[string]any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	known := jsonKeys(reflect.TypeOf(v).Elem())
	for key := range all {
		if _, ok := known[strings.ToLower(key)]; ok {
			delete(all, key)
		}
	}
	if len(all) == 0 {
		*extra = nil
		return nil
	}
	*extra = all
	return nil
}

// encodeWithExtra encodes v and adds the extra keys it does not already carry.
func encodeWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	known := jsonKeys(reflect.TypeOf(v))
	for key, value := range extra {
		if _, ok := known[strings.ToLower(key)]; ok {
			continue
		}
		if _, ok := merged[key]; ok {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		merged[key] = raw
	}
	return json.Marshal(merged)
}

func (l *Layer) UnmarshalJSON(data []byte) error {
	type plain Layer
	return decodeWithExtra(data, (*plain)(l), &l.Extra)
}

func (l Layer) MarshalJSON() ([]byte, error) {
	type plain Layer
	return encodeWithExtra(plain(l), l.Extra)
}

func (p *Place) UnmarshalJSON(data []byte) error {
	type plain Place
	return decodeWithExtra(data, (*plain)(p), &p.Extra)
}

func (p Place) MarshalJSON() ([]byte, error) {
	type plain Place
	return encodeWithExtra(plain(p), p.Extra)
}

func (pl *PlaceList) UnmarshalJSON(data []byte) error {
	type plain PlaceList
	return decodeWithExtra(data, (*plain)(pl), &pl.Extra)
}

func (pl PlaceList) MarshalJSON() ([]byte, error) {
	type plain PlaceList
	return encodeWithExtra(plain(pl), pl.Extra)
}

func (c *Connector) UnmarshalJSON(data []byte) error {
	type plain Connector
	return decodeWithExtra(data, (*plain)(c), &c.Extra)
}

func (c Connector) MarshalJSON() ([]byte, error) {
	type plain Connector
	return encodeWithExtra(plain(c), c.Extra)
}

func (b *Beacon) UnmarshalJSON(data []byte) error {
	type plain Beacon
	return decodeWithExtra(data, (*plain)(b), &b.Extra)
}

func (b Beacon) MarshalJSON() ([]byte, error) {
	type plain Beacon
	return encodeWithExtra(plain(b), b.Extra)
}

func (t *Template) UnmarshalJSON(data []byte) error {
	type plain Template
	return decodeWithExtra(data, (*plain)(t), &t.Extra)
}

func (t Template) MarshalJSON() ([]byte, error) {
	type plain Template
	return encodeWithExtra(plain(t), t.Extra)
}

func (tr *Translation) UnmarshalJSON(data []byte) error {
	type plain Translation
	return decodeWithExtra(data, (*plain)(tr), &tr.Extra)
}

func (tr Translation) MarshalJSON() ([]byte, error) {
	type plain Translation
	return encodeWithExtra(plain(tr), tr.Extra)
}
