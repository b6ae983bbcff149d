package domain

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// jsonFieldNames lists the JSON keys a struct type models, read from its tags.
func jsonFieldNames[T any]() map[string]bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names[name] = true
	}
	return names
}

func rawObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// splitKnown separates modelled keys from the rest. divert moves a modelled
// key to extra when its value has a shape the struct cannot hold.
func splitKnown(raw map[string]json.RawMessage, known map[string]bool, divert func(key string, value json.RawMessage) bool) ([]byte, map[string]json.RawMessage, error) {
	var extra map[string]json.RawMessage
	kept := make(map[string]json.RawMessage, len(raw))
	for key, value := range raw {
		if known[key] && (divert == nil || !divert(key, value)) {
			kept[key] = value
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return nil, nil, err
		}
		if extra == nil {
			extra = map[string]json.RawMessage{}
		}
		extra[key] = json.RawMessage(buf.Bytes())
	}
	data, err := json.Marshal(kept)
	if err != nil {
		return nil, nil, err
	}
	return data, extra, nil
}

// mergeExtra adds preserved keys to an encoded object. Modelled keys win.
func mergeExtra(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return known, nil
	}
	obj, err := rawObject(known)
	if err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, ok := obj[key]; !ok {
			obj[key] = value
		}
	}
	return json.Marshal(obj)
}

func cloneRaw(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for key, value := range in {
		out[key] = append(json.RawMessage(nil), value...)
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
