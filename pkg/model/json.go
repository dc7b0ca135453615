package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// field is one known key of a JSON object written in a fixed position.
type field struct {
	key   string
	value any
	omit  bool
}

// marshalObject writes fields in order, then extra keys sorted, then tail.
// Known keys always win over an extra key with the same name.
func marshalObject(fields []field, extra map[string]json.RawMessage, tail ...field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	known := make(map[string]bool, len(fields)+len(tail))
	write := func(key string, raw []byte) {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, _ := encodeJSON(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
		n++
	}
	emit := func(fs []field) error {
		for _, f := range fs {
			known[f.key] = true
			if f.omit {
				continue
			}
			raw, err := encodeJSON(f.value)
			if err != nil {
				return fmt.Errorf("encode %s: %w", f.key, err)
			}
			write(f.key, raw)
		}
		return nil
	}

	if err := emit(fields); err != nil {
		return nil, err
	}
	for _, t := range tail {
		known[t.key] = true
	}
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if known[k] {
			continue
		}
		write(k, extra[k])
	}
	if err := emit(tail); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSON marshals v without HTML escaping and without a trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// take decodes obj[key] into dst and removes it from obj.
// It reports whether the key was present with a non-null value.
func take(obj map[string]json.RawMessage, key string, dst any) (bool, error) {
	raw, ok := obj[key]
	if !ok {
		return false, nil
	}
	delete(obj, key)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("field %q: %w", key, err)
	}
	return true, nil
}

// rest returns obj, or nil when it has no keys left.
func rest(obj map[string]json.RawMessage) map[string]json.RawMessage {
	if len(obj) == 0 {
		return nil
	}
	return obj
}
