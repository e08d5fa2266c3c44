package ordmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// JSON codec. A map marshals to a JSON object whose members appear in
// key order; a set marshals to a sorted JSON array of keys.
//
// Unmarshalling inserts in whatever order the source provides, so the
// reconstructed order is key order regardless of input order, and a
// duplicate source key collapses to its last value (Insert overwrites
// on hit). JSON carries no size hint, so decoding grows the buffer
// through the ordinary amortized path.

// MarshalJSON implements json.Marshaler.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.buf.Slice() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalJSONKey(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("ordmap: marshal value for key %v: %w", e.Key, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The map's previous
// contents are cleared.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("ordmap: unmarshal map: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ordmap: unmarshal map: expected object, got %v", tok)
	}

	m.Clear()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("ordmap: unmarshal map key: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ordmap: unmarshal map key: unexpected token %v", tok)
		}
		key, err := unmarshalJSONKey[K](name)
		if err != nil {
			return err
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("ordmap: unmarshal value for key %q: %w", name, err)
		}
		m.Insert(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("ordmap: unmarshal map: %w", err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s *Set[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range s.m.buf.Slice() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(e.Key)
		if err != nil {
			return nil, fmt.Errorf("ordmap: marshal set key %v: %w", e.Key, err)
		}
		buf.Write(kb)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The set's previous
// contents are cleared.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var keys []T
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("ordmap: unmarshal set: %w", err)
	}
	s.Clear()
	s.Reserve(len(keys))
	for _, k := range keys {
		s.Insert(k)
	}
	return nil
}

// marshalJSONKey renders a key as a JSON object member name. String
// keys marshal to JSON strings already; numeric keys get quoted the
// way encoding/json quotes map keys.
func marshalJSONKey[K any](key K) ([]byte, error) {
	kb, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("ordmap: marshal key %v: %w", key, err)
	}
	if len(kb) > 0 && kb[0] == '"' {
		return kb, nil
	}
	quoted := make([]byte, 0, len(kb)+2)
	quoted = append(quoted, '"')
	quoted = append(quoted, kb...)
	return append(quoted, '"'), nil
}

// unmarshalJSONKey parses an object member name back into a key.
// String-kinded keys take the name verbatim (re-quoted); numeric keys
// parse from the bare name.
func unmarshalJSONKey[K any](name string) (K, error) {
	var key K
	if reflect.ValueOf(&key).Elem().Kind() == reflect.String {
		reflect.ValueOf(&key).Elem().SetString(name)
		return key, nil
	}
	if err := json.Unmarshal([]byte(name), &key); err != nil {
		return key, fmt.Errorf("ordmap: unmarshal key %q: %w", name, err)
	}
	return key, nil
}
