package form

import (
	"bytes"
	"encoding/json"
)

// Entry is one named payload value.
type Entry struct {
	Name  string
	Value any
}

// Payload is the normalized generation data. Entries keep schema order and
// serialize as a JSON object in that order.
type Payload []Entry

// Get returns the value stored under name.
func (p Payload) Get(name string) (any, bool) {
	for _, entry := range p {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return nil, false
}

// Map flattens the payload into an unordered map.
func (p Payload) Map() map[string]any {
	out := make(map[string]any, len(p))
	for _, entry := range p {
		out[entry.Name] = entry.Value
	}
	return out
}

func (p Payload) set(name string, value any) Payload {
	for i := range p {
		if p[i].Name == name {
			p[i].Value = value
			return p
		}
	}
	return append(p, Entry{Name: name, Value: value})
}

// MarshalJSON writes the entries as an object preserving order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
