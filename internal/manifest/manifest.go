package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"slices"
)

// Manifest maps asset request paths to built output paths. Entries keep
// their insertion order unless Sort is set.
type Manifest struct {
	Sort bool

	keys   []string
	values map[string]string
}

func New(sort bool) *Manifest {
	return &Manifest{
		Sort:   sort,
		values: make(map[string]string),
	}
}

// Set adds or replaces an entry. A replaced entry keeps its position.
func (m *Manifest) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Manifest) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in output order.
func (m *Manifest) Keys() []string {
	keys := slices.Clone(m.keys)
	if m.Sort {
		slices.Sort(keys)
	}
	return keys
}

func (m *Manifest) Len() int {
	return len(m.keys)
}

// MarshalJSON encodes the manifest as an object with keys in output order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')

	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteFile writes the manifest as indented JSON.
func (m *Manifest) WriteFile(path string) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644) //nolint:gosec // read by the web server alongside the assets
}
