// Package extras loads the manually maintained map of per-episode data
// which is not present in the feed, keyed by normalized episode number.
package extras

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Map holds extras keyed by episode number, e.g. {"8": {"page": "/ep/8"}}
type Map struct {
	items map[string]any
}

// New makes a map from already decoded items, nil items give an empty map
func New(items map[string]any) *Map {
	if items == nil {
		items = map[string]any{}
	}
	return &Map{items: items}
}

// Load reads the extras file. A missing file is not an error and gives an empty map.
// Files with .yml or .yaml extension are parsed as YAML, anything else as JSON.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from CLI flag
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("read extras file: %w", err)
	}

	var items map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &items)
	default:
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("parse extras file %s: %w", path, err)
	}
	return New(items), nil
}

// Len returns the number of keys
func (m *Map) Len() int {
	return len(m.items)
}

// Page returns the page of the episode with the given key, empty if the key is unknown
// or has no page. A value which is not an object is an error.
func (m *Map) Page(key string) (string, error) {
	val, ok := m.items[key]
	if !ok {
		return "", nil
	}

	var page any
	switch v := val.(type) {
	case map[string]any:
		page = v["page"]
	case map[any]any:
		page = v["page"]
	default:
		return "", fmt.Errorf("extras for %q is %T, not an object", key, val)
	}

	switch p := page.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	case map[string]any, map[any]any, []any:
		return "", fmt.Errorf("page for %q is %T, not a scalar", key, page)
	default:
		return fmt.Sprint(p), nil
	}
}
