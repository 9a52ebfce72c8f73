// Package normalize turns the data shapes found in the wild (generic
// "places" arrays, legacy category-keyed documents, spreadsheet CSV exports)
// into one ordered list of model.Place.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/idilsaglam/placemap/internal/model"
)

// ErrNoPlaces is returned when a document holds nothing that looks like a
// list of places.
var ErrNoPlaces = errors.New("no places found")

// LegacyKeys are the category arrays of the historical document layout,
// e.g. {"pizzerias": [...], "brunchs": [...]}.
var LegacyKeys = map[string]bool{
	"brunchs":     true,
	"pizzerias":   true,
	"restaurants": true,
	"cafes":       true,
	"fast-foods":  true,
}

const placesKey = "places"

var utf8BOM = []byte("\xef\xbb\xbf")

// JSON normalizes a JSON document. Precedence: a bare array, then a
// "places" array (used verbatim), then every legacy category key (type taken
// from the key), then every top-level array of objects.
func JSON(data []byte) ([]model.Place, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return nil, ErrNoPlaces
	}
	switch data[0] {
	case '[':
		return decodeItems(data, "", foldNone)
	case '{':
	default:
		return nil, fmt.Errorf("json: document is neither an object nor an array")
	}

	// orderedmap only gives us key order; values are decoded from the raw map.
	om := orderedmap.New()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	if raw, ok := fields[placesKey]; ok && isArray(raw) {
		return decodeItems(raw, placesKey, foldNone)
	}

	var (
		out    []model.Place
		legacy bool
	)
	for _, k := range om.Keys() {
		raw := fields[k]
		if !LegacyKeys[k] || !isArray(raw) {
			continue
		}
		legacy = true
		items, err := decodeItems(raw, k, foldForce)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	if legacy {
		return nonNil(out), nil
	}

	var found bool
	for _, k := range om.Keys() {
		raw := fields[k]
		if !isArray(raw) || !hasObject(raw) {
			continue
		}
		found = true
		items, err := decodeItems(raw, k, foldDefault)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	if !found {
		return nil, ErrNoPlaces
	}
	return out, nil
}

type foldMode int

const (
	foldNone    foldMode = iota // keep the item's own type
	foldForce                   // type always comes from the array key
	foldDefault                 // array key only fills a missing type
)

// TypeFromKey strips one trailing plural "s": "pizzerias" -> "pizzeria".
func TypeFromKey(key string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(key)), "s")
}

func decodeItems(raw json.RawMessage, key string, mode foldMode) ([]model.Place, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("json %s: %w", key, err)
	}
	out := make([]model.Place, 0, len(items))
	for i, it := range items {
		if !isObject(it) {
			continue
		}
		var rp rawPlace
		if err := json.Unmarshal(it, &rp); err != nil {
			return nil, fmt.Errorf("json %s[%d]: %w", key, i, err)
		}
		p := rp.place()
		switch mode {
		case foldForce:
			p.Type = TypeFromKey(key)
		case foldDefault:
			if p.Type == "" {
				p.Type = TypeFromKey(key)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func hasObject(raw json.RawMessage) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	for _, it := range items {
		if isObject(it) {
			return true
		}
	}
	return false
}

func nonNil(p []model.Place) []model.Place {
	if p == nil {
		return []model.Place{}
	}
	return p
}
