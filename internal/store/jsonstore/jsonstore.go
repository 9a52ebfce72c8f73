package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/placemap/internal/model"
)

// Exports of the visible subset. Single file, human-readable, portable.
// Save writes the generic {"places": [...]} layout, so loading an export
// back is the identity.

type document struct {
	Places []record `json:"places"`
}

// record is a place as exported. Coordinates are left out for unlocated
// places, which would otherwise come back as located at 0,0.
type record struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	Note        string   `json:"note,omitempty"`
	Page        string   `json:"page,omitempty"`
	Link        string   `json:"link,omitempty"`
	Picture     string   `json:"picture,omitempty"`
}

func toRecord(p model.Place) record {
	r := record{
		Name:        p.Name,
		Type:        p.Type,
		Tags:        p.Tags,
		Description: p.Description,
		Note:        p.Note,
		Page:        p.Page,
		Link:        p.Link,
		Picture:     p.Picture,
	}
	if p.Located {
		lat, lng := p.Lat, p.Lng
		r.Lat, r.Lng = &lat, &lng
	}
	return r
}

// Save writes places to path, choosing GeoJSON for a .geojson extension.
func Save(path string, places []model.Place) error {
	if strings.EqualFold(filepath.Ext(path), ".geojson") {
		return SaveGeoJSON(path, places)
	}
	doc := document{Places: make([]record, 0, len(places))}
	for _, p := range places {
		doc.Places = append(doc.Places, toRecord(p))
	}
	return writeJSON(path, doc)
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
}

// FeatureCollection converts places to GeoJSON Point features. Places without
// coordinates are skipped.
func FeatureCollection(places []model.Place) any {
	fc := featureCollection{Type: "FeatureCollection", Features: []feature{}}
	for _, p := range places {
		if !p.HasCoords() {
			continue
		}
		props := map[string]any{"name": p.Name, "type": p.Type}
		if len(p.Tags) > 0 {
			props["tags"] = p.Tags
		}
		for k, v := range map[string]string{
			"description": p.Description, "note": p.Note, "page": p.Page, "link": p.Link, "picture": p.Picture,
		} {
			if v != "" {
				props[k] = v
			}
		}
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Geometry:   geometry{Type: "Point", Coordinates: []float64{p.Lng, p.Lat}},
			Properties: props,
		})
	}
	return fc
}

func SaveGeoJSON(path string, places []model.Place) error {
	return writeJSON(path, FeatureCollection(places))
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
