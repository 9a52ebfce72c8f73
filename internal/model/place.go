package model

import (
	"math"
	"net/url"
	"strings"
)

// Place is one point-of-interest record, already normalized.
// Lat/Lng are only meaningful when Located is set.
type Place struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	Note        string   `json:"note,omitempty"`
	Page        string   `json:"page,omitempty"`
	Link        string   `json:"link,omitempty"`
	Picture     string   `json:"picture,omitempty"`

	Located bool `json:"-"`
}

// HasCoords reports whether the place can be put on a map.
func (p Place) HasCoords() bool {
	if !p.Located {
		return false
	}
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// HasTag is case-insensitive.
func (p Place) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range p.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// Ref returns the external link when present, else the internal page
// resolved against base. Empty when the place has neither.
func (p Place) Ref(base string) string {
	if p.Link != "" {
		return p.Link
	}
	if p.Page == "" {
		return ""
	}
	if base == "" {
		return p.Page
	}
	b, err := url.Parse(base)
	if err != nil {
		return p.Page
	}
	r, err := url.Parse(p.Page)
	if err != nil {
		return p.Page
	}
	return b.ResolveReference(r).String()
}

// NormalizeTags lowercases and trims tags, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitTags splits a single "veg, baby;terrace" cell into normalized tags.
func SplitTags(s string) []string {
	return NormalizeTags(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	}))
}
