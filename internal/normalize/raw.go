package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/idilsaglam/placemap/internal/model"
)

// rawPlace is the lenient decoding target for one JSON item. Hand-edited
// data files mix numbers and strings freely, so every field tolerates both.
type rawPlace struct {
	Name        text    `json:"name"`
	Type        text    `json:"type"`
	Lat         coord   `json:"lat"`
	Latitude    coord   `json:"latitude"`
	Lng         coord   `json:"lng"`
	Lon         coord   `json:"lon"`
	Longitude   coord   `json:"longitude"`
	Tags        tagList `json:"tags"`
	Description text    `json:"description"`
	Note        text    `json:"note"`
	Page        text    `json:"page"`
	Link        text    `json:"link"`
	Picture     text    `json:"picture"`
}

func (r rawPlace) place() model.Place {
	lat := firstCoord(r.Lat, r.Latitude)
	lng := firstCoord(r.Lng, r.Lon, r.Longitude)
	return model.Place{
		Name:        string(r.Name),
		Type:        string(r.Type),
		Lat:         lat.v,
		Lng:         lng.v,
		Tags:        []string(r.Tags),
		Description: string(r.Description),
		Note:        string(r.Note),
		Page:        string(r.Page),
		Link:        string(r.Link),
		Picture:     string(r.Picture),
		Located:     lat.ok && lng.ok,
	}
}

func firstCoord(cs ...coord) coord {
	for _, c := range cs {
		if c.ok {
			return c
		}
	}
	return coord{}
}

func decodeAny(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

type coord struct {
	v  float64
	ok bool
}

func (c *coord) UnmarshalJSON(b []byte) error {
	v, err := decodeAny(b)
	if err != nil {
		return err
	}
	*c = coord{}
	switch x := v.(type) {
	case json.Number:
		c.v, c.ok = ParseCoord(x.String())
	case string:
		c.v, c.ok = ParseCoord(x)
	}
	return nil
}

type text string

func (s *text) UnmarshalJSON(b []byte) error {
	v, err := decodeAny(b)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = text(x)
	case json.Number:
		*s = text(x.String())
	case bool:
		*s = text(fmt.Sprint(x))
	default:
		return fmt.Errorf("expected a string, got %T", v)
	}
	return nil
}

type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	v, err := decodeAny(b)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = nil
	case string:
		*t = model.SplitTags(x)
	case []any:
		tags := make([]string, 0, len(x))
		for _, e := range x {
			switch s := e.(type) {
			case string:
				tags = append(tags, s)
			case json.Number:
				tags = append(tags, s.String())
			}
		}
		*t = model.NormalizeTags(tags)
	default:
		return fmt.Errorf("tags: expected a list or a string, got %T", v)
	}
	return nil
}
