// Package filter derives the visible subset of places from the type
// checkboxes and tag toggles.
package filter

import (
	"slices"
	"strings"

	"github.com/idilsaglam/placemap/internal/model"
)

// State is the toggle state. The zero value selects nothing.
type State struct {
	types map[string]bool // selected types
	tags  map[string]bool // active tags, lowercase
}

// NewState selects every type present in places and activates no tag.
func NewState(places []model.Place) State {
	s := State{types: map[string]bool{}, tags: map[string]bool{}}
	for _, p := range places {
		s.types[p.Type] = true
	}
	return s
}

func (s *State) init() {
	if s.types == nil {
		s.types = map[string]bool{}
	}
	if s.tags == nil {
		s.tags = map[string]bool{}
	}
}

func (s *State) ToggleType(t string) {
	s.init()
	if s.types[t] {
		delete(s.types, t)
	} else {
		s.types[t] = true
	}
}

func (s *State) ToggleTag(tag string) {
	s.init()
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return
	}
	if s.tags[tag] {
		delete(s.tags, tag)
	} else {
		s.tags[tag] = true
	}
}

// SelectOnly replaces the selected type set.
func (s *State) SelectOnly(types ...string) {
	s.types = make(map[string]bool, len(types))
	for _, t := range types {
		s.types[t] = true
	}
}

// SetTags replaces the active tag set.
func (s *State) SetTags(tags ...string) {
	s.tags = map[string]bool{}
	for _, t := range model.NormalizeTags(tags) {
		s.tags[t] = true
	}
}

// Reset selects every type of places and clears the tags.
func (s *State) Reset(places []model.Place) {
	*s = NewState(places)
}

func (s State) TypeSelected(t string) bool { return s.types[t] }
func (s State) TagActive(tag string) bool  { return s.tags[strings.ToLower(tag)] }

// ActiveTags returns the active tags, sorted.
func (s State) ActiveTags() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Match reports whether p is visible: it has coordinates, its type is
// selected, and it carries every active tag.
func (s State) Match(p model.Place) bool {
	if !p.HasCoords() || !s.types[p.Type] {
		return false
	}
	for tag := range s.tags {
		if !p.HasTag(tag) {
			return false
		}
	}
	return true
}

// Apply returns the ordered subsequence of places matching s. The input is
// not modified.
func Apply(places []model.Place, s State) []model.Place {
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if s.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
