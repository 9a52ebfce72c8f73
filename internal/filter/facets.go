package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/idilsaglam/placemap/internal/model"
)

// Facet is one toggle value with the number of places carrying it.
type Facet struct {
	Value string
	Count int
}

// Types lists the distinct types of places, sorted by name.
func Types(places []model.Place) []Facet {
	counts := map[string]int{}
	for _, p := range places {
		counts[p.Type]++
	}
	return sorted(counts)
}

// Tags lists the distinct tags of places, lowercased and sorted. Tags
// differing only in case are one facet, as they are one toggle.
func Tags(places []model.Place) []Facet {
	counts := map[string]int{}
	for _, p := range places {
		seen := map[string]bool{}
		for _, t := range p.Tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			counts[t]++
		}
	}
	return sorted(counts)
}

func sorted(counts map[string]int) []Facet {
	out := make([]Facet, 0, len(counts))
	for v, n := range counts {
		out = append(out, Facet{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b Facet) int { return cmp.Compare(a.Value, b.Value) })
	return out
}
