package model

import (
	"math"
	"reflect"
	"testing"
)

func TestHasCoords(t *testing.T) {
	tests := []struct {
		name  string
		place Place
		want  bool
	}{
		{"located", Place{Lat: 48.58, Lng: 7.75, Located: true}, true},
		{"zero but located", Place{Located: true}, true},
		{"not located", Place{Lat: 48.58, Lng: 7.75}, false},
		{"nan", Place{Lat: math.NaN(), Lng: 7.75, Located: true}, false},
		{"inf", Place{Lat: 1, Lng: math.Inf(1), Located: true}, false},
		{"lat out of range", Place{Lat: 91, Lng: 7.75, Located: true}, false},
		{"lng out of range", Place{Lat: 48, Lng: -181, Located: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.place.HasCoords(); got != tt.want {
				t.Errorf("HasCoords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasTag(t *testing.T) {
	p := Place{Tags: []string{"veg", "Baby"}}
	for _, tag := range []string{"veg", "VEG", " baby "} {
		if !p.HasTag(tag) {
			t.Errorf("HasTag(%q) = false, want true", tag)
		}
	}
	if p.HasTag("terrace") {
		t.Errorf("HasTag(terrace) = true, want false")
	}
}

func TestRef(t *testing.T) {
	tests := []struct {
		name  string
		place Place
		base  string
		want  string
	}{
		{"link wins", Place{Link: "https://example.org/a", Page: "a.html"}, "https://x.test/", "https://example.org/a"},
		{"page resolved", Place{Page: "pages/a.html"}, "https://x.test/data/places.json", "https://x.test/data/pages/a.html"},
		{"page without base", Place{Page: "pages/a.html"}, "", "pages/a.html"},
		{"nothing", Place{}, "https://x.test/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.place.Ref(tt.base); got != tt.want {
				t.Errorf("Ref() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"veg,baby", []string{"veg", "baby"}},
		{" Veg ; BABY, veg ", []string{"veg", "baby"}},
		{"", nil},
		{",,;", nil},
	}
	for _, tt := range tests {
		if got := SplitTags(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitTags(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
