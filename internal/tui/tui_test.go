package tui

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/placemap/internal/model"
	"github.com/idilsaglam/placemap/internal/source"
)

func testPlaces() []model.Place {
	return []model.Place{
		{Name: "A", Type: "restaurant", Lat: 48.58, Lng: 7.75, Tags: []string{"veg", "baby"}, Link: "https://a.test", Located: true},
		{Name: "B", Type: "pizzeria", Lat: 48.5, Lng: 7.7, Tags: []string{"veg"}, Page: "b.html", Located: true},
		{Name: "C", Type: "restaurant", Lat: 48.1, Lng: 7.1, Located: true},
		{Name: "D", Type: "brunch", Tags: []string{"veg"}},
	}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func keys(s ...string) []tea.Msg {
	var out []tea.Msg
	for _, k := range s {
		switch k {
		case "tab":
			out = append(out, tea.KeyMsg{Type: tea.KeyTab})
		case "right":
			out = append(out, tea.KeyMsg{Type: tea.KeyRight})
		case "esc":
			out = append(out, tea.KeyMsg{Type: tea.KeyEsc})
		case "enter":
			out = append(out, tea.KeyMsg{Type: tea.KeyEnter})
		case " ":
			out = append(out, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		default:
			out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
	return out
}

func visibleNames(m Model) []string {
	var out []string
	for _, p := range m.Visible() {
		out = append(out, p.Name)
	}
	return out
}

func loaded(t *testing.T, opt Options) Model {
	t.Helper()
	return send(t, New(opt), tea.WindowSizeMsg{Width: 100, Height: 30}, loadedMsg{places: testPlaces()})
}

func TestLoadedShowsLocatedPlaces(t *testing.T) {
	m := loaded(t, Options{})
	if got, want := visibleNames(m), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
	if len(m.list.Items()) != 3 {
		t.Errorf("list has %d items, want 3", len(m.list.Items()))
	}
	v := m.View()
	for _, s := range []string{"Places", "brunch (1)", "veg (3)"} {
		if !strings.Contains(v, s) {
			t.Errorf("View() missing %q", s)
		}
	}
}

func TestTypeShortcut(t *testing.T) {
	m := loaded(t, Options{})
	// types are sorted: brunch, pizzeria, restaurant
	m = send(t, m, keys("3")...)
	if got, want := visibleNames(m), []string{"B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after 3: visible = %v, want %v", got, want)
	}
	m = send(t, m, keys("3")...)
	if got, want := visibleNames(m), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after 3 3: visible = %v, want %v", got, want)
	}
}

func TestTypeBar(t *testing.T) {
	m := loaded(t, Options{})
	m = send(t, m, keys("tab", "right", " ")...)
	if m.focus != focusTypes {
		t.Fatalf("focus = %v, want types", m.focus)
	}
	if m.State().TypeSelected("pizzeria") {
		t.Errorf("pizzeria still selected")
	}
	if got, want := visibleNames(m), []string{"A", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestTagBar(t *testing.T) {
	m := loaded(t, Options{})
	// tags are sorted: baby, veg
	m = send(t, m, keys("tab", "tab", "right", " ")...)
	if got, want := visibleNames(m), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("veg: visible = %v, want %v", got, want)
	}
	m = send(t, m, keys("h", " ")...)
	if got, want := visibleNames(m), []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("veg+baby: visible = %v, want %v", got, want)
	}
	m = send(t, m, keys("esc", "a")...)
	if m.focus != focusList {
		t.Errorf("esc did not return focus to the list")
	}
	if got, want := visibleNames(m), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after reset: visible = %v, want %v", got, want)
	}
}

func TestLoadFailure(t *testing.T) {
	m := loaded(t, Options{})
	m = send(t, m, loadFailedMsg{err: errors.New("boom")})
	if len(m.Visible()) != 0 {
		t.Errorf("visible after failure = %v", visibleNames(m))
	}
	if v := m.View(); !strings.Contains(v, LoadFailedMessage) || strings.Contains(v, "boom") {
		t.Errorf("View() = %q", v)
	}
}

func TestOpen(t *testing.T) {
	var opened []string
	open := func(u string) error {
		opened = append(opened, u)
		return nil
	}
	m := loaded(t, Options{PageBase: "https://x.test/data/", Open: open})

	_, cmd := m.Update(keys("o")[0])
	if cmd == nil {
		t.Fatalf("open produced no command")
	}
	m = send(t, m, cmd())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(keys("enter")[0])
	if cmd == nil {
		t.Fatalf("enter produced no command")
	}
	m = send(t, m, cmd())

	want := []string{"https://a.test", "https://x.test/data/b.html"}
	if !reflect.DeepEqual(opened, want) {
		t.Errorf("opened %v, want %v", opened, want)
	}
	if !strings.Contains(m.status, "opened https://x.test/data/b.html") {
		t.Errorf("status = %q", m.status)
	}
}

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "places.csv")
	if err := os.WriteFile(good, []byte("\"A\",\"restaurant\",\"48.58\",\"7.75\",\"veg,baby\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(Options{Sources: []string{good}, Loader: source.New(source.Options{})})
	msg := m.load(false)()
	lm, ok := msg.(loadedMsg)
	if !ok {
		t.Fatalf("load() = %T (%v), want loadedMsg", msg, msg)
	}
	if len(lm.places) != 1 || lm.places[0].Name != "A" {
		t.Errorf("places = %+v", lm.places)
	}

	m = New(Options{Sources: []string{filepath.Join(dir, "missing.json")}})
	if _, ok := m.load(true)().(loadFailedMsg); !ok {
		t.Errorf("load() of a missing file did not fail")
	}
}

func TestReloadKey(t *testing.T) {
	m := loaded(t, Options{})
	next, cmd := m.Update(keys("r")[0])
	m = next.(Model)
	if !m.loading || cmd == nil {
		t.Errorf("r did not start a reload")
	}
	// a second reload while loading is ignored
	if _, cmd := m.Update(keys("R")[0]); cmd != nil {
		t.Errorf("reload while loading produced a command")
	}
}

func TestQuit(t *testing.T) {
	m := loaded(t, Options{})
	_, cmd := m.Update(keys("q")[0])
	if cmd == nil {
		t.Fatalf("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q did not quit")
	}
}
