// Package tui is the interactive front-end: the visible places as a list,
// with type checkboxes and tag toggles above it.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/idilsaglam/placemap/internal/filter"
	"github.com/idilsaglam/placemap/internal/log"
	"github.com/idilsaglam/placemap/internal/model"
	"github.com/idilsaglam/placemap/internal/source"
)

// LoadFailedMessage replaces the list when a load fails.
const LoadFailedMessage = "unable to load places"

type Options struct {
	Sources  []string
	Loader   *source.Loader
	Log      *log.Logger
	PageBase string
	Open     func(url string) error // defaults to opening the system browser
}

type focus int

const (
	focusList focus = iota
	focusTypes
	focusTags
	numFocus
)

type loadedMsg struct{ places []model.Place }
type loadFailedMsg struct{ err error }
type openedMsg struct {
	ref string
	err error
}

// placeItem adapts model.Place to bubbles/list.Item
type placeItem struct{ model.Place }

func (i placeItem) Title() string       { return i.Name }
func (i placeItem) Description() string { return i.Type }
func (i placeItem) FilterValue() string { return i.Name }

// Single-line rendering: name, type, tags.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(placeItem)
	if !ok {
		return
	}
	line := it.Name + "  " + accentStyle.Render(typeLabel(it.Type))
	if len(it.Tags) > 0 {
		line += "  " + mutedStyle.Render("#"+strings.Join(it.Tags, " #"))
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

func typeLabel(t string) string {
	if t == "" {
		return "(none)"
	}
	return t
}

type Model struct {
	opt     Options
	list    list.Model
	spinner spinner.Model

	places  []model.Place // single writer: the load result
	visible []model.Place
	state   filter.State
	types   []filter.Facet
	tags    []filter.Facet

	focus   focus
	cursor  int // position in the focused toggle bar
	loading bool
	errMsg  string
	status  string
	width   int
	height  int
}

var (
	tabBind    = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "types/tags"))
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	typeBind   = key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "type"))
	allBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all"))
	openBind   = key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o", "open"))
	reloadBind = key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r/R", "reload"))
)

func New(opt Options) Model {
	if opt.Open == nil {
		opt.Open = browser.OpenURL
	}
	if opt.Loader == nil {
		opt.Loader = source.New(source.Options{Log: opt.Log})
	}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("place", "places")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{tabBind, toggleBind, openBind, reloadBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{tabBind, toggleBind, typeBind, allBind, openBind, reloadBind}
	}

	m := Model{
		opt:     opt,
		list:    l,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
	m.resize(80, 24)
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opt Options) error {
	_, err := tea.NewProgram(New(opt), tea.WithAltScreen()).Run()
	return err
}

// Visible returns the places currently shown.
func (m Model) Visible() []model.Place { return m.visible }

// State returns the current toggle state.
func (m Model) State() filter.State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(false))
}

// load fetches asynchronously; hard drops cached bodies first.
func (m Model) load(hard bool) tea.Cmd {
	loader, refs := m.opt.Loader, m.opt.Sources
	return func() tea.Msg {
		if hard {
			loader.Forget(refs...)
		}
		places, err := loader.Load(context.Background(), refs...)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{places: places}
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	// border + padding, header, two toggle bars, blank line, status
	lh := h - 8
	if lh < 3 {
		lh = 3
	}
	m.list.SetSize(max(w-4, 10), lh)
}

// recompute derives the visible subset from the place list and the toggles.
func (m *Model) recompute() tea.Cmd {
	m.visible = filter.Apply(m.places, m.state)
	m.types = filter.Types(m.places)
	m.tags = filter.Tags(m.places)
	if n := m.barLen(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	items := make([]list.Item, 0, len(m.visible))
	for _, p := range m.visible {
		items = append(items, placeItem{p})
	}
	return m.list.SetItems(items)
}

func (m Model) barLen() int {
	switch m.focus {
	case focusTypes:
		return len(m.types)
	case focusTags:
		return len(m.tags)
	}
	return 0
}

func (m *Model) toggleAtCursor() {
	switch m.focus {
	case focusTypes:
		if m.cursor < len(m.types) {
			m.state.ToggleType(m.types[m.cursor].Value)
		}
	case focusTags:
		if m.cursor < len(m.tags) {
			m.state.ToggleTag(m.tags[m.cursor].Value)
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		m.loading = false
		m.errMsg = ""
		m.places = msg.places
		m.state = filter.NewState(m.places)
		m.status = fmt.Sprintf("loaded %d places", len(m.places))
		return m, m.recompute()

	case loadFailedMsg:
		m.loading = false
		m.opt.Log.Error("load failed", "sources", m.opt.Sources, "err", msg.err)
		m.errMsg = LoadFailedMessage
		m.places = nil
		m.state = filter.State{}
		m.status = ""
		return m, m.recompute()

	case openedMsg:
		if msg.err != nil {
			m.opt.Log.Warn("open failed", "ref", msg.ref, "err", msg.err)
			m.status = "could not open " + msg.ref
		} else {
			m.status = "opened " + msg.ref
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if next, cmd, ok := m.handleKey(msg); ok {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKey reports ok=false for keys the list should receive.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	k := msg.String()
	switch k {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "tab":
		m.focus = (m.focus + 1) % numFocus
		m.cursor = 0
		return m, nil, true
	case "shift+tab":
		m.focus = (m.focus + numFocus - 1) % numFocus
		m.cursor = 0
		return m, nil, true
	case "r", "R":
		if m.loading {
			return m, nil, true
		}
		m.loading = true
		m.status = "loading…"
		return m, tea.Batch(m.spinner.Tick, m.load(k == "R")), true
	case "a":
		m.state.Reset(m.places)
		return m, m.recompute(), true
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(k[0] - '1')
		if i < len(m.types) {
			m.state.ToggleType(m.types[i].Value)
			return m, m.recompute(), true
		}
		return m, nil, true
	}

	if m.focus != focusList {
		switch k {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < m.barLen()-1 {
				m.cursor++
			}
		case " ", "enter", "x":
			m.toggleAtCursor()
			return m, m.recompute(), true
		case "esc":
			m.focus = focusList
		}
		return m, nil, true
	}

	switch k {
	case "enter", "o":
		it, ok := m.list.SelectedItem().(placeItem)
		if !ok {
			return m, nil, true
		}
		ref := it.Ref(m.opt.PageBase)
		if ref == "" {
			m.status = "no link for " + it.Name
			return m, nil, true
		}
		open := m.opt.Open
		return m, func() tea.Msg { return openedMsg{ref: ref, err: open(ref)} }, true
	}
	return m, nil, false
}

func (m Model) View() string {
	var b strings.Builder

	located := 0
	for _, p := range m.places {
		if p.HasCoords() {
			located++
		}
	}
	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Places"),
		successStyle.Render("◉"), len(m.visible),
		pendingStyle.Render("○"), located-len(m.visible),
		accentStyle.Render("Total"), len(m.places),
	)
	if m.loading {
		header += "  " + m.spinner.View() + " loading"
	}
	b.WriteString(header + "\n")
	b.WriteString(m.typesBar() + "\n")
	b.WriteString(m.tagsBar() + "\n\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("✖ " + m.errMsg))
	} else {
		b.WriteString(m.list.View())
	}
	if m.status != "" {
		b.WriteString("\n" + mutedStyle.Render(m.status))
	}
	return panelString(b.String())
}

func (m Model) typesBar() string {
	parts := make([]string, 0, len(m.types))
	for i, f := range m.types {
		box := mutedStyle.Render(boxUnchecked)
		if m.state.TypeSelected(f.Value) {
			box = successStyle.Render(boxChecked)
		}
		label := fmt.Sprintf("%s (%d)", typeLabel(f.Value), f.Count)
		if m.focus == focusTypes && i == m.cursor {
			label = cursorStyle.Render(label)
		}
		parts = append(parts, box+" "+label)
	}
	return m.barTitle("Types", focusTypes) + strings.Join(parts, "  ")
}

func (m Model) tagsBar() string {
	parts := make([]string, 0, len(m.tags))
	for i, f := range m.tags {
		label := fmt.Sprintf("%s (%d)", f.Value, f.Count)
		dot := mutedStyle.Render(tagOff)
		if m.state.TagActive(f.Value) {
			dot = accentStyle.Render(tagOn)
			label = accentStyle.Render(label)
		}
		if m.focus == focusTags && i == m.cursor {
			label = cursorStyle.Render(label)
		}
		parts = append(parts, dot+" "+label)
	}
	if len(parts) == 0 {
		parts = append(parts, mutedStyle.Render("(no tags)"))
	}
	return m.barTitle("Tags", focusTags) + strings.Join(parts, "  ")
}

func (m Model) barTitle(name string, f focus) string {
	title := fmt.Sprintf("%-6s", name)
	if m.focus == f {
		return selectedStyle.Render(title) + " "
	}
	return mutedStyle.Render(title) + " "
}
