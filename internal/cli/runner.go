package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/goforj/godump"
	"github.com/mattn/go-runewidth"

	"github.com/idilsaglam/placemap/internal/config"
	"github.com/idilsaglam/placemap/internal/filter"
	"github.com/idilsaglam/placemap/internal/log"
	"github.com/idilsaglam/placemap/internal/model"
	"github.com/idilsaglam/placemap/internal/source"
	"github.com/idilsaglam/placemap/internal/store/jsonstore"
	"github.com/idilsaglam/placemap/internal/tui"
	"github.com/idilsaglam/placemap/internal/ui"
)

// Options carry what the root flags and environment resolved.
type Options struct {
	Config config.Config
	Log    *log.Logger
	Loader *source.Loader // built from Config when nil
}

func (o Options) loader() *source.Loader {
	if o.Loader != nil {
		return o.Loader
	}
	return source.New(source.Options{
		Timeout:  o.Config.Timeout,
		CacheTTL: o.Config.CacheTTL,
		Log:      o.Log,
	})
}

// pageBase is the configured base, else the first remote source.
func (o Options) pageBase() string {
	if o.Config.PageBase != "" {
		return o.Config.PageBase
	}
	for _, s := range o.Config.Sources {
		if source.IsRemote(s) {
			return s
		}
	}
	return ""
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "browse":
		return doBrowse(opt)

	case "ls":
		f, code := parseFilterFlags("ls", a, true)
		if code != 0 {
			return code
		}
		return doList(opt, f)

	case "types":
		return doFacets(opt, "Types", filter.Types)

	case "tags":
		return doFacets(opt, "Tags", filter.Tags)

	case "export":
		f, code := parseFilterFlags("export", a, false)
		if code != 0 {
			return code
		}
		if len(f.rest) != 1 {
			ui.Fail("usage: placemap export [-type a,b] [-tag x,y] <out.json|out.geojson>")
			return 2
		}
		return doExport(opt, f, f.rest[0])

	case "dump":
		return doDump(opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Out())
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprintf(ui.Out(), `placemap - points of interest from JSON or CSV sources

Usage:
  placemap [flags] <subcommand> [args]

Subcommands:
  browse                              Interactive list with type/tag toggles
  ls [-type a,b] [-tag x,y] [-group]  Print the visible places
  types                               List types with counts
  tags                                List tags with counts
  export [-type a,b] [-tag x,y] <out.json|out.geojson>
                                      Write the visible places
  dump                                Dump the normalized records

Flags:
  -src a.json,https://host/b.csv      Data sources (env PLACEMAP_SOURCE)
  -loglevel, -logdir, -timeout, -cachettl, -pagebase, -theme

Examples:
  placemap -src places.json browse
  placemap ls -type pizzeria,brunch -tag veg
  placemap export -tag baby visible.geojson
`)
}

type filterFlags struct {
	types []string
	tags  []string
	group bool
	rest  []string
}

func parseFilterFlags(name string, args []string, withGroup bool) (filterFlags, int) {
	var f filterFlags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Func("type", "comma-separated types to show", func(s string) error {
		f.types = append(f.types, config.SplitList(s)...)
		return nil
	})
	fs.Func("tag", "comma-separated tags every place must carry", func(s string) error {
		f.tags = append(f.tags, config.SplitList(s)...)
		return nil
	})
	if withGroup {
		fs.BoolVar(&f.group, "group", false, "group output by type")
	}
	if err := fs.Parse(args); err != nil {
		ui.Fail(name + ": " + err.Error())
		return f, 2
	}
	f.rest = fs.Args()
	return f, 0
}

func (f filterFlags) state(places []model.Place) filter.State {
	s := filter.NewState(places)
	if len(f.types) > 0 {
		s.SelectOnly(f.types...)
	}
	s.SetTags(f.tags...)
	return s
}

// -------------- subcommand impls ----------------

// load fetches every source. A failure is logged once and reported with a
// static message.
func load(opt Options) ([]model.Place, bool) {
	places, err := opt.loader().Load(context.Background(), opt.Config.Sources...)
	if err != nil {
		opt.Log.Error("load failed", "sources", opt.Config.Sources, "err", err)
		ui.Fail(tui.LoadFailedMessage)
		if opt.Log != nil && opt.Log.Path != "" {
			ui.Hint("Details in " + opt.Log.Path)
		}
		return nil, false
	}
	return places, true
}

func doBrowse(opt Options) int {
	err := tui.Run(tui.Options{
		Sources:  opt.Config.Sources,
		Loader:   opt.loader(),
		Log:      opt.Log,
		PageBase: opt.pageBase(),
	})
	if err != nil {
		opt.Log.Error("tui", "err", err)
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doList(opt Options, f filterFlags) int {
	places, ok := load(opt)
	if !ok {
		return 1
	}
	state := f.state(places)
	visible := filter.Apply(places, state)

	located := 0
	for _, p := range places {
		if p.HasCoords() {
			located++
		}
	}
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Places"),
		ui.C(t.Success, t.SymPin), len(visible),
		ui.C(t.Pending, t.SymNoPin), located-len(visible),
		ui.C(t.Accent, "Total"), len(places),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(len(visible), located, 28)))
	if len(f.types) > 0 || len(f.tags) > 0 {
		lines = append(lines, ui.C(t.Muted, filterSummary(f, state)))
	}
	lines = append(lines, "")

	if f.group {
		lines = append(lines, groupLines(visible)...)
	} else {
		lines = append(lines, flatLines(visible)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: toggle types and tags with `placemap browse`"))
	ui.Panel(lines)
	return 0
}

func doFacets(opt Options, title string, facets func([]model.Place) []filter.Facet) int {
	places, ok := load(opt)
	if !ok {
		return 1
	}
	t := ui.Current()
	fs := facets(places)
	lines := []string{ui.C(t.Title, title), ""}
	if len(fs) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	}
	for _, f := range fs {
		lines = append(lines, fmt.Sprintf("%s %-20s %s", ui.C(t.Success, t.BoxChecked), label(f.Value), ui.C(t.Muted, fmt.Sprint(f.Count))))
	}
	ui.Panel(lines)
	return 0
}

func doExport(opt Options, f filterFlags, path string) int {
	places, ok := load(opt)
	if !ok {
		return 1
	}
	visible := filter.Apply(places, f.state(places))
	if err := jsonstore.Save(path, visible); err != nil {
		opt.Log.Error("export failed", "path", path, "err", err)
		ui.Fail("export: " + err.Error())
		return 1
	}
	opt.Log.Info("exported", "path", path, "places", len(visible))
	ui.OK(fmt.Sprintf("exported %d places to %s", len(visible), path))
	return 0
}

func doDump(opt Options) int {
	places, ok := load(opt)
	if !ok {
		return 1
	}
	godump.Fdump(ui.Out(), places)
	return 0
}

// -------------- rendering helpers --------------

func label(t string) string {
	if t == "" {
		return "(none)"
	}
	return t
}

func filterSummary(f filterFlags, s filter.State) string {
	var parts []string
	if len(f.types) > 0 {
		parts = append(parts, "types: "+strings.Join(f.types, ", "))
	}
	if tags := s.ActiveTags(); len(tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(tags, ", "))
	}
	return strings.Join(parts, "  ")
}

func placeLine(i int, p model.Place) string {
	t := ui.Current()
	idx := fmt.Sprintf("%2d.", i+1)
	name := runewidth.Truncate(p.Name, 60, "...")
	line := fmt.Sprintf("%s %s %s  %s", ui.Dim(idx), ui.C(t.Success, t.SymPin), name, ui.C(t.Accent, label(p.Type)))
	if len(p.Tags) > 0 {
		line += "  " + ui.C(t.Muted, t.SymTag+strings.Join(p.Tags, " "+t.SymTag))
	}
	return line
}

func flatLines(places []model.Place) []string {
	if len(places) == 0 {
		return []string{ui.C(ui.Current().Muted, "no places")}
	}
	out := make([]string, 0, len(places))
	for i, p := range places {
		out = append(out, placeLine(i, p))
	}
	return out
}

func groupLines(places []model.Place) []string {
	var lines []string
	for _, tf := range filter.Types(places) {
		var group []model.Place
		for _, p := range places {
			if p.Type == tf.Value {
				group = append(group, p)
			}
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ui.C(ui.Current().Accent, label(tf.Value)))
		lines = append(lines, flatLines(group)...)
	}
	if len(lines) == 0 {
		return []string{ui.C(ui.Current().Muted, "(none)")}
	}
	return lines
}
