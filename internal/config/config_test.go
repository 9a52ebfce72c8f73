package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"PLACEMAP_SOURCE":    "a.json, https://x.test/b.csv,,",
		"PLACEMAP_LOGLEVEL":  "debug",
		"PLACEMAP_TIMEOUT":   "5s",
		"PLACEMAP_CACHE_TTL": "0",
		"PLACEMAP_THEME":     "mono",
	}
	c, err := FromEnv(func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	want := Defaults()
	want.Sources = []string{"a.json", "https://x.test/b.csv"}
	want.LogLevel = "debug"
	want.Timeout = 5 * time.Second
	want.CacheTTL = 0
	want.Theme = "mono"
	if !reflect.DeepEqual(c, want) {
		t.Errorf("FromEnv() = %+v, want %+v", c, want)
	}
}

func TestFromEnvBadDuration(t *testing.T) {
	env := map[string]string{"PLACEMAP_TIMEOUT": "soon"}
	if _, err := FromEnv(func(k string) string { return env[k] }); err == nil {
		t.Errorf("FromEnv() expected an error")
	}
}

func TestLoadEnvFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte("PLACEMAP_PAGE_BASE=https://x.test/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PLACEMAP_PAGE_BASE", "")
	os.Unsetenv("PLACEMAP_PAGE_BASE")

	c, err := LoadEnv(p)
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if c.PageBase != "https://x.test/" {
		t.Errorf("PageBase = %q", c.PageBase)
	}

	if _, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadEnv() with a missing file error = %v", err)
	}
}

func TestFlagsOverride(t *testing.T) {
	c := Defaults()
	fs := flag.NewFlagSet("placemap", flag.ContinueOnError)
	c.RegisterFlags(fs)
	if err := fs.Parse([]string{"-src", "x.csv,y.json", "-cachettl", "1m", "ls"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(c.Sources, []string{"x.csv", "y.json"}) || c.CacheTTL != time.Minute {
		t.Errorf("config = %+v", c)
	}
	if !reflect.DeepEqual(fs.Args(), []string{"ls"}) {
		t.Errorf("Args() = %v", fs.Args())
	}
}
