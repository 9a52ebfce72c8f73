// Package config resolves settings from an optional .env file, the
// environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "PLACEMAP_"

type Config struct {
	Sources  []string
	LogLevel string
	LogDir   string
	Timeout  time.Duration
	CacheTTL time.Duration
	PageBase string
	Theme    string
}

func Defaults() Config {
	return Config{
		Sources:  []string{"places.json"},
		LogLevel: "info",
		Timeout:  30 * time.Second,
		CacheTTL: 30 * time.Second,
		Theme:    "classic",
	}
}

// LoadEnv loads envFile (when it exists) into the process environment, then
// overlays PLACEMAP_* variables on the defaults. Variables already set in
// the environment win over the file.
func LoadEnv(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from PLACEMAP_* variables read through getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Defaults()
	if v := getenv(envPrefix + "SOURCE"); v != "" {
		c.Sources = SplitList(v)
	}
	if v := getenv(envPrefix + "LOGLEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv(envPrefix + "LOGDIR"); v != "" {
		c.LogDir = v
	}
	if v := getenv(envPrefix + "PAGE_BASE"); v != "" {
		c.PageBase = v
	}
	if v := getenv(envPrefix + "THEME"); v != "" {
		c.Theme = v
	}
	var err error
	if v := getenv(envPrefix + "TIMEOUT"); v != "" {
		if c.Timeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
	}
	if v := getenv(envPrefix + "CACHE_TTL"); v != "" {
		if c.CacheTTL, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("%sCACHE_TTL: %w", envPrefix, err)
		}
	}
	return c, nil
}

// RegisterFlags binds root flags to c; values already in c are the
// defaults shown in -help.
func (c *Config) RegisterFlags(set *flag.FlagSet) {
	set.Func("src", "comma-separated data sources, URLs or files (default "+strings.Join(c.Sources, ",")+")", func(s string) error {
		c.Sources = SplitList(s)
		return nil
	})
	set.StringVar(&c.LogLevel, "loglevel", c.LogLevel, "logging level: debug, info, warn, error")
	set.StringVar(&c.LogDir, "logdir", c.LogDir, "log file directory")
	set.DurationVar(&c.Timeout, "timeout", c.Timeout, "http timeout per source")
	set.DurationVar(&c.CacheTTL, "cachettl", c.CacheTTL, "how long fetched sources are reused (0 disables)")
	set.StringVar(&c.PageBase, "pagebase", c.PageBase, "base URL for relative place pages")
	set.StringVar(&c.Theme, "theme", c.Theme, "output theme: classic, neon, mono")
}

// SplitList splits a comma-separated list, trimming and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
