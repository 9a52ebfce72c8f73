// Package source fetches place data from http(s) URLs or local files and
// hands it to the normalizer.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/placemap/internal/log"
	"github.com/idilsaglam/placemap/internal/model"
)

const (
	maxBodySize      = 64 << 20
	defaultCacheSize = 16
)

var ErrNoSource = errors.New("no data source given")

type Options struct {
	Timeout   time.Duration // per http request; 0 means no timeout
	CacheTTL  time.Duration // 0 disables the body cache
	CacheSize int
	Client    *http.Client // overrides Timeout when set
	Log       *log.Logger
}

type fetched struct {
	body        []byte
	contentType string
}

// Loader fetches and normalizes sources. It is safe for concurrent use.
type Loader struct {
	client *http.Client
	cache  *expirable.LRU[string, fetched]
	lg     *log.Logger
}

func New(opt Options) *Loader {
	l := &Loader{client: opt.Client, lg: opt.Log}
	if l.client == nil {
		l.client = &http.Client{Timeout: opt.Timeout}
	}
	if opt.CacheTTL > 0 {
		size := opt.CacheSize
		if size <= 0 {
			size = defaultCacheSize
		}
		l.cache = expirable.NewLRU[string, fetched](size, nil, opt.CacheTTL)
	}
	return l
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Load fetches every ref concurrently and returns their places concatenated
// in ref order. Any failure fails the whole load.
func (l *Loader) Load(ctx context.Context, refs ...string) ([]model.Place, error) {
	if len(refs) == 0 {
		return nil, ErrNoSource
	}
	results := make([][]model.Place, len(refs))
	eg, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			places, err := l.LoadOne(ctx, ref)
			if err != nil {
				return fmt.Errorf("%s: %w", ref, err)
			}
			results[i] = places
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []model.Place
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// LoadOne fetches and normalizes a single source.
func (l *Loader) LoadOne(ctx context.Context, ref string) ([]model.Place, error) {
	lg := l.lg.With("ref", ref)
	f, err := l.fetch(ctx, ref, lg)
	if err != nil {
		return nil, err
	}
	body, err := decompress(f.body)
	if err != nil {
		return nil, err
	}
	format := Detect(ref, f.contentType, body)
	places, err := Decode(format, body)
	if err != nil {
		return nil, err
	}
	lg.Info("loaded source", "format", format.String(), "places", len(places))
	return places, nil
}

// Forget drops refs from the body cache so the next load refetches them.
func (l *Loader) Forget(refs ...string) {
	if l.cache == nil {
		return
	}
	for _, r := range refs {
		l.cache.Remove(r)
	}
}

func (l *Loader) fetch(ctx context.Context, ref string, lg *log.Logger) (fetched, error) {
	if l.cache != nil {
		if f, ok := l.cache.Get(ref); ok {
			lg.Debug("cache hit")
			return f, nil
		}
	}

	var (
		f   fetched
		err error
	)
	if IsRemote(ref) {
		f, err = l.fetchHTTP(ctx, ref, lg)
	} else {
		f, err = readFile(ref)
	}
	if err != nil {
		return fetched{}, err
	}
	if l.cache != nil {
		l.cache.Add(ref, f)
	}
	return f, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, ref string, lg *log.Logger) (fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return fetched{}, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9, */*;q=0.5")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return fetched{}, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetched{}, fmt.Errorf("get: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fetched{}, fmt.Errorf("read body: %w", err)
	}
	lg.Debug("fetched", "bytes", len(body), "elapsed", time.Since(start))
	return fetched{body: body, contentType: resp.Header.Get("Content-Type")}, nil
}

func readFile(ref string) (fetched, error) {
	p := strings.TrimPrefix(ref, "file://")
	b, err := os.ReadFile(p)
	if err != nil {
		return fetched{}, fmt.Errorf("read file: %w", err)
	}
	return fetched{body: b}, nil
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

func decompress(b []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		zr, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		out, err := zr.DecodeAll(b, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(b, gzipMagic):
		gr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gr.Close()
		out, err := io.ReadAll(io.LimitReader(gr, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	}
	return b, nil
}
