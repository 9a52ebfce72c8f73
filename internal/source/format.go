package source

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/idilsaglam/placemap/internal/model"
	"github.com/idilsaglam/placemap/internal/normalize"
)

type Format int

const (
	Unknown Format = iota
	JSON
	CSV
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case CSV:
		return "csv"
	}
	return "unknown"
}

var ErrUnknownFormat = errors.New("unknown data format")

// Detect guesses the format of body from, in order, the file extension of
// ref, a format=/output= query parameter (spreadsheet export links), the
// Content-Type and finally the first bytes of body.
func Detect(ref, contentType string, body []byte) Format {
	if f := fromRef(ref); f != Unknown {
		return f
	}
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			switch {
			case mt == "application/json", strings.HasSuffix(mt, "+json"), mt == "text/json":
				return JSON
			case mt == "text/csv", mt == "text/tab-separated-values", mt == "application/csv":
				return CSV
			}
		}
	}
	return sniff(body)
}

func fromRef(ref string) Format {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
		q := u.Query()
		for _, k := range []string{"format", "output"} {
			switch strings.ToLower(q.Get(k)) {
			case "csv", "tsv":
				return CSV
			case "json":
				return JSON
			}
		}
	}
	p = strings.ToLower(p)
	p = strings.TrimSuffix(p, ".zst")
	p = strings.TrimSuffix(p, ".gz")
	switch path.Ext(p) {
	case ".json":
		return JSON
	case ".csv", ".tsv":
		return CSV
	}
	return Unknown
}

func sniff(body []byte) Format {
	body = bytes.TrimSpace(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf")))
	if len(body) == 0 {
		return Unknown
	}
	if body[0] == '{' || body[0] == '[' {
		return JSON
	}
	line, _, _ := bytes.Cut(body, []byte("\n"))
	if bytes.ContainsAny(line, ",;\t") {
		return CSV
	}
	return Unknown
}

// Decode normalizes body according to f.
func Decode(f Format, body []byte) ([]model.Place, error) {
	switch f {
	case JSON:
		return normalize.JSON(body)
	case CSV:
		return normalize.CSV(body)
	}
	return nil, fmt.Errorf("decode: %w", ErrUnknownFormat)
}
