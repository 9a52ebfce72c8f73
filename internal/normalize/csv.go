package normalize

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/idilsaglam/placemap/internal/model"
)

type column int

const (
	colName column = iota
	colType
	colLat
	colLng
	colTags
	colDescription
	colLink
	colPicture
	colNote
	colPage
	numColumns
)

// Column order used when the first row is not a header.
var positional = []column{colName, colType, colLat, colLng, colTags, colDescription, colLink, colPicture}

var headerAliases = map[string]column{
	"name": colName, "nom": colName, "title": colName, "titre": colName,
	"type": colType, "category": colType, "categorie": colType, "catégorie": colType, "kind": colType,
	"lat": colLat, "latitude": colLat,
	"lng": colLng, "lon": colLng, "long": colLng, "longitude": colLng,
	"tags": colTags, "tag": colTags, "labels": colTags,
	"description": colDescription, "desc": colDescription,
	"note": colNote, "notes": colNote, "comment": colNote,
	"page": colPage,
	"link": colLink, "url": colLink, "lien": colLink, "website": colLink,
	"picture": colPicture, "image": colPicture, "photo": colPicture, "img": colPicture,
}

// CSV normalizes a spreadsheet export. Quoted fields may contain the
// delimiter; coordinates may use ',' as decimal separator.
func CSV(data []byte) ([]model.Place, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoPlaces
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoPlaces
	}

	index, header := headerIndex(records[0])
	rows := records
	if header {
		rows = records[1:]
	}

	out := make([]model.Place, 0, len(rows))
	for _, row := range rows {
		if blank(row) {
			continue
		}
		out = append(out, rowPlace(row, index))
	}
	return out, nil
}

// headerIndex maps columns to cell positions. The first row is a header
// only when it names the name, lat or lng column; a data row can carry a
// tag or type that happens to be a column alias ("photo", "url").
func headerIndex(first []string) ([numColumns]int, bool) {
	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}
	for i, cell := range first {
		c, ok := headerAliases[strings.ToLower(strings.TrimSpace(cell))]
		if !ok || idx[c] >= 0 {
			continue
		}
		idx[c] = i
	}
	if idx[colName] >= 0 || idx[colLat] >= 0 || idx[colLng] >= 0 {
		return idx, true
	}
	for i := range idx {
		idx[i] = -1
	}
	for i, c := range positional {
		idx[c] = i
	}
	return idx, false
}

func rowPlace(row []string, idx [numColumns]int) model.Place {
	cell := func(c column) string {
		i := idx[c]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	lat, latOK := ParseCoord(cell(colLat))
	lng, lngOK := ParseCoord(cell(colLng))
	return model.Place{
		Name:        cell(colName),
		Type:        strings.ToLower(cell(colType)),
		Lat:         lat,
		Lng:         lng,
		Tags:        model.SplitTags(cell(colTags)),
		Description: cell(colDescription),
		Note:        cell(colNote),
		Page:        cell(colPage),
		Link:        cell(colLink),
		Picture:     cell(colPicture),
		Located:     latOK && lngOK,
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter picks ',', ';' or tab by counting them, outside quotes, on
// the first line. French spreadsheet exports use ';' because ',' is the
// decimal separator.
func sniffDelimiter(data []byte) rune {
	counts := map[rune]int{}
	quoted := false
	for _, r := range string(data) {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if quoted {
			continue
		}
		if r == '\n' {
			break
		}
		switch r {
		case ',', ';', '\t':
			counts[r]++
		}
	}
	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}
