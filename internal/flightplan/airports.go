package flightplan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Airport is one row of the compact airports file.
type Airport struct {
	Ident string
	Lat   float64
	Lon   float64
	Name  string
}

// Airports looks airports up by ICAO code or local ident, case-insensitively.
type Airports struct {
	byIdent map[string]Airport
}

// LoadAirports reads an airports file in the compact form
// [["ICAO", lat, lon, "Name"], ...]. Files ending in .zst are zstd-compressed.
func LoadAirports(path string) (*Airports, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("flightplan: read %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("flightplan: zstd %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	a, err := ParseAirports(r)
	if err != nil {
		return nil, fmt.Errorf("flightplan: parse %s: %w", path, err)
	}
	return a, nil
}

// ParseAirports decodes the compact airports form. Rows with a missing code,
// name or coordinate are skipped; the first row for an ident wins.
func ParseAirports(r io.Reader) (*Airports, error) {
	var rows [][]any
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, err
	}

	a := &Airports{byIdent: make(map[string]Airport, len(rows))}
	for _, row := range rows {
		ap, ok := airportFromRow(row)
		if !ok {
			continue
		}
		key := strings.ToUpper(ap.Ident)
		if _, dup := a.byIdent[key]; !dup {
			a.byIdent[key] = ap
		}
	}
	return a, nil
}

func airportFromRow(row []any) (Airport, bool) {
	if len(row) < 4 {
		return Airport{}, false
	}
	ident, _ := row[0].(string)
	lat, okLat := row[1].(float64)
	lon, okLon := row[2].(float64)
	name, _ := row[3].(string)
	ident, name = strings.TrimSpace(ident), strings.TrimSpace(name)
	if ident == "" || name == "" || !okLat || !okLon {
		return Airport{}, false
	}
	return Airport{Ident: ident, Lat: lat, Lon: lon, Name: name}, true
}

// Lookup finds an airport by ident.
func (a *Airports) Lookup(ident string) (Airport, bool) {
	if a == nil {
		return Airport{}, false
	}
	ap, ok := a.byIdent[strings.ToUpper(strings.TrimSpace(ident))]
	return ap, ok
}

// Len returns the number of airports.
func (a *Airports) Len() int {
	if a == nil {
		return 0
	}
	return len(a.byIdent)
}
