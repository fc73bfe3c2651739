// Package magvar provides magnetic declination from a pre-sampled World
// Magnetic Model grid.
//
// Grids are produced with the NOAA wmm_grid tool: sample declination over a
// regular latitude/longitude lattice at altitude 0, keep the declination
// column, prefix a header line "minLat maxLat minLon maxLon step" and
// compress the result with zstd.
package magvar

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"localchart/internal/geodesy"
)

// ErrOutsideGrid is returned for positions the grid does not cover.
var ErrOutsideGrid = fmt.Errorf("magvar: lookup point outside sampled grid: %w", geodesy.ErrDeclinationUnavailable)

// Grid holds declination samples, latitude-major, west to east within a row.
type Grid struct {
	MinLatitude, MaxLatitude   float64
	MinLongitude, MaxLongitude float64
	LatLongStep                float64
	Samples                    []float64
}

// Load reads a zstd-compressed grid file.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("magvar: open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("magvar: zstd %s: %w", path, err)
	}
	defer dec.Close()

	g, err := Parse(dec)
	if err != nil {
		return nil, fmt.Errorf("magvar: parse %s: %w", path, err)
	}
	return g, nil
}

// Parse reads an uncompressed grid: one header line then one sample per line.
func Parse(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && header != "") {
		return nil, fmt.Errorf("read header: %w", err)
	}
	fields := strings.Fields(header)
	if len(fields) != 5 {
		return nil, fmt.Errorf("header %q: want 5 fields", strings.TrimSpace(header))
	}
	var hv [5]float64
	for i, f := range fields {
		if hv[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, fmt.Errorf("header field %q: %w", f, err)
		}
	}

	g := &Grid{
		MinLatitude:  hv[0],
		MaxLatitude:  hv[1],
		MinLongitude: hv[2],
		MaxLongitude: hv[3],
		LatLongStep:  hv[4],
	}
	if g.LatLongStep <= 0 || g.MaxLatitude < g.MinLatitude || g.MaxLongitude < g.MinLongitude {
		return nil, fmt.Errorf("invalid grid extent %v", hv)
	}

	for {
		line, err := br.ReadString('\n')
		if s := strings.TrimSpace(line); s != "" {
			v, perr := strconv.ParseFloat(s, 64)
			if perr != nil {
				return nil, fmt.Errorf("%s: parsing error: %w", s, perr)
			}
			g.Samples = append(g.Samples, v)
		}
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
	}

	nlat, nlong := g.dims()
	if len(g.Samples) != nlat*nlong {
		return nil, fmt.Errorf("found %d magnetic grid samples, expected %d x %d = %d",
			len(g.Samples), nlat, nlong, nlat*nlong)
	}
	return g, nil
}

// Encode writes g in the compressed file format read by Load.
func (g *Grid) Encode(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%g %g %g %g %g\n", g.MinLatitude, g.MaxLatitude, g.MinLongitude, g.MaxLongitude, g.LatLongStep)
	for _, s := range g.Samples {
		buf.WriteString(strconv.FormatFloat(s, 'f', -1, 64))
		buf.WriteByte('\n')
	}
	if _, err := enc.Write(buf.Bytes()); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func (g *Grid) dims() (nlat, nlong int) {
	nlat = int(1 + math.Round((g.MaxLatitude-g.MinLatitude)/g.LatLongStep))
	nlong = int(1 + math.Round((g.MaxLongitude-g.MinLongitude)/g.LatLongStep))
	return
}

// Declination implements geodesy.DeclinationProvider with bilinear
// interpolation between the four surrounding samples. Altitude is ignored;
// grids are sampled at the surface.
func (g *Grid) Declination(lat, lon, altitudeKm float64) (float64, error) {
	if lon < g.MinLongitude || lon > g.MaxLongitude ||
		lat < g.MinLatitude || lat > g.MaxLatitude {
		return 0, ErrOutsideGrid
	}

	nlat, nlong := g.dims()
	fy := (lat - g.MinLatitude) / g.LatLongStep
	fx := (lon - g.MinLongitude) / g.LatLongStep
	y0 := min(int(fy), nlat-1)
	x0 := min(int(fx), nlong-1)
	y1 := min(y0+1, nlat-1)
	x1 := min(x0+1, nlong-1)
	ty, tx := fy-float64(y0), fx-float64(x0)

	at := func(x, y int) float64 { return g.Samples[x+nlong*y] }
	south := at(x0, y0)*(1-tx) + at(x1, y0)*tx
	north := at(x0, y1)*(1-tx) + at(x1, y1)*tx
	return south*(1-ty) + north*ty, nil
}

// Fixed is a provider returning one configured declination everywhere.
type Fixed float64

func (f Fixed) Declination(lat, lon, altitudeKm float64) (float64, error) {
	return float64(f), nil
}
