// Command climatology-synth writes a synthetic 12-month SST climatology
// grid store for demos and testing.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/chrissnell/sstclim/pkg/gridstore"
)

func main() {
	out := flag.String("out", "synthetic_sst_clim.msgpack", "Output grid store file")
	name := flag.String("var", gridstore.DefaultVariable, "Variable name to write")
	rows := flag.Int("rows", 90, "Number of latitude rows")
	cols := flag.Int("cols", 60, "Number of longitude columns")
	lat0 := flag.Float64("lat0", 12.0, "Latitude of the first row (°N)")
	lat1 := flag.Float64("lat1", 30.0, "Latitude of the last row (°N)")
	lon0 := flag.Float64("lon0", 32.0, "Longitude of the first column (°E)")
	lon1 := flag.Float64("lon1", 44.0, "Longitude of the last column (°E)")
	land := flag.Float64("land", 0, "Fraction of columns on the western edge masked as land (0-1)")
	flag.Parse()

	if *rows < 1 || *cols < 1 {
		fmt.Fprintln(os.Stderr, "error: -rows and -cols must be positive")
		os.Exit(2)
	}
	if *land < 0 || *land >= 1 {
		fmt.Fprintln(os.Stderr, "error: -land must be in [0, 1)")
		os.Exit(2)
	}

	v := synthesize(*name, *rows, *cols, *lat0, *lat1, *lon0, *lon1, *land)

	f := gridstore.New(fmt.Sprintf("synthetic %s climatology", *name))
	f.Add(v)
	if err := gridstore.Create(*out, f); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s: %s %dx%d, 12 months\n", *out, *name, *rows, *cols)
}

// synthesize builds a seasonal SST field in °C: warmer toward the equator,
// with an annual cycle peaking in August whose amplitude grows with latitude.
func synthesize(name string, rows, cols int, lat0, lat1, lon0, lon1, land float64) *gridstore.Variable {
	v := &gridstore.Variable{
		Name:     name,
		LongName: "synthetic sea surface temperature climatology",
		Units:    "celsius",
		Months:   make([]int, 12),
		Rows:     rows,
		Cols:     cols,
		Lat:      linspace(lat0, lat1, rows),
		Lon:      linspace(lon0, lon1, cols),
		Data:     make([][]float64, 12),
	}

	landCols := int(land * float64(cols))
	for m := range v.Data {
		v.Months[m] = m + 1
		phase := math.Cos(2 * math.Pi * float64(m+1-8) / 12)
		grid := make([]float64, rows*cols)
		for r, lat := range v.Lat {
			base := 29 - 0.25*math.Abs(lat)
			amp := 0.5 + 0.1*math.Abs(lat)
			for c := range v.Lon {
				if c < landCols {
					grid[r*cols+c] = math.NaN()
					continue
				}
				grid[r*cols+c] = base + amp*phase
			}
		}
		v.Data[m] = grid
	}
	return v
}

func linspace(a, b float64, n int) []float64 {
	if n == 1 {
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	return out
}
