// Command sstclim prints the daily climatology for one date from a grid
// store file.
//
// Usage:
//
//	sstclim -file redsea_sst_mean_clim.msgpack -date 2023-03-23
//	sstclim -file clim.msgpack -var analysed_sst -date 2023-01-05 -point 12,40
//	sstclim -file clim.msgpack -date 2024-02-20 -json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/sstclim/internal/log"
	"github.com/chrissnell/sstclim/pkg/climatology"
	"github.com/chrissnell/sstclim/pkg/gridstore"
)

// jsonOutput is the -json document; NaN cells become null.
type jsonOutput struct {
	Variable string               `json:"variable"`
	Date     string               `json:"date"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Fraction float64              `json:"fraction"`
	Summary  *climatology.Summary `json:"summary,omitempty"`
	Value    *float64             `json:"value,omitempty"`
	Data     [][]*float64         `json:"data,omitempty"`
	Row      *int                 `json:"row,omitempty"`
	Col      *int                 `json:"col,omitempty"`
}

func main() {
	file := flag.String("file", "", "Climatology grid store file (required)")
	variable := flag.String("var", gridstore.DefaultVariable, "Variable name inside the grid store")
	dateStr := flag.String("date", time.Now().UTC().Format(climatology.DateLayout), "Date to interpolate, YYYY-MM-DD")
	point := flag.String("point", "", "Only print the cell at row,col")
	asJSON := flag.Bool("json", false, "Output results as JSON")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "error: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	t, err := climatology.ParseDate(*dateStr)
	if err != nil {
		fatalf("%v", err)
	}

	store, err := gridstore.Open(*file)
	if err != nil {
		fatalf("%v", err)
	}
	field, err := store.Field(*variable)
	if err != nil {
		fatalf("%v (available: %s)", err, strings.Join(store.Names(), ", "))
	}

	rows, cols := field.Dims()
	log.Debugw("loaded climatology", "file", *file, "variable", *variable, "rows", rows, "cols", cols)

	b := climatology.NewBracket(t)
	out := jsonOutput{
		Variable: *variable,
		Date:     t.Format(climatology.DateLayout),
		From:     b.Start.Format(climatology.DateLayout),
		To:       b.End.Format(climatology.DateLayout),
		Fraction: b.Fraction,
	}

	if *point != "" {
		row, col, err := parsePoint(*point)
		if err != nil {
			fatalf("%v", err)
		}
		v, err := field.PointAt(t, row, col)
		if err != nil {
			fatalf("%v", err)
		}
		out.Row, out.Col, out.Value = &row, &col, nullable(v)
	} else {
		grid := field.DailyAt(t)
		s := climatology.Summarize(grid)
		out.Summary = &s
		if *asJSON {
			out.Data = make([][]*float64, rows)
			for i := range out.Data {
				out.Data[i] = make([]*float64, cols)
				for j := range out.Data[i] {
					out.Data[i][j] = nullable(grid.At(i, j))
				}
			}
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fatalf("json encode: %v", err)
		}
		return
	}

	printResult(out, b, rows, cols)
}

func printResult(out jsonOutput, b climatology.Bracket, rows, cols int) {
	fmt.Printf("Daily climatology for %s\n", out.Date)
	fmt.Printf("  Variable:  %s (%dx%d)\n", out.Variable, rows, cols)
	if b.Exact {
		fmt.Printf("  Anchor:    %s (monthly value)\n", out.From)
	} else {
		fmt.Printf("  Bracket:   %s → %s (%d of %d days, fraction %.4f)\n",
			out.From, out.To, b.ElapsedDays, b.TotalDays, b.Fraction)
	}

	if out.Row != nil {
		if out.Value == nil {
			fmt.Printf("  Cell:      (%d, %d) missing\n", *out.Row, *out.Col)
		} else {
			fmt.Printf("  Cell:      (%d, %d) %.4f\n", *out.Row, *out.Col, *out.Value)
		}
		return
	}

	s := out.Summary
	fmt.Printf("  Cells:     %d valid, %d missing\n", s.Valid, s.Missing)
	if s.Valid > 0 {
		fmt.Printf("  Min/Max:   %.4f / %.4f\n", s.Min, s.Max)
		fmt.Printf("  Mean:      %.4f (σ %.4f)\n", s.Mean, s.StdDev)
	}
}

func parsePoint(s string) (row, col int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid -point %q: expected row,col", s)
	}
	row, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -point row %q", parts[0])
	}
	col, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -point col %q", parts[1])
	}
	return row, col, nil
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
