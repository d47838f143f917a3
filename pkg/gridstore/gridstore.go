// Package gridstore reads and writes climatology grid stores: msgpack
// files holding one or more named 12-month gridded variables, such as
// "analysed_sst".
package gridstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/chrissnell/sstclim/pkg/climatology"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
)

const (
	// Format identifies a grid store file.
	Format = "sstclim-gridstore"
	// Version is the grid store layout version written by this package.
	Version = 1

	// DefaultVariable is the variable name used by SST climatology products.
	DefaultVariable = "analysed_sst"
)

var (
	// ErrBadFormat is returned when a file is not a grid store this package
	// can read.
	ErrBadFormat = errors.New("not a grid store")
	// ErrVariableNotFound is returned when a store has no variable of the
	// requested name.
	ErrVariableNotFound = errors.New("variable not found")
)

// File is the on-disk grid store.
type File struct {
	Format    string               `msgpack:"format"`
	Version   int                  `msgpack:"version"`
	Title     string               `msgpack:"title,omitempty"`
	Variables map[string]*Variable `msgpack:"variables"`
}

// Variable is one monthly climatology. Data holds one row-major grid per
// month: Data[m][r*Cols+c].
type Variable struct {
	Name     string      `msgpack:"name"`
	LongName string      `msgpack:"long_name,omitempty"`
	Units    string      `msgpack:"units,omitempty"`
	Months   []int       `msgpack:"months"`
	Rows     int         `msgpack:"rows"`
	Cols     int         `msgpack:"cols"`
	Lat      []float64   `msgpack:"lat,omitempty"`
	Lon      []float64   `msgpack:"lon,omitempty"`
	Data     [][]float64 `msgpack:"data"`
}

// New returns an empty store.
func New(title string) *File {
	return &File{
		Format:    Format,
		Version:   Version,
		Title:     title,
		Variables: make(map[string]*Variable),
	}
}

// Add stores v under its name, replacing any variable of the same name.
func (f *File) Add(v *Variable) {
	if f.Variables == nil {
		f.Variables = make(map[string]*Variable)
	}
	f.Variables[v.Name] = v
}

// Names returns the variable names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Variables))
	for name := range f.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variable returns the named variable.
func (f *File) Variable(name string) (*Variable, error) {
	v, ok := f.Variables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
	}
	return v, nil
}

// Field extracts the named variable as a climatology field.
func (f *File) Field(name string) (*climatology.Field, error) {
	v, err := f.Variable(name)
	if err != nil {
		return nil, err
	}
	return v.Field()
}

// Read decodes a grid store from r.
func Read(r io.Reader) (*File, error) {
	var f File
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if f.Format != Format {
		return nil, fmt.Errorf("%w: format %q", ErrBadFormat, f.Format)
	}
	if f.Version < 1 || f.Version > Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFormat, f.Version)
	}
	for name, v := range f.Variables {
		if v == nil {
			return nil, fmt.Errorf("%w: variable %q is empty", ErrBadFormat, name)
		}
		if v.Name == "" {
			v.Name = name
		}
	}
	return &f, nil
}

// Open reads the grid store at path.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Read(bufio.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return f, nil
}

// Write encodes f to w. Every variable is validated first.
func Write(w io.Writer, f *File) error {
	for _, name := range f.Names() {
		if err := f.Variables[name].Validate(); err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
	}
	out := *f
	out.Format = Format
	out.Version = Version
	return msgpack.NewEncoder(w).Encode(&out)
}

// Create writes f to a new file at path, replacing any existing file.
func Create(path string, f *File) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(fh)
	if err := Write(bw, f); err != nil {
		fh.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// Validate checks that v holds 12 months labelled 1 through 12 in order
// and that every grid has Rows*Cols values.
func (v *Variable) Validate() error {
	if len(v.Months) != climatology.MonthsPerYear {
		return fmt.Errorf("%w: %d month labels, expected %d",
			climatology.ErrInvalidInput, len(v.Months), climatology.MonthsPerYear)
	}
	for i, m := range v.Months {
		if m != i+1 {
			return fmt.Errorf("%w: month label %d at position %d, expected January through December in order",
				climatology.ErrInvalidInput, m, i)
		}
	}
	if v.Rows <= 0 || v.Cols <= 0 {
		return fmt.Errorf("%w: grid is %dx%d", climatology.ErrInvalidInput, v.Rows, v.Cols)
	}
	if len(v.Data) != climatology.MonthsPerYear {
		return fmt.Errorf("%w: %d monthly grids, expected %d",
			climatology.ErrInvalidInput, len(v.Data), climatology.MonthsPerYear)
	}
	for m, grid := range v.Data {
		if len(grid) != v.Rows*v.Cols {
			return fmt.Errorf("%w: month %d has %d values, expected %d",
				climatology.ErrInvalidInput, m+1, len(grid), v.Rows*v.Cols)
		}
	}
	if len(v.Lat) != 0 && len(v.Lat) != v.Rows {
		return fmt.Errorf("%w: %d latitudes for %d rows", climatology.ErrInvalidInput, len(v.Lat), v.Rows)
	}
	if len(v.Lon) != 0 && len(v.Lon) != v.Cols {
		return fmt.Errorf("%w: %d longitudes for %d columns", climatology.ErrInvalidInput, len(v.Lon), v.Cols)
	}
	return nil
}

// Field validates v and converts it to a climatology field.
func (v *Variable) Field() (*climatology.Field, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	months := make([]*mat.Dense, climatology.MonthsPerYear)
	for m, grid := range v.Data {
		months[m] = mat.NewDense(v.Rows, v.Cols, grid)
	}
	return climatology.NewFieldFromDense(months)
}

// FromField builds a variable from a climatology field.
func FromField(name, units string, f *climatology.Field) *Variable {
	rows, cols := f.Dims()
	v := &Variable{
		Name:   name,
		Units:  units,
		Months: make([]int, climatology.MonthsPerYear),
		Rows:   rows,
		Cols:   cols,
		Data:   make([][]float64, climatology.MonthsPerYear),
	}
	for m := range v.Data {
		month := time.Month(m + 1)
		v.Months[m] = int(month)
		// A fresh copy is always packed, so its backing slice is the grid.
		v.Data[m] = f.Month(month).RawMatrix().Data
	}
	return v
}
