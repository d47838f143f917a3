package restserver

import (
	"math"

	"github.com/chrissnell/sstclim/internal/service"
	"gonum.org/v1/gonum/mat"
)

// VariablesResponse lists the variables the server can interpolate
type VariablesResponse struct {
	Variables []service.VariableInfo `json:"variables"`
}

// GridResponse is a daily climatology grid. Missing (NaN) cells are null.
type GridResponse struct {
	Variable string       `json:"variable"`
	Date     string       `json:"date"`
	Rows     int          `json:"rows"`
	Cols     int          `json:"cols"`
	Data     [][]*float64 `json:"data"`
}

// PointResponse is a single cell of a daily climatology grid
type PointResponse struct {
	Variable string   `json:"variable"`
	Date     string   `json:"date"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Value    *float64 `json:"value"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status    string `json:"status"`
	Variables int    `json:"variables"`
}

// nullable maps NaN to nil so the value survives JSON encoding
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func gridData(g mat.Matrix) [][]*float64 {
	rows, cols := g.Dims()
	out := make([][]*float64, rows)
	for i := range out {
		out[i] = make([]*float64, cols)
		for j := range out[i] {
			out[i][j] = nullable(g.At(i, j))
		}
	}
	return out
}
