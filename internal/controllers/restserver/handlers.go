package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chrissnell/sstclim/internal/log"
	"github.com/chrissnell/sstclim/internal/service"
	"github.com/chrissnell/sstclim/pkg/climatology"
	"github.com/chrissnell/sstclim/pkg/responseformat"
	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetHealth reports that the server is up
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, HealthResponse{
		Status:    "ok",
		Variables: len(h.controller.service.Variables()),
	})
}

// GetVariables lists the served variables
func (h *Handlers) GetVariables(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, VariablesResponse{Variables: h.controller.service.Variables()})
}

// GetDaily returns the full daily climatology grid
func (h *Handlers) GetDaily(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	g, err := h.controller.service.Daily(req.Context(), vars["variable"], vars["date"])
	if err != nil {
		h.writeServiceError(w, req, err)
		return
	}

	rows, cols := g.Dims()
	h.write(w, req, http.StatusOK, GridResponse{
		Variable: vars["variable"],
		Date:     vars["date"],
		Rows:     rows,
		Cols:     cols,
		Data:     gridData(g),
	})
}

// GetSummary returns statistics of the daily climatology grid
func (h *Handlers) GetSummary(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	s, err := h.controller.service.Summary(req.Context(), vars["variable"], vars["date"])
	if err != nil {
		h.writeServiceError(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, s)
}

// GetPoint returns one cell of the daily climatology grid
func (h *Handlers) GetPoint(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	q := req.URL.Query()

	row, err := strconv.Atoi(q.Get("row"))
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid row %q", q.Get("row")))
		return
	}
	col, err := strconv.Atoi(q.Get("col"))
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid col %q", q.Get("col")))
		return
	}

	v, err := h.controller.service.Point(req.Context(), vars["variable"], vars["date"], row, col)
	if err != nil {
		h.writeServiceError(w, req, err)
		return
	}

	h.write(w, req, http.StatusOK, PointResponse{
		Variable: vars["variable"],
		Date:     vars["date"],
		Row:      row,
		Col:      col,
		Value:    nullable(v),
	})
}

// GetRecentRequests returns the most recent entries of the HTTP log buffer
func (h *Handlers) GetRecentRequests(w http.ResponseWriter, req *http.Request) {
	limit := 100
	if s := req.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", s))
			return
		}
		limit = n
	}
	h.write(w, req, http.StatusOK, log.GetHTTPLogBuffer().Entries(limit))
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorw("failed to write response", "path", req.URL.Path, "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.errMsg = msg
	}
	if err := h.formatter.WriteError(w, status, msg, requestIDFromContext(req.Context())); err != nil {
		h.controller.logger.Errorw("failed to write error response", "path", req.URL.Path, "error", err)
	}
}

// writeServiceError maps service and climatology errors to HTTP statuses
func (h *Handlers) writeServiceError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, climatology.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnknownVariable):
		status = http.StatusNotFound
	case errors.Is(err, climatology.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	default:
		h.controller.logger.Errorw("climatology request failed", "path", req.URL.Path, "error", err)
	}
	h.writeError(w, req, status, err.Error())
}
