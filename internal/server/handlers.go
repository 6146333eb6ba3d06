package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spdash/spdash/internal/aggregate"
	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/normalizer"
	"github.com/spdash/spdash/internal/report"
)

type datasetResp struct {
	Status    normalizer.Status   `json:"status"`
	Columns   []string            `json:"columns"`
	Rows      int                 `json:"rows"`
	Orderings map[string][]string `json:"orderings"`
}

type errResp struct {
	Error  string             `json:"error"`
	Status *normalizer.Status `json:"status,omitempty"`
}

func (s *Server) source() string {
	return s.cfg.Dashboard.Source.Location
}

// load returns the cached dataset, or writes 503 and returns nil when
// there is nothing to render.
func (s *Server) load(w http.ResponseWriter, r *http.Request) *dataset.Dataset {
	ds, status := s.cache.Get(r.Context(), s.source())
	if ds.IsEmpty() {
		writeJSON(w, http.StatusServiceUnavailable, errResp{Error: report.ErrNoData.Error(), Status: &status})
		return nil
	}
	return ds
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) {
	ds, status := s.cache.Get(r.Context(), s.source())

	resp := datasetResp{
		Status:    status,
		Columns:   ds.Columns(),
		Rows:      ds.Len(),
		Orderings: make(map[string][]string),
	}
	for col, o := range ds.Orderings() {
		resp.Orderings[col] = o.Labels()
	}

	code := http.StatusOK
	if ds.IsEmpty() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (s *Server) getObjective(w http.ResponseWriter, r *http.Request) {
	obj, err := report.ParseObjective(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, err.Error())
		return
	}
	ds := s.load(w, r)
	if ds == nil {
		return
	}

	rep, err := report.Build(ds, obj, report.Options{FillUnobserved: s.cfg.FillUnobserved()})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) getAggregate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	reducer, err := aggregate.ParseReducer(stringOr(q.Get("reducer"), "mean"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := aggregate.ParseSortMode(q.Get("sort"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	ds := s.load(w, r)
	if ds == nil {
		return
	}

	query := aggregate.Query{
		GroupFields: q["by"],
		ValueField:  q.Get("value"),
		Reducer:     reducer,
		Sort:        mode,
		Fill:        s.cfg.FillUnobserved(),
	}
	t, err := query.Run(ds)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, aggregate.ErrNoData) {
			code = http.StatusServiceUnavailable
		}
		writeErr(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) invalidate(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate(s.source())
	s.log.Info("cache invalidated", "source", s.source())
	writeJSON(w, http.StatusOK, map[string]string{"invalidated": s.source()})
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
