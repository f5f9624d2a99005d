package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"edakit/adapters/render"
	"edakit/app"
	"edakit/domain/core"
	"edakit/domain/table"
	apperrors "edakit/internal/errors"
	"edakit/internal/stattest"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 32 << 20

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: apperrors.GetCode(err)})
}

// decode reads a JSON body into v and returns the table it carries
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}, payload func() TablePayload) (*table.Table, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "invalid request body")))
		return nil, false
	}
	t, err := payload().ToTable()
	if err != nil {
		s.writeError(w, r, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "invalid table")))
		return nil, false
	}
	return t, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	var req OutliersRequest
	t, ok := s.decode(w, r, &req, func() TablePayload { return req.Table })
	if !ok {
		return
	}
	k := s.cfg.OutlierK
	if req.K != nil {
		k = *req.K
	}

	var resp OutliersResponse
	var err error
	if req.Group != "" {
		t, resp.Summary, err = s.outliers.FilterGroupedCopyWithSummary(t, req.Column, req.Group, k)
	} else {
		t, resp.Summary, err = s.outliers.FilterCopyWithSummary(t, req.Column, k)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Table = NewTablePayload(t)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNormality(w http.ResponseWriter, r *http.Request) {
	var req NormalityRequest
	t, ok := s.decode(w, r, &req, func() TablePayload { return req.Table })
	if !ok {
		return
	}
	columns := req.Columns
	if len(columns) == 0 {
		columns = t.NumericColumnNames()
	}

	rows, err := s.normality.Check(r.Context(), t, columns, s.alpha(req.Alpha))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"results": rows})
}

func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	var req FactorsRequest
	t, ok := s.decode(w, r, &req, func() TablePayload { return req.Table })
	if !ok {
		return
	}
	factors := req.Factors
	if len(factors) == 0 {
		factors = t.NumericColumnsExcept(req.Target)
	}

	rows, err := s.correlation.Table(r.Context(), t, req.Target, factors)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"results": rows})
}

func (s *Server) handleEta(w http.ResponseWriter, r *http.Request) {
	var req FactorsRequest
	t, ok := s.decode(w, r, &req, func() TablePayload { return req.Table })
	if !ok {
		return
	}
	factors := req.Factors
	if len(factors) == 0 {
		factors = t.CategoricalColumnNames()
	}

	rows, err := s.association.EtaTable(t, req.Target, factors)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"results": rows})
}

func (s *Server) handleMannWhitney(w http.ResponseWriter, r *http.Request) {
	var req GroupTestRequest
	t, ok := s.decode(w, r, &req, func() TablePayload { return req.Table })
	if !ok {
		return
	}
	method := stattest.UMethod(req.Method)
	if method == "" {
		method = s.cfg.MannWhitney
	}

	res, err := s.groups.MannWhitney(t, req.Target, req.Factor, stattest.Alternative(req.Alternative), method)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GroupTestResponse{GroupTestResult: res, Message: res.Message()})
}

func (s *Server) handleKruskal(w http.ResponseWriter, r *http.Request) {
	var req GroupTestRequest
	t, ok := s.decode(w, r, &req, func() TablePayload { return req.Table })
	if !ok {
		return
	}

	res, err := s.groups.KruskalWallis(t, req.Target, req.Factor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GroupTestResponse{GroupTestResult: res, Message: res.Message()})
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	t, ok := s.decode(w, r, &req, func() TablePayload { return req.Table })
	if !ok {
		return
	}
	method := stattest.UMethod(req.Method)
	if method == "" {
		method = s.cfg.MannWhitney
	}
	k := s.cfg.OutlierK
	if req.OutlierK != nil {
		k = *req.OutlierK
	}

	run, err := s.reports.Build(r.Context(), t, app.ReportRequest{
		Dataset:           req.Dataset,
		Target:            req.Target,
		Alpha:             s.alpha(req.Alpha),
		MannWhitneyMethod: method,
		OutlierColumn:     req.OutlierColumn,
		OutlierGroup:      req.OutlierGroup,
		OutlierK:          k,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, apperrors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	runs, err := s.reports.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	format := render.FormatJSON
	if raw := r.URL.Query().Get("format"); raw != "" {
		if format, err = render.ParseFormat(raw); err != nil {
			s.writeError(w, r, apperrors.WithCode(apperrors.CodeInvalidInput, err))
			return
		}
	}

	run, err := s.reports.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if format == render.FormatJSON {
		s.writeJSON(w, http.StatusOK, run)
		return
	}

	body, err := render.Run(run, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) alpha(override *float64) float64 {
	if override != nil {
		return *override
	}
	return s.cfg.Alpha
}
