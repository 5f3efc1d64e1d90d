package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/request-atlas/pkg/models/api"
	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/de-tools/request-atlas/pkg/services/report"
	"github.com/rs/zerolog"
)

type Handler struct {
	reports report.Service
}

func NewHandler(reports report.Service) *Handler {
	return &Handler{
		reports: reports,
	}
}

// RunReport serves GET /reports?field=…&filter=…
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	req, issues := parseRequest(r)
	if len(issues) > 0 {
		writeJSON(w, r, http.StatusUnprocessableEntity, api.ValidationError{Detail: issues})
		return
	}

	rows, err := h.reports.Run(ctx, req)
	if err != nil {
		if domain.IsInvalidRequest(err) {
			writeJSON(w, r, http.StatusUnprocessableEntity, api.ValidationError{
				Detail: []api.ValidationIssue{issueFor(err)},
			})
			return
		}
		logger.Error().
			Err(err).
			Strs("fields", req.Fields).
			Strs("filters", req.Filters).
			Msg("failed to run report")
		writeJSON(w, r, http.StatusInternalServerError, api.Error{Detail: "failed to run report"})
		return
	}

	writeJSON(w, r, http.StatusOK, api.NewReport(rows))
}

// ListFields serves GET /reports/fields.
func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	var response []api.Field
	for _, f := range h.reports.Fields() {
		response = append(response, api.Field{Name: f.Name, Kind: string(f.Kind)})
	}
	writeJSON(w, r, http.StatusOK, response)
}

// parseRequest validates the raw query parameters. Omitted parameters stay
// nil so the service applies its defaults.
func parseRequest(r *http.Request) (domain.ReportRequest, []api.ValidationIssue) {
	query := r.URL.Query()

	var (
		req    domain.ReportRequest
		issues []api.ValidationIssue
	)
	if fields, ok := query["field"]; ok {
		for _, f := range fields {
			if err := report.ValidateField(f); err != nil {
				issues = append(issues, issueFor(err))
			}
		}
		req.Fields = fields
	}
	if filters, ok := query["filter"]; ok {
		for _, f := range filters {
			if err := report.ValidateFilter(f); err != nil {
				issues = append(issues, issueFor(err))
			}
		}
		req.Filters = filters
	}
	return req, issues
}

func issueFor(err error) api.ValidationIssue {
	var pe *domain.ParameterError
	if errors.As(err, &pe) {
		return api.ValidationIssue{
			Loc:   []string{"query", pe.Parameter},
			Msg:   pe.Err.Error(),
			Input: pe.Value,
		}
	}
	return api.ValidationIssue{
		Loc: []string{"query"},
		Msg: err.Error(),
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}
