package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/cutplan/internal/config"
	"github.com/piwi3910/cutplan/internal/dto"
	"github.com/piwi3910/cutplan/internal/engine"
	"github.com/piwi3910/cutplan/internal/export"
	"github.com/piwi3910/cutplan/internal/metrics"
	"github.com/piwi3910/cutplan/internal/model"
	"github.com/piwi3910/cutplan/internal/project"
)

// maxBodyBytes bounds the job document size.
const maxBodyBytes = 4 << 20

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler serves the planning endpoints.
type Handler struct {
	defaults  model.CutSettings
	maxPieces int
}

// NewHandler creates a Handler applying the given job defaults and limits.
func NewHandler(cfg config.PlanConfig) *Handler {
	return &Handler{
		defaults:  cfg.Settings(),
		maxPieces: cfg.MaxPieces,
	}
}

// CreatePlan handles POST /api/v1/plans. The body is a job document; the
// response holds every group, including the ones that failed to pack.
func (h *Handler) CreatePlan(c *gin.Context) {
	job, ok := h.decodeJob(c)
	if !ok {
		return
	}
	plan, ok := h.runPlan(c, job)
	if !ok {
		return
	}
	NewResponseBuilder(c).SuccessOK(plan)
}

// PlanPDF handles POST /api/v1/plans/pdf.
func (h *Handler) PlanPDF(c *gin.Context) {
	h.document(c, pdfContentType, "cutting_plan.pdf", export.WritePDF)
}

// PlanXLSX handles POST /api/v1/plans/xlsx.
func (h *Handler) PlanXLSX(c *gin.Context) {
	h.document(c, xlsxContentType, "cutting_plan.xlsx", export.WriteXLSX)
}

// ComparePlans handles POST /api/v1/plans/compare: the job is planned under
// its own settings, with rotation toggled, and with half the kerf.
func (h *Handler) ComparePlans(c *gin.Context) {
	job, ok := h.decodeJob(c)
	if !ok {
		return
	}

	results := engine.CompareScenarios(c.Request.Context(), engine.BuildDefaultScenarios(job.Settings), job.Groups)
	summaries := make([]dto.ScenarioSummary, 0, len(results))
	for _, r := range results {
		if errors.Is(r.Err, context.DeadlineExceeded) {
			NewResponseBuilder(c).Error(http.StatusGatewayTimeout, "Planning did not finish in time", r.Err)
			return
		}
		s := dto.ScenarioSummary{
			Name:          r.Scenario.Name,
			Kerf:          r.Scenario.Settings.Kerf,
			AllowRotation: r.Scenario.Settings.AllowRotation,
			SheetsUsed:    r.SheetsUsed,
			PiecesPlaced:  r.PiecesPlaced,
			WastePercent:  r.WastePercent,
			FailedGroups:  r.FailedGroups,
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		summaries = append(summaries, s)
	}
	NewResponseBuilder(c).SuccessOK(summaries)
}

// ListSheets handles GET /api/v1/sheets.
func (h *Handler) ListSheets(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(model.StandardSheets)
}

func (h *Handler) document(c *gin.Context, contentType, filename string, write func(io.Writer, model.Plan) error) {
	job, ok := h.decodeJob(c)
	if !ok {
		return
	}
	plan, ok := h.runPlan(c, job)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, plan); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			NewResponseBuilder(c).Error(http.StatusUnprocessableEntity, "The plan has no sheets to render", err)
			return
		}
		NewResponseBuilder(c).Error(http.StatusInternalServerError, "Failed to render the plan", err)
		return
	}
	NewResponseBuilder(c).Attachment(contentType, filename, buf.Bytes())
}

// decodeJob reads and checks the job document, writing a 400 on failure.
func (h *Handler) decodeJob(c *gin.Context) (model.Job, bool) {
	builder := NewResponseBuilder(c)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			builder.Error(http.StatusRequestEntityTooLarge, "Job document is too large", err)
			return model.Job{}, false
		}
		builder.Error(http.StatusBadRequest, "Failed to read request body", err)
		return model.Job{}, false
	}

	job, err := project.DecodeJob(body, h.defaults)
	if err != nil {
		builder.Error(http.StatusBadRequest, err.Error(), err)
		return model.Job{}, false
	}

	switch {
	case len(job.Groups) == 0:
		builder.Error(http.StatusBadRequest, "Job has no thickness groups", nil)
		return model.Job{}, false
	case job.Settings.Kerf < 0 || job.Settings.Kerf > model.MaxKerf:
		builder.Error(http.StatusBadRequest, fmt.Sprintf("kerf must be between 0 and %d mm", model.MaxKerf), nil)
		return model.Job{}, false
	case h.maxPieces > 0 && job.TotalPieces() > h.maxPieces:
		builder.Error(http.StatusBadRequest,
			fmt.Sprintf("Job has %d pieces, the limit is %d", job.TotalPieces(), h.maxPieces), nil)
		return model.Job{}, false
	}
	return job, true
}

// runPlan packs the job and maps planner errors to status codes. Partial
// failures still succeed: the failed groups carry their error in the plan.
func (h *Handler) runPlan(c *gin.Context, job model.Job) (model.Plan, bool) {
	builder := NewResponseBuilder(c)

	start := time.Now()
	plan, err := engine.PlanJob(c.Request.Context(), job)
	metrics.RecordPlan(plan, err, time.Since(start))

	switch {
	case err == nil:
		return plan, true
	case errors.Is(err, model.ErrInvalidDimension), errors.Is(err, model.ErrDuplicateGroup):
		builder.Error(http.StatusBadRequest, err.Error(), err)
		return model.Plan{}, false
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		builder.Error(http.StatusGatewayTimeout, "Planning did not finish in time", err)
		return model.Plan{}, false
	case len(plan.Succeeded()) == 0:
		details := make(map[string]string, len(plan.Groups))
		for _, g := range plan.Groups {
			if g.Err != nil {
				details[g.Group] = g.Error
			}
		}
		builder.ErrorWithDetails(http.StatusUnprocessableEntity, "No thickness group could be packed", details, err)
		return model.Plan{}, false
	default:
		return plan, true
	}
}
