package v1alpha1

import (
	"errors"
	"net/http"

	api "github.com/blue-collar-job-portal/moderation/api/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/auth"
	"github.com/blue-collar-job-portal/moderation/internal/handlers/v1alpha1/mappers"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/service"
	"github.com/blue-collar-job-portal/moderation/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var (
	reportStatuses = []string{
		string(moderation.ReportPending),
		string(moderation.ReportResolved),
		string(moderation.ReportDismissed),
	}
	reportTargets = []string{string(moderation.TargetJob), string(moderation.TargetEmployer)}
)

// (POST /api/v1/reports)
func (h *ServiceHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("create_report").
		WithString("reporter", op.Identity).
		Build()

	if op.UserID != uuid.Nil && !h.reportLimiter.Allow(r.Context(), op.UserID.String()) {
		metrics.IncreaseReportsRateLimitedMetric()
		err := &errTooManyRequests{errors.New("too many reports, try again later")}
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	var form api.ReportCreate
	if err := h.decode(r, &form); err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	report, err := h.reportService.Submit(r.Context(), op, mappers.ReportFormApi(form))
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().WithUUID("report_id", report.ID).Log()
	renderOK(w, r, http.StatusCreated, mappers.ReportToApi(*report))
}

// (GET /api/v1/admin/reports)
func (h *ServiceHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	var filter service.ReportFilter

	statuses, err := queryList(r, "status", reportStatuses)
	if err != nil {
		renderError(w, r, err)
		return
	}
	for _, s := range statuses {
		filter.Status = append(filter.Status, moderation.ReportStatus(s))
	}

	targets, err := queryList(r, "targetType", reportTargets)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if len(targets) > 1 {
		renderError(w, r, service.NewErrInvalidArgument("only one target type can be filtered on"))
		return
	}
	if len(targets) == 1 {
		filter.TargetType = moderation.TargetType(targets[0])
	}

	if filter.TargetID, err = queryUUID(r, "targetId"); err != nil {
		renderError(w, r, err)
		return
	}
	if filter.ReporterID, err = queryUUID(r, "reporterId"); err != nil {
		renderError(w, r, err)
		return
	}
	if filter.Limit, filter.Offset, err = queryPage(r); err != nil {
		renderError(w, r, err)
		return
	}

	reports, err := h.reportService.List(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.ReportListToApi(reports))
}

// (GET /api/v1/admin/reports/{id})
func (h *ServiceHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	report, err := h.reportService.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.ReportToApi(*report))
}

// (POST /api/v1/admin/reports/{id}/dismiss)
func (h *ServiceHandler) DismissReport(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("dismiss_report").
		WithString("admin", op.Identity).
		WithString("report_id", chi.URLParam(r, "id")).
		Build()

	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req api.ReportDismiss
	if err := h.decode(r, &req); err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	report, err := h.reportService.Dismiss(r.Context(), id, op, mappers.DerefString(req.Notes))
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().Log()
	renderOK(w, r, http.StatusOK, mappers.ReportToApi(*report))
}
