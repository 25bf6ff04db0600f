package v1alpha1

import (
	"net/http"

	api "github.com/blue-collar-job-portal/moderation/api/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/auth"
	"github.com/blue-collar-job-portal/moderation/internal/handlers/v1alpha1/mappers"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/service"
	"github.com/go-chi/chi/v5"
)

var appealStatuses = []string{
	string(moderation.AppealPending),
	string(moderation.AppealUnderReview),
	string(moderation.AppealAccepted),
	string(moderation.AppealRejected),
}

// (POST /api/v1/jobs/{id}/appeals)
func (h *ServiceHandler) CreateAppeal(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("create_appeal").
		WithString("employer", op.Identity).
		WithString("job_id", chi.URLParam(r, "id")).
		Build()

	jobID, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var form api.AppealCreate
	if err := h.decode(r, &form); err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}
	logger.Step("form_validated").WithString("appeal_type", form.Type).Log()

	appeal, err := h.appealService.FileAppeal(r.Context(), jobID, op, mappers.AppealFormApi(form))
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().WithUUID("appeal_id", appeal.ID).Log()
	renderOK(w, r, http.StatusCreated, mappers.AppealToApi(*appeal))
}

// (GET /api/v1/jobs/{id}/appeals)
func (h *ServiceHandler) ListJobAppeals(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())

	jobID, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	appeals, err := h.appealService.ListForJob(r.Context(), jobID, op)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.AppealListToApi(appeals))
}

// (GET /api/v1/admin/appeals)
func (h *ServiceHandler) ListAppeals(w http.ResponseWriter, r *http.Request) {
	var (
		filter service.AppealFilter
		err    error
	)

	statuses, err := queryList(r, "status", appealStatuses)
	if err != nil {
		renderError(w, r, err)
		return
	}
	for _, s := range statuses {
		filter.Status = append(filter.Status, moderation.AppealStatus(s))
	}

	types, err := queryList(r, "type", []string{string(moderation.AppealJobRejection), string(moderation.AppealReportSuspension)})
	if err != nil {
		renderError(w, r, err)
		return
	}
	if len(types) > 1 {
		renderError(w, r, service.NewErrInvalidArgument("only one appeal type can be filtered on"))
		return
	}
	if len(types) == 1 {
		filter.Type = moderation.AppealType(types[0])
	}

	if filter.JobID, err = queryUUID(r, "jobId"); err != nil {
		renderError(w, r, err)
		return
	}
	if filter.EmployerID, err = queryUUID(r, "employerId"); err != nil {
		renderError(w, r, err)
		return
	}
	if filter.Limit, filter.Offset, err = queryPage(r); err != nil {
		renderError(w, r, err)
		return
	}

	appeals, err := h.appealService.List(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.AppealListToApi(appeals))
}

// (GET /api/v1/admin/appeals/{id})
func (h *ServiceHandler) GetAppeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	appeal, err := h.appealService.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.AppealToApi(*appeal))
}

// (POST /api/v1/admin/appeals/{id}/start-review)
func (h *ServiceHandler) StartAppealReview(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("start_appeal_review").
		WithString("admin", op.Identity).
		WithString("appeal_id", chi.URLParam(r, "id")).
		Build()

	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	appeal, err := h.appealService.StartReview(r.Context(), id, op)
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().Log()
	renderOK(w, r, http.StatusOK, mappers.AppealToApi(*appeal))
}

// (POST /api/v1/admin/appeals/{id}/review)
func (h *ServiceHandler) ReviewAppeal(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("review_appeal").
		WithString("admin", op.Identity).
		WithString("appeal_id", chi.URLParam(r, "id")).
		Build()

	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var review api.AppealReview
	if err := h.decode(r, &review); err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	appeal, err := h.appealService.Review(r.Context(), id, op, moderation.Decision(review.Decision), mappers.DerefString(review.Notes))
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().WithString("status", string(appeal.Status)).Log()
	renderOK(w, r, http.StatusOK, mappers.AppealToApi(*appeal))
}
