package v1alpha1

import (
	"net/http"

	api "github.com/blue-collar-job-portal/moderation/api/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/auth"
	"github.com/blue-collar-job-portal/moderation/internal/handlers/v1alpha1/mappers"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// (GET /api/v1/admin/jobs/{id})
func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	job, err := h.jobService.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.JobToApi(*job))
}

// (GET /api/v1/admin/jobs/{id}/audit)
func (h *ServiceHandler) ListJobAudit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if _, err := h.jobService.Get(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	actions, err := h.auditService.ListForJob(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.AdminActionListToApi(actions))
}

// (POST /api/v1/admin/jobs/{id}/approve)
func (h *ServiceHandler) ApproveJob(w http.ResponseWriter, r *http.Request) {
	h.moderateJob(w, r, "approve_job", false, func(op moderation.Operator, id uuid.UUID, _ api.ModerationRequest) (*model.Job, error) {
		return h.jobService.Approve(r.Context(), id, op)
	})
}

// (POST /api/v1/admin/jobs/{id}/reject)
func (h *ServiceHandler) RejectJob(w http.ResponseWriter, r *http.Request) {
	h.moderateJob(w, r, "reject_job", true, func(op moderation.Operator, id uuid.UUID, req api.ModerationRequest) (*model.Job, error) {
		return h.jobService.Reject(r.Context(), id, op, req.Reason)
	})
}

// (POST /api/v1/admin/jobs/{id}/suspend)
func (h *ServiceHandler) SuspendJob(w http.ResponseWriter, r *http.Request) {
	h.moderateJob(w, r, "suspend_job", true, func(op moderation.Operator, id uuid.UUID, req api.ModerationRequest) (*model.Job, error) {
		return h.jobService.Suspend(r.Context(), id, op, req.Reason, req.ReportId)
	})
}

// (POST /api/v1/admin/jobs/{id}/delete)
func (h *ServiceHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	h.moderateJob(w, r, "delete_job", true, func(op moderation.Operator, id uuid.UUID, req api.ModerationRequest) (*model.Job, error) {
		return h.jobService.Delete(r.Context(), id, op, req.Reason, req.ReportId)
	})
}

// (POST /api/v1/internal/jobs/{id}/screening-rejection)
func (h *ServiceHandler) ApplyScreeningRejection(w http.ResponseWriter, r *http.Request) {
	h.moderateJob(w, r, "screening_rejection", true, func(op moderation.Operator, id uuid.UUID, req api.ModerationRequest) (*model.Job, error) {
		return h.jobService.ApplyScreeningRejection(r.Context(), id, op, req.Reason)
	})
}

type jobModerationFn func(op moderation.Operator, id uuid.UUID, req api.ModerationRequest) (*model.Job, error)

// moderateJob runs one job action. Approve takes no body, the other actions need a reason.
func (h *ServiceHandler) moderateJob(w http.ResponseWriter, r *http.Request, operation string, withReason bool, fn jobModerationFn) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation(operation).
		WithString("operator", op.Identity).
		WithString("job_id", chi.URLParam(r, "id")).
		Build()

	id, err := pathID(r)
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	var req api.ModerationRequest
	if withReason {
		if err := h.decode(r, &req); err != nil {
			logger.Error(err).Log()
			renderError(w, r, err)
			return
		}
	}

	job, err := fn(op, id, req)
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().WithString("approval_status", string(job.ApprovalStatus)).Log()
	renderOK(w, r, http.StatusOK, mappers.JobToApi(*job))
}
