package v1alpha1

import (
	"net/http"

	api "github.com/blue-collar-job-portal/moderation/api/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/auth"
	"github.com/blue-collar-job-portal/moderation/internal/handlers/v1alpha1/mappers"
	"github.com/go-chi/chi/v5"
)

// (GET /api/v1/admin/companies/{id})
func (h *ServiceHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	company, err := h.companyService.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.CompanyToApi(*company))
}

// (POST /api/v1/admin/companies/{id}/disable)
func (h *ServiceHandler) DisableCompany(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("disable_company").
		WithString("admin", op.Identity).
		WithString("company_id", chi.URLParam(r, "id")).
		Build()

	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req api.ModerationRequest
	if err := h.decode(r, &req); err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	company, err := h.companyService.Disable(r.Context(), id, op, req.Reason, req.ReportId)
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().Log()
	renderOK(w, r, http.StatusOK, mappers.CompanyToApi(*company))
}

// (POST /api/v1/admin/companies/{id}/enable)
func (h *ServiceHandler) EnableCompany(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("enable_company").
		WithString("admin", op.Identity).
		WithString("company_id", chi.URLParam(r, "id")).
		Build()

	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req api.CompanyEnable
	if err := h.decode(r, &req); err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	company, err := h.companyService.Enable(r.Context(), id, op, req.SetAsApproved)
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().WithString("verification_status", string(company.VerificationStatus)).Log()
	renderOK(w, r, http.StatusOK, mappers.CompanyToApi(*company))
}

// (POST /api/v1/admin/companies/{id}/verify)
func (h *ServiceHandler) VerifyCompany(w http.ResponseWriter, r *http.Request) {
	op := auth.MustHaveOperator(r.Context())
	logger := h.logger.WithContext(r.Context()).
		Operation("verify_company").
		WithString("admin", op.Identity).
		WithString("company_id", chi.URLParam(r, "id")).
		Build()

	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req api.CompanyVerify
	if err := h.decode(r, &req); err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	company, err := h.companyService.Verify(r.Context(), id, op, req.Approve, mappers.DerefString(req.Notes))
	if err != nil {
		logger.Error(err).Log()
		renderError(w, r, err)
		return
	}

	logger.Success().WithString("verification_status", string(company.VerificationStatus)).Log()
	renderOK(w, r, http.StatusOK, mappers.CompanyToApi(*company))
}
