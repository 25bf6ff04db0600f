package v1alpha1

import (
	"net/http"

	"github.com/blue-collar-job-portal/moderation/internal/handlers/v1alpha1/mappers"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/service"
)

var (
	auditTargets = []string{
		string(moderation.TargetJob),
		string(moderation.TargetAppeal),
		string(moderation.TargetReport),
		string(moderation.TargetCompany),
	}
	auditActions = []string{
		string(moderation.ActionApproveJob),
		string(moderation.ActionRejectJob),
		string(moderation.ActionSuspendJob),
		string(moderation.ActionDeleteJob),
		string(moderation.ActionApproveAppeal),
		string(moderation.ActionRejectAppeal),
		string(moderation.ActionStartAppealReview),
		string(moderation.ActionDisableCompany),
		string(moderation.ActionEnableCompany),
		string(moderation.ActionVerifyCompany),
		string(moderation.ActionRejectCompany),
		string(moderation.ActionDismissReport),
	}
)

// (GET /api/v1/admin/audit)
func (h *ServiceHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	filter := service.AuditFilter{Admin: r.URL.Query().Get("admin")}

	targets, err := queryList(r, "targetType", auditTargets)
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

	actions, err := queryList(r, "action", auditActions)
	if err != nil {
		renderError(w, r, err)
		return
	}
	for _, a := range actions {
		filter.Actions = append(filter.Actions, moderation.ActionType(a))
	}

	if filter.TargetID, err = queryUUID(r, "targetId"); err != nil {
		renderError(w, r, err)
		return
	}
	if filter.Limit, filter.Offset, err = queryPage(r); err != nil {
		renderError(w, r, err)
		return
	}

	entries, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderOK(w, r, http.StatusOK, mappers.AdminActionListToApi(entries))
}
