package mappers

import (
	api "github.com/blue-collar-job-portal/moderation/api/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
)

func JobToApi(j model.Job) api.Job {
	return api.Job{
		Id:               j.ID,
		CompanyId:        j.CompanyID,
		Slug:             j.Slug,
		Title:            j.Title,
		ApprovalStatus:   api.ApprovalStatus(j.ApprovalStatus),
		IsSuspended:      j.IsSuspended,
		IsActive:         j.IsActive,
		SuspensionReason: j.SuspensionReason,
		RejectionReason:  j.RejectionReason,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func AppealToApi(a model.Appeal) api.Appeal {
	return api.Appeal{
		Id:          a.ID,
		JobId:       a.JobID,
		EmployerId:  a.EmployerID,
		ReportId:    a.ReportID,
		AppealType:  string(a.AppealType),
		Explanation: a.Explanation,
		Evidence:    nonNil(a.Evidence),
		Status:      string(a.Status),
		ReviewedBy:  a.ReviewedBy,
		ReviewedAt:  a.ReviewedAt,
		ReviewNotes: a.ReviewNotes,
		CreatedAt:   a.CreatedAt,
	}
}

func AppealListToApi(appeals model.AppealList) api.AppealList {
	list := make(api.AppealList, 0, len(appeals))
	for _, a := range appeals {
		list = append(list, AppealToApi(a))
	}
	return list
}

func ReportToApi(r model.Report) api.Report {
	report := api.Report{
		Id:              r.ID,
		ReporterId:      r.ReporterID,
		TargetType:      string(r.TargetType),
		TargetId:        r.TargetID,
		ReportType:      string(r.ReportType),
		Description:     r.Description,
		Evidence:        nonNil(r.Evidence),
		Status:          string(r.Status),
		ResolvedBy:      r.ResolvedBy,
		ResolvedAt:      r.ResolvedAt,
		ResolutionNotes: r.ResolutionNotes,
		CreatedAt:       r.CreatedAt,
	}
	if r.ResolutionAction != nil {
		action := string(*r.ResolutionAction)
		report.ResolutionAction = &action
	}
	return report
}

func ReportListToApi(reports model.ReportList) api.ReportList {
	list := make(api.ReportList, 0, len(reports))
	for _, r := range reports {
		list = append(list, ReportToApi(r))
	}
	return list
}

func CompanyToApi(c model.Company) api.Company {
	return api.Company{
		Id:                 c.ID,
		OwnerUserId:        c.OwnerUserID,
		Name:               c.Name,
		VerificationStatus: string(c.VerificationStatus),
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func AdminActionListToApi(actions model.AdminActionList) api.AdminActionList {
	list := make(api.AdminActionList, 0, len(actions))
	for _, a := range actions {
		list = append(list, api.AdminAction{
			Id:            a.ID,
			AdminIdentity: a.AdminIdentity,
			ActionType:    string(a.ActionType),
			TargetType:    string(a.TargetType),
			TargetId:      a.TargetID,
			JobId:         a.JobID,
			Reason:        a.Reason,
			Notes:         a.Notes,
			CreatedAt:     a.CreatedAt,
		})
	}
	return list
}

// nonNil keeps empty evidence lists from rendering as null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
