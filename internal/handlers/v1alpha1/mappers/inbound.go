package mappers

import (
	api "github.com/blue-collar-job-portal/moderation/api/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/service"
)

func AppealFormApi(resource api.AppealCreate) service.AppealForm {
	return service.AppealForm{
		Type:        moderation.AppealType(resource.Type),
		Explanation: resource.Explanation,
		Evidence:    resource.Evidence,
	}
}

func ReportFormApi(resource api.ReportCreate) service.ReportForm {
	form := service.ReportForm{
		TargetType: moderation.TargetType(resource.TargetType),
		TargetID:   resource.TargetId,
		ReportType: moderation.ReportType(resource.ReportType),
		Evidence:   resource.Evidence,
	}
	if resource.Description != nil {
		form.Description = *resource.Description
	}
	return form
}

func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
