package events

import (
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

const (
	JobTransitionedKind      string = "moderation.job.transitioned"
	AppealReviewedKind       string = "moderation.appeal.reviewed"
	CompanyDisabledKind      string = "moderation.company.disabled"
	CompanyEnabledKind       string = "moderation.company.enabled"
	ReportDismissedKind      string = "moderation.report.dismissed"
	TranslationRequestedKind string = "moderation.translation.requested"
)

type JobTransitionedEvent struct {
	JobID       uuid.UUID                 `json:"job_id"`
	CompanyID   uuid.UUID                 `json:"company_id"`
	Action      moderation.ActionType     `json:"action"`
	From        moderation.ApprovalStatus `json:"from"`
	To          moderation.ApprovalStatus `json:"to"`
	IsSuspended bool                      `json:"is_suspended"`
	IsActive    bool                      `json:"is_active"`
	Admin       string                    `json:"admin"`
	Reason      string                    `json:"reason,omitempty"`
}

type AppealReviewedEvent struct {
	AppealID   uuid.UUID               `json:"appeal_id"`
	JobID      uuid.UUID               `json:"job_id"`
	EmployerID uuid.UUID               `json:"employer_id"`
	AppealType moderation.AppealType   `json:"appeal_type"`
	Status     moderation.AppealStatus `json:"status"`
	Admin      string                  `json:"admin"`
	Notes      string                  `json:"notes,omitempty"`
}

type CompanyEvent struct {
	CompanyID     uuid.UUID                     `json:"company_id"`
	OwnerUserID   uuid.UUID                     `json:"owner_user_id"`
	Status        moderation.VerificationStatus `json:"status"`
	SuspendedJobs []uuid.UUID                   `json:"suspended_jobs,omitempty"`
	Admin         string                        `json:"admin"`
	Reason        string                        `json:"reason,omitempty"`
}

type ReportDismissedEvent struct {
	ReportID   uuid.UUID `json:"report_id"`
	ReporterID uuid.UUID `json:"reporter_id"`
	Admin      string    `json:"admin"`
	Notes      string    `json:"notes,omitempty"`
}

// TranslationRequest asks for Text to be translated into Locale and stored against the target field.
type TranslationRequest struct {
	TargetType moderation.TargetType `json:"target_type"`
	TargetID   uuid.UUID             `json:"target_id"`
	Field      string                `json:"field"`
	Text       string                `json:"text"`
	Locale     string                `json:"locale"`
}
