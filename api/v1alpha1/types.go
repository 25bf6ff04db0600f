package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalStatusPending       ApprovalStatus = "PENDING"
	ApprovalStatusApproved      ApprovalStatus = "APPROVED"
	ApprovalStatusRejectedAI    ApprovalStatus = "REJECTED_AI"
	ApprovalStatusRejectedFinal ApprovalStatus = "REJECTED_FINAL"
	ApprovalStatusAppealed      ApprovalStatus = "APPEALED"
)

// Job is the moderation view of a job listing.
type Job struct {
	Id               uuid.UUID      `json:"id"`
	CompanyId        uuid.UUID      `json:"companyId"`
	Slug             string         `json:"slug"`
	Title            string         `json:"title"`
	ApprovalStatus   ApprovalStatus `json:"approvalStatus"`
	IsSuspended      bool           `json:"isSuspended"`
	IsActive         bool           `json:"isActive"`
	SuspensionReason *string        `json:"suspensionReason,omitempty"`
	RejectionReason  *string        `json:"rejectionReason,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type Appeal struct {
	Id          uuid.UUID  `json:"id"`
	JobId       uuid.UUID  `json:"jobId"`
	EmployerId  uuid.UUID  `json:"employerId"`
	ReportId    *uuid.UUID `json:"reportId,omitempty"`
	AppealType  string     `json:"appealType"`
	Explanation string     `json:"explanation"`
	Evidence    []string   `json:"evidence"`
	Status      string     `json:"status"`
	ReviewedBy  *string    `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	ReviewNotes *string    `json:"reviewNotes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type AppealList []Appeal

type Report struct {
	Id               uuid.UUID  `json:"id"`
	ReporterId       uuid.UUID  `json:"reporterId"`
	TargetType       string     `json:"targetType"`
	TargetId         uuid.UUID  `json:"targetId"`
	ReportType       string     `json:"reportType"`
	Description      string     `json:"description"`
	Evidence         []string   `json:"evidence"`
	Status           string     `json:"status"`
	ResolvedBy       *string    `json:"resolvedBy,omitempty"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
	ResolutionAction *string    `json:"resolutionAction,omitempty"`
	ResolutionNotes  *string    `json:"resolutionNotes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type ReportList []Report

type Company struct {
	Id                 uuid.UUID `json:"id"`
	OwnerUserId        uuid.UUID `json:"ownerUserId"`
	Name               string    `json:"name"`
	VerificationStatus string    `json:"verificationStatus"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type AdminAction struct {
	Id            uuid.UUID  `json:"id"`
	AdminIdentity string     `json:"adminIdentity"`
	ActionType    string     `json:"actionType"`
	TargetType    string     `json:"targetType"`
	TargetId      uuid.UUID  `json:"targetId"`
	JobId         *uuid.UUID `json:"jobId,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type AdminActionList []AdminAction

// ModerationRequest carries the reason of a reject, suspend or delete action.
// ReportId links the action to the report that triggered it.
type ModerationRequest struct {
	Reason   string     `json:"reason" validate:"required,reason"`
	ReportId *uuid.UUID `json:"reportId,omitempty"`
}

type AppealCreate struct {
	Type        string   `json:"type" validate:"required,appeal_type"`
	Explanation string   `json:"explanation" validate:"required,reason"`
	Evidence    []string `json:"evidence,omitempty" validate:"max=10,dive,evidence"`
}

type AppealReview struct {
	Decision string  `json:"decision" validate:"required,decision"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ReportCreate struct {
	TargetType  string    `json:"targetType" validate:"required,report_target"`
	TargetId    uuid.UUID `json:"targetId" validate:"target_id"`
	ReportType  string    `json:"reportType" validate:"required,report_type"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Evidence    []string  `json:"evidence,omitempty" validate:"max=10,dive,evidence"`
}

type ReportDismiss struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type CompanyEnable struct {
	SetAsApproved bool `json:"setAsApproved"`
}

type CompanyVerify struct {
	Approve bool    `json:"approve"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}
