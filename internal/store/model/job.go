package model

import (
	"encoding/json"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

type Job struct {
	ID               uuid.UUID                 `gorm:"primaryKey;column:id;type:VARCHAR(36);"`
	Slug             string                    `gorm:"not null;uniqueIndex;<-:create"`
	CompanyID        uuid.UUID                 `gorm:"not null;type:VARCHAR(36);index:jobs_company_id_idx"`
	Title            string                    `gorm:"not null;type:VARCHAR(255)"`
	ApprovalStatus   moderation.ApprovalStatus `gorm:"not null;type:VARCHAR(32);default:'PENDING'"`
	IsSuspended      bool                      `gorm:"not null;default:false;check:jobs_suspended_only_when_approved,NOT is_suspended OR approval_status = 'APPROVED'"`
	IsActive         bool                      `gorm:"not null;default:true"`
	SuspensionReason *string                   `gorm:"type:TEXT"`
	RejectionReason  *string                   `gorm:"type:TEXT"`
	CreatedAt        time.Time                 `gorm:"not null"`
	UpdatedAt        time.Time
}

type JobList []Job

func NewJob(companyID uuid.UUID, slug, title string) Job {
	return Job{
		ID:             uuid.New(),
		Slug:           slug,
		CompanyID:      companyID,
		Title:          title,
		ApprovalStatus: moderation.ApprovalPending,
		IsActive:       true,
	}
}

func (j Job) Columns() moderation.Columns {
	return moderation.Columns{
		ApprovalStatus:   j.ApprovalStatus,
		IsSuspended:      j.IsSuspended,
		IsActive:         j.IsActive,
		SuspensionReason: j.SuspensionReason,
		RejectionReason:  j.RejectionReason,
	}
}

// State decodes the persisted moderation columns.
func (j Job) State() (moderation.State, error) {
	return moderation.Decode(j.Columns())
}

func (j *Job) SetColumns(c moderation.Columns) {
	j.ApprovalStatus = c.ApprovalStatus
	j.IsSuspended = c.IsSuspended
	j.IsActive = c.IsActive
	j.SuspensionReason = c.SuspensionReason
	j.RejectionReason = c.RejectionReason
}

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
