package model

import (
	"encoding/json"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

// AdminAction is an audit entry. Every column is create-only.
type AdminAction struct {
	ID            uuid.UUID             `gorm:"primaryKey;column:id;type:VARCHAR(36);<-:create"`
	AdminIdentity string                `gorm:"not null;type:VARCHAR(255);<-:create"`
	ActionType    moderation.ActionType `gorm:"not null;type:VARCHAR(64);<-:create"`
	TargetType    moderation.TargetType `gorm:"not null;type:VARCHAR(32);index:admin_actions_target_idx;<-:create"`
	TargetID      uuid.UUID             `gorm:"not null;type:VARCHAR(36);index:admin_actions_target_idx;<-:create"`
	JobID         *uuid.UUID            `gorm:"type:VARCHAR(36);index:admin_actions_job_id_idx;<-:create"`
	Reason        string                `gorm:"type:TEXT;<-:create"`
	Notes         string                `gorm:"type:TEXT;<-:create"`
	CreatedAt     time.Time             `gorm:"not null;<-:create"`
}

type AdminActionList []AdminAction

func NewAdminAction(admin string, action moderation.ActionType, targetType moderation.TargetType, targetID uuid.UUID) AdminAction {
	a := AdminAction{
		ID:            uuid.New(),
		AdminIdentity: admin,
		ActionType:    action,
		TargetType:    targetType,
		TargetID:      targetID,
	}
	if targetType == moderation.TargetJob {
		a.JobID = &targetID
	}
	return a
}

func (a AdminAction) WithJob(jobID uuid.UUID) AdminAction {
	a.JobID = &jobID
	return a
}

func (a AdminAction) WithReason(reason string) AdminAction {
	a.Reason = reason
	return a
}

func (a AdminAction) WithNotes(notes string) AdminAction {
	a.Notes = notes
	return a
}

func (a AdminAction) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
