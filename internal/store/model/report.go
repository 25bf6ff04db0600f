package model

import (
	"encoding/json"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Report struct {
	ID               uuid.UUID                   `gorm:"primaryKey;column:id;type:VARCHAR(36);"`
	ReporterID       uuid.UUID                   `gorm:"not null;type:VARCHAR(36)"`
	TargetType       moderation.TargetType       `gorm:"not null;type:VARCHAR(32);index:reports_target_idx"`
	TargetID         uuid.UUID                   `gorm:"not null;type:VARCHAR(36);index:reports_target_idx"`
	ReportType       moderation.ReportType       `gorm:"not null;type:VARCHAR(32)"`
	Description      string                      `gorm:"type:TEXT"`
	Evidence         datatypes.JSONSlice[string] `gorm:"not null"`
	Status           moderation.ReportStatus     `gorm:"not null;type:VARCHAR(32);default:'PENDING';index:reports_status_idx"`
	ResolvedBy       *string                     `gorm:"type:VARCHAR(255)"`
	ResolvedAt       *time.Time
	ResolutionAction *moderation.ActionType `gorm:"type:VARCHAR(64)"`
	ResolutionNotes  *string                `gorm:"type:TEXT"`
	CreatedAt        time.Time              `gorm:"not null"`
}

type ReportList []Report

func (r Report) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
