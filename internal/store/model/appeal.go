package model

import (
	"encoding/json"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Appeal struct {
	ID          uuid.UUID                   `gorm:"primaryKey;column:id;type:VARCHAR(36);"`
	JobID       uuid.UUID                   `gorm:"not null;type:VARCHAR(36);index:appeals_open_per_job,unique,where:status <> 'ACCEPTED' AND status <> 'REJECTED'"`
	EmployerID  uuid.UUID                   `gorm:"not null;type:VARCHAR(36)"`
	ReportID    *uuid.UUID                  `gorm:"type:VARCHAR(36)"`
	AppealType  moderation.AppealType       `gorm:"not null;type:VARCHAR(32)"`
	Explanation string                      `gorm:"not null;type:TEXT"`
	Evidence    datatypes.JSONSlice[string] `gorm:"not null"`
	Status      moderation.AppealStatus     `gorm:"not null;type:VARCHAR(32);default:'PENDING'"`
	ReviewedBy  *string                     `gorm:"type:VARCHAR(255)"`
	ReviewedAt  *time.Time
	ReviewNotes *string   `gorm:"type:TEXT"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}

type AppealList []Appeal

func (a Appeal) IsOpen() bool {
	return !a.Status.IsTerminal()
}

func (a Appeal) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
