package model

import (
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

type Company struct {
	ID                 uuid.UUID                     `gorm:"primaryKey;column:id;type:VARCHAR(36);"`
	OwnerUserID        uuid.UUID                     `gorm:"not null;type:VARCHAR(36);uniqueIndex"`
	Name               string                        `gorm:"not null;type:VARCHAR(255)"`
	VerificationStatus moderation.VerificationStatus `gorm:"not null;type:VARCHAR(32);default:'PENDING'"`
	IsActive           bool                          `gorm:"not null;default:true"`
	CreatedAt          time.Time                     `gorm:"not null"`
	UpdatedAt          time.Time
}
