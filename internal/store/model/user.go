package model

import (
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID             `gorm:"primaryKey;column:id;type:VARCHAR(36);"`
	Email       string                `gorm:"not null;uniqueIndex;type:VARCHAR(255)"`
	DisplayName string                `gorm:"type:VARCHAR(255)"`
	Locale      string                `gorm:"not null;type:VARCHAR(16);default:'en'"`
	Status      moderation.UserStatus `gorm:"not null;type:VARCHAR(32);default:'ACTIVE'"`
	CreatedAt   time.Time             `gorm:"not null"`
	UpdatedAt   time.Time
}
