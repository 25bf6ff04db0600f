package model

import (
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

// Translation holds a localized copy of a moderation reason or note.
type Translation struct {
	TargetType moderation.TargetType `gorm:"primaryKey;type:VARCHAR(32)"`
	TargetID   uuid.UUID             `gorm:"primaryKey;type:VARCHAR(36)"`
	Field      string                `gorm:"primaryKey;type:VARCHAR(64)"`
	Locale     string                `gorm:"primaryKey;type:VARCHAR(16)"`
	Text       string                `gorm:"not null;type:TEXT"`
	UpdatedAt  time.Time
}

func (Translation) TableName() string {
	return "moderation_translations"
}
