package store

import (
	"context"
	"errors"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Translation interface {
	Upsert(ctx context.Context, translation model.Translation) error
	Get(ctx context.Context, targetType moderation.TargetType, targetID uuid.UUID, field, locale string) (*model.Translation, error)
	List(ctx context.Context, targetType moderation.TargetType, targetID uuid.UUID) ([]model.Translation, error)
}

type TranslationStore struct {
	db *gorm.DB
}

// Make sure we conform to Translation interface
var _ Translation = (*TranslationStore)(nil)

func NewTranslationStore(db *gorm.DB) Translation {
	return &TranslationStore{db: db}
}

func (s *TranslationStore) Upsert(ctx context.Context, translation model.Translation) error {
	return s.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target_type"}, {Name: "target_id"}, {Name: "field"}, {Name: "locale"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
	}).Create(&translation).Error
}

func (s *TranslationStore) Get(ctx context.Context, targetType moderation.TargetType, targetID uuid.UUID, field, locale string) (*model.Translation, error) {
	var t model.Translation
	err := s.getDB(ctx).
		Where("target_type = ? AND target_id = ? AND field = ? AND locale = ?", targetType, targetID, field, locale).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TranslationStore) List(ctx context.Context, targetType moderation.TargetType, targetID uuid.UUID) ([]model.Translation, error) {
	var translations []model.Translation
	err := s.getDB(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("field, locale").
		Find(&translations).Error
	if err != nil {
		return nil, err
	}
	return translations, nil
}

func (s *TranslationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
