package store

import (
	"context"
	"errors"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Company interface {
	Create(ctx context.Context, company model.Company) (*model.Company, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Company, error)
	// GetForShare reads the company under a shared row lock held until the transaction ends.
	// A concurrent UpdateStatus on the same row waits for it.
	GetForShare(ctx context.Context, id uuid.UUID) (*model.Company, error)
	// UpdateStatus writes the verification status and activity flag if the row is still in expected.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected []moderation.VerificationStatus, next moderation.VerificationStatus, active bool) (*model.Company, error)
}

type CompanyStore struct {
	db *gorm.DB
}

// Make sure we conform to Company interface
var _ Company = (*CompanyStore)(nil)

func NewCompanyStore(db *gorm.DB) Company {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) Create(ctx context.Context, company model.Company) (*model.Company, error) {
	if err := s.getDB(ctx).Create(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &company, nil
}

func (s *CompanyStore) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := s.getDB(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (s *CompanyStore) GetForShare(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	// sqlite drops the locking clause; its writers are serialized anyway.
	if err := s.getDB(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (s *CompanyStore) UpdateStatus(ctx context.Context, id uuid.UUID, expected []moderation.VerificationStatus, next moderation.VerificationStatus, active bool) (*model.Company, error) {
	result := s.getDB(ctx).Model(&model.Company{}).
		Where("id = ? AND verification_status IN ?", id, expected).
		Updates(map[string]any{
			"verification_status": next,
			"is_active":           active,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStaleState
	}
	return s.Get(ctx, id)
}

func (s *CompanyStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
