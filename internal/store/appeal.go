package store

import (
	"context"
	"errors"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appeal interface {
	Create(ctx context.Context, appeal model.Appeal) (*model.Appeal, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Appeal, error)
	List(ctx context.Context, filter *AppealQueryFilter, opts *QueryOptions) (model.AppealList, error)
	// GetOpen returns the non-terminal appeal of the job or ErrRecordNotFound.
	GetOpen(ctx context.Context, jobID uuid.UUID) (*model.Appeal, error)
	// StartReview moves a PENDING appeal to UNDER_REVIEW.
	StartReview(ctx context.Context, id uuid.UUID) (*model.Appeal, error)
	// Close sets the terminal status and review fields of an open appeal in one write.
	Close(ctx context.Context, id uuid.UUID, status moderation.AppealStatus, reviewer string, notes string) (*model.Appeal, error)
}

type AppealStore struct {
	db *gorm.DB
}

// Make sure we conform to Appeal interface
var _ Appeal = (*AppealStore)(nil)

func NewAppealStore(db *gorm.DB) Appeal {
	return &AppealStore{db: db}
}

func (s *AppealStore) Create(ctx context.Context, appeal model.Appeal) (*model.Appeal, error) {
	if appeal.Evidence == nil {
		appeal.Evidence = []string{}
	}
	if err := s.getDB(ctx).Create(&appeal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &appeal, nil
}

func (s *AppealStore) Get(ctx context.Context, id uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	if err := s.getDB(ctx).First(&appeal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &appeal, nil
}

func (s *AppealStore) List(ctx context.Context, filter *AppealQueryFilter, opts *QueryOptions) (model.AppealList, error) {
	var appeals model.AppealList
	tx := s.getDB(ctx).Model(&appeals)
	if filter != nil {
		tx = filter.apply(tx)
	}
	if opts != nil {
		tx = opts.apply(tx)
	}
	if err := tx.Order("created_at DESC, id").Find(&appeals).Error; err != nil {
		return nil, err
	}
	return appeals, nil
}

func (s *AppealStore) GetOpen(ctx context.Context, jobID uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	err := s.getDB(ctx).
		Where("job_id = ? AND status IN ?", jobID, moderation.OpenAppealStatuses).
		First(&appeal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &appeal, nil
}

func (s *AppealStore) StartReview(ctx context.Context, id uuid.UUID) (*model.Appeal, error) {
	return s.update(ctx, id, []moderation.AppealStatus{moderation.AppealPending}, map[string]any{
		"status":     moderation.AppealUnderReview,
		"updated_at": time.Now(),
	})
}

func (s *AppealStore) Close(ctx context.Context, id uuid.UUID, status moderation.AppealStatus, reviewer string, notes string) (*model.Appeal, error) {
	now := time.Now()
	return s.update(ctx, id, moderation.OpenAppealStatuses, map[string]any{
		"status":       status,
		"reviewed_by":  reviewer,
		"reviewed_at":  now,
		"review_notes": notes,
		"updated_at":   now,
	})
}

func (s *AppealStore) update(ctx context.Context, id uuid.UUID, from []moderation.AppealStatus, values map[string]any) (*model.Appeal, error) {
	result := s.getDB(ctx).Model(&model.Appeal{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(values)
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

func (s *AppealStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
