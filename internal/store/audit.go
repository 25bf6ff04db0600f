package store

import (
	"context"

	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"gorm.io/gorm"
)

// AdminAction is the append-only audit log. It has no update or delete.
type AdminAction interface {
	Create(ctx context.Context, action model.AdminAction) (*model.AdminAction, error)
	List(ctx context.Context, filter *AdminActionQueryFilter, opts *QueryOptions) (model.AdminActionList, error)
}

type AdminActionStore struct {
	db *gorm.DB
}

// Make sure we conform to AdminAction interface
var _ AdminAction = (*AdminActionStore)(nil)

func NewAdminActionStore(db *gorm.DB) AdminAction {
	return &AdminActionStore{db: db}
}

func (s *AdminActionStore) Create(ctx context.Context, action model.AdminAction) (*model.AdminAction, error) {
	if err := s.getDB(ctx).Create(&action).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

func (s *AdminActionStore) List(ctx context.Context, filter *AdminActionQueryFilter, opts *QueryOptions) (model.AdminActionList, error) {
	var actions model.AdminActionList
	tx := s.getDB(ctx).Model(&actions)
	if filter != nil {
		tx = filter.apply(tx)
	}
	if opts != nil {
		tx = opts.apply(tx)
	}
	if err := tx.Order("created_at, id").Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (s *AdminActionStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
