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

type Report interface {
	Create(ctx context.Context, report model.Report) (*model.Report, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, filter *ReportQueryFilter, opts *QueryOptions) (model.ReportList, error)
	// Resolve moves a PENDING report to RESOLVED. A terminal report yields ErrStaleState.
	Resolve(ctx context.Context, id uuid.UUID, admin string, action moderation.ActionType, notes string) (*model.Report, error)
	// Dismiss moves a PENDING report to DISMISSED. A terminal report yields ErrStaleState.
	Dismiss(ctx context.Context, id uuid.UUID, admin string, notes string) (*model.Report, error)
}

type ReportStore struct {
	db *gorm.DB
}

// Make sure we conform to Report interface
var _ Report = (*ReportStore)(nil)

func NewReportStore(db *gorm.DB) Report {
	return &ReportStore{db: db}
}

func (s *ReportStore) Create(ctx context.Context, report model.Report) (*model.Report, error) {
	if report.Evidence == nil {
		report.Evidence = []string{}
	}
	if err := s.getDB(ctx).Create(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &report, nil
}

func (s *ReportStore) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := s.getDB(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (s *ReportStore) List(ctx context.Context, filter *ReportQueryFilter, opts *QueryOptions) (model.ReportList, error) {
	var reports model.ReportList
	tx := s.getDB(ctx).Model(&reports)
	if filter != nil {
		tx = filter.apply(tx)
	}
	if opts != nil {
		tx = opts.apply(tx)
	}
	if err := tx.Order("created_at DESC, id").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ReportStore) Resolve(ctx context.Context, id uuid.UUID, admin string, action moderation.ActionType, notes string) (*model.Report, error) {
	return s.close(ctx, id, map[string]any{
		"status":            moderation.ReportResolved,
		"resolved_by":       admin,
		"resolved_at":       time.Now(),
		"resolution_action": action,
		"resolution_notes":  notes,
	})
}

func (s *ReportStore) Dismiss(ctx context.Context, id uuid.UUID, admin string, notes string) (*model.Report, error) {
	return s.close(ctx, id, map[string]any{
		"status":            moderation.ReportDismissed,
		"resolved_by":       admin,
		"resolved_at":       time.Now(),
		"resolution_action": moderation.ActionDismissReport,
		"resolution_notes":  notes,
	})
}

func (s *ReportStore) close(ctx context.Context, id uuid.UUID, values map[string]any) (*model.Report, error) {
	result := s.getDB(ctx).Model(&model.Report{}).
		Where("id = ? AND status = ?", id, moderation.ReportPending).
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

func (s *ReportStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
