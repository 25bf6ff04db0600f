package store

import (
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

func (b *BaseQuerier) apply(tx *gorm.DB) *gorm.DB {
	if b == nil {
		return tx
	}
	for _, fn := range b.QueryFn {
		tx = fn(tx)
	}
	return tx
}

type JobQueryFilter struct {
	BaseQuerier
}

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

func (f *JobQueryFilter) ByCompanyID(id uuid.UUID) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("company_id = ?", id)
	})
	return f
}

func (f *JobQueryFilter) ByApprovalStatus(status ...moderation.ApprovalStatus) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("approval_status IN ?", status)
	})
	return f
}

func (f *JobQueryFilter) BySuspended(suspended bool) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_suspended = ?", suspended)
	})
	return f
}

func (f *JobQueryFilter) ByActive(active bool) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_active = ?", active)
	})
	return f
}

type ReportQueryFilter struct {
	BaseQuerier
}

func NewReportQueryFilter() *ReportQueryFilter {
	return &ReportQueryFilter{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

func (f *ReportQueryFilter) ByStatus(status ...moderation.ReportStatus) *ReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status IN ?", status)
	})
	return f
}

func (f *ReportQueryFilter) ByTarget(targetType moderation.TargetType, targetID uuid.UUID) *ReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("target_type = ? AND target_id = ?", targetType, targetID)
	})
	return f
}

func (f *ReportQueryFilter) ByTargetType(targetType moderation.TargetType) *ReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("target_type = ?", targetType)
	})
	return f
}

func (f *ReportQueryFilter) ByResolutionAction(action moderation.ActionType) *ReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("resolution_action = ?", action)
	})
	return f
}

func (f *ReportQueryFilter) ByReporterID(id uuid.UUID) *ReportQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("reporter_id = ?", id)
	})
	return f
}

type AppealQueryFilter struct {
	BaseQuerier
}

func NewAppealQueryFilter() *AppealQueryFilter {
	return &AppealQueryFilter{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

func (f *AppealQueryFilter) ByJobID(id uuid.UUID) *AppealQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", id)
	})
	return f
}

func (f *AppealQueryFilter) ByStatus(status ...moderation.AppealStatus) *AppealQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status IN ?", status)
	})
	return f
}

func (f *AppealQueryFilter) ByType(appealType moderation.AppealType) *AppealQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("appeal_type = ?", appealType)
	})
	return f
}

func (f *AppealQueryFilter) ByEmployerID(id uuid.UUID) *AppealQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("employer_id = ?", id)
	})
	return f
}

type AdminActionQueryFilter struct {
	BaseQuerier
}

func NewAdminActionQueryFilter() *AdminActionQueryFilter {
	return &AdminActionQueryFilter{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

// ByJobID matches entries targeting the job and entries about its appeals and reports.
func (f *AdminActionQueryFilter) ByJobID(id uuid.UUID) *AdminActionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("(job_id = ? OR (target_type = ? AND target_id = ?))", id, moderation.TargetJob, id)
	})
	return f
}

func (f *AdminActionQueryFilter) ByTarget(targetType moderation.TargetType, targetID uuid.UUID) *AdminActionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("target_type = ? AND target_id = ?", targetType, targetID)
	})
	return f
}

func (f *AdminActionQueryFilter) ByActionType(action ...moderation.ActionType) *AdminActionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("action_type IN ?", action)
	})
	return f
}

func (f *AdminActionQueryFilter) ByAdmin(identity string) *AdminActionQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("admin_identity = ?", identity)
	})
	return f
}

type QueryOptions struct {
	BaseQuerier
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{BaseQuerier{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}}
}

func (o *QueryOptions) WithLimit(limit int) *QueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

func (o *QueryOptions) WithOffset(offset int) *QueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return o
}

func (o *QueryOptions) WithOrder(order string) *QueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Order(order)
	})
	return o
}
