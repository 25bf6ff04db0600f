package service

import (
	"context"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/google/uuid"
)

// AuditService reads the admin action log. Entries are only ever written by the mutators,
// inside their own transaction.
type AuditService struct {
	store store.Store
}

func NewAuditService(s store.Store) *AuditService {
	return &AuditService{store: s}
}

type AuditFilter struct {
	TargetType moderation.TargetType
	TargetID   *uuid.UUID
	Admin      string
	Actions    []moderation.ActionType
	Limit      int
	Offset     int
}

// ListForJob returns the entries targeting the job and the ones about its appeals and reports.
func (s *AuditService) ListForJob(ctx context.Context, jobID uuid.UUID) (model.AdminActionList, error) {
	return s.store.AdminAction().List(ctx, store.NewAdminActionQueryFilter().ByJobID(jobID), nil)
}

func (s *AuditService) List(ctx context.Context, filter AuditFilter) (model.AdminActionList, error) {
	storeFilter := store.NewAdminActionQueryFilter()
	if filter.TargetType != "" && filter.TargetID != nil {
		storeFilter = storeFilter.ByTarget(filter.TargetType, *filter.TargetID)
	}
	if filter.Admin != "" {
		storeFilter = storeFilter.ByAdmin(filter.Admin)
	}
	if len(filter.Actions) > 0 {
		storeFilter = storeFilter.ByActionType(filter.Actions...)
	}
	return s.store.AdminAction().List(ctx, storeFilter, pageOptions(filter.Limit, filter.Offset))
}

func recordAction(ctx context.Context, s store.Store, action model.AdminAction) error {
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	_, err := s.AdminAction().Create(ctx, action)
	return err
}
