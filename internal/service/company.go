package service

import (
	"context"
	"errors"

	"github.com/blue-collar-job-portal/moderation/internal/events"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/blue-collar-job-portal/moderation/pkg/log"
	"github.com/blue-collar-job-portal/moderation/pkg/metrics"
	"github.com/google/uuid"
)

// CompanyService runs the account cascades. A cascade commits as a whole or not at all.
type CompanyService struct {
	store     store.Store
	jobs      *JobModerationService
	publisher EventPublisher
	logger    *log.Builder
}

func NewCompanyService(s store.Store, jobs *JobModerationService, publisher EventPublisher) *CompanyService {
	return &CompanyService{
		store:     s,
		jobs:      jobs,
		publisher: publisherOrNoop(publisher),
		logger:    log.NewDebugLogger("company_service"),
	}
}

func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	company, err := s.store.Company().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCompanyNotFound(id)
		}
		return nil, err
	}
	return company, nil
}

// Disable takes the company down: it is disabled, every live approved job is suspended and the
// owner is suspended. An EMPLOYER report given as reportID is resolved with it.
func (s *CompanyService) Disable(ctx context.Context, companyID uuid.UUID, op moderation.Operator, reason string, reportID *uuid.UUID) (*model.Company, error) {
	tracer := s.logger.WithContext(ctx).Operation("disable_company").
		WithUUID("company_id", companyID).
		WithUUIDPtr("report_id", reportID).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "disable companies"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}
	if reason == "" {
		return nil, NewErrInvalidArgument("a reason is required to disable a company")
	}

	var (
		result    *model.Company
		suspended []uuid.UUID
		effects   sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		company, err := s.Get(ctx, companyID)
		if err != nil {
			return err
		}
		if company.VerificationStatus == moderation.VerificationDisabled {
			return NewErrInvalidTransitionf("company %s is already disabled", companyID)
		}
		if reportID != nil {
			if _, err := checkReport(ctx, s.store, *reportID, moderation.TargetEmployer, companyID); err != nil {
				return err
			}
		}

		updated, err := s.store.Company().UpdateStatus(ctx, companyID,
			[]moderation.VerificationStatus{moderation.VerificationPending, moderation.VerificationApproved, moderation.VerificationRejected},
			moderation.VerificationDisabled, false)
		if err != nil {
			if errors.Is(err, store.ErrStaleState) {
				metrics.IncreaseConflictsTotalMetric("company")
				return NewErrConcurrentTransition("company", companyID)
			}
			return err
		}
		tracer.Step("company_disabled").Log()

		// from here on every failure undoes the writes above
		suspended, err = s.suspendLiveJobs(ctx, companyID, reason)
		if err != nil {
			return NewErrCascadePartialFailure(companyID, "job suspension", err)
		}
		tracer.Step("jobs_suspended").WithInt("count", len(suspended)).Log()

		owner, err := s.store.User().UpdateStatus(ctx, company.OwnerUserID, moderation.UserSuspended)
		if err != nil {
			return NewErrCascadePartialFailure(companyID, "owner suspension", err)
		}

		if reportID != nil {
			if _, err := resolveReport(ctx, s.store, *reportID, op, moderation.ActionDisableCompany, reason); err != nil {
				return NewErrCascadePartialFailure(companyID, "report resolution", err)
			}
		}

		action := model.NewAdminAction(op.Identity, moderation.ActionDisableCompany, moderation.TargetCompany, companyID).WithReason(reason)
		if err := recordAction(ctx, s.store, action); err != nil {
			return NewErrCascadePartialFailure(companyID, "audit", err)
		}

		effects.action(moderation.ActionDisableCompany)
		effects.add(events.CompanyDisabledKind, events.CompanyEvent{
			CompanyID:     companyID,
			OwnerUserID:   company.OwnerUserID,
			Status:        updated.VerificationStatus,
			SuspendedJobs: suspended,
			Admin:         op.Identity,
			Reason:        reason,
		})
		effects.translate(moderation.TargetCompany, companyID, "disable_reason", reason, owner.Locale)
		result = updated
		return nil
	})
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	metrics.AddCascadeJobsSuspendedMetric(len(suspended))
	effects.flush(ctx, s.publisher)
	tracer.Success().WithInt("suspended_jobs", len(suspended)).Log()
	return result, nil
}

// Enable brings a disabled company back. Its jobs stay as they are and go back through their
// own moderation.
func (s *CompanyService) Enable(ctx context.Context, companyID uuid.UUID, op moderation.Operator, setAsApproved bool) (*model.Company, error) {
	tracer := s.logger.WithContext(ctx).Operation("enable_company").
		WithUUID("company_id", companyID).
		WithBool("set_as_approved", setAsApproved).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "enable companies"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	next := moderation.VerificationPending
	if setAsApproved {
		next = moderation.VerificationApproved
	}

	var (
		result  *model.Company
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		company, err := s.Get(ctx, companyID)
		if err != nil {
			return err
		}
		if company.VerificationStatus != moderation.VerificationDisabled {
			return NewErrInvalidTransitionf("company %s is not disabled", companyID)
		}

		updated, err := s.store.Company().UpdateStatus(ctx, companyID,
			[]moderation.VerificationStatus{moderation.VerificationDisabled}, next, true)
		if err != nil {
			if errors.Is(err, store.ErrStaleState) {
				metrics.IncreaseConflictsTotalMetric("company")
				return NewErrConcurrentTransition("company", companyID)
			}
			return err
		}

		if _, err := s.store.User().UpdateStatus(ctx, company.OwnerUserID, moderation.UserActive); err != nil {
			return NewErrCascadePartialFailure(companyID, "owner reactivation", err)
		}

		action := model.NewAdminAction(op.Identity, moderation.ActionEnableCompany, moderation.TargetCompany, companyID)
		if err := recordAction(ctx, s.store, action); err != nil {
			return NewErrCascadePartialFailure(companyID, "audit", err)
		}

		effects.action(moderation.ActionEnableCompany)
		effects.add(events.CompanyEnabledKind, events.CompanyEvent{
			CompanyID:   companyID,
			OwnerUserID: company.OwnerUserID,
			Status:      updated.VerificationStatus,
			Admin:       op.Identity,
		})
		result = updated
		return nil
	})
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	effects.flush(ctx, s.publisher)
	tracer.Success().Log()
	return result, nil
}

// Verify is the onboarding review of a PENDING company.
func (s *CompanyService) Verify(ctx context.Context, companyID uuid.UUID, op moderation.Operator, approve bool, notes string) (*model.Company, error) {
	tracer := s.logger.WithContext(ctx).Operation("verify_company").
		WithUUID("company_id", companyID).
		WithBool("approve", approve).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "verify companies"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	next, actionType := moderation.VerificationApproved, moderation.ActionVerifyCompany
	if !approve {
		next, actionType = moderation.VerificationRejected, moderation.ActionRejectCompany
	}

	var (
		result  *model.Company
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		company, err := s.Get(ctx, companyID)
		if err != nil {
			return err
		}
		if company.VerificationStatus != moderation.VerificationPending {
			return NewErrInvalidTransitionf("company %s is %s, only pending companies can be verified", companyID, company.VerificationStatus)
		}

		updated, err := s.store.Company().UpdateStatus(ctx, companyID,
			[]moderation.VerificationStatus{moderation.VerificationPending}, next, company.IsActive)
		if err != nil {
			if errors.Is(err, store.ErrStaleState) {
				metrics.IncreaseConflictsTotalMetric("company")
				return NewErrConcurrentTransition("company", companyID)
			}
			return err
		}

		action := model.NewAdminAction(op.Identity, actionType, moderation.TargetCompany, companyID).WithNotes(notes)
		if err := recordAction(ctx, s.store, action); err != nil {
			return err
		}

		effects.action(actionType)
		if !approve {
			effects.translate(moderation.TargetCompany, companyID, "verification_notes", notes, ownerLocale(ctx, s.store, companyID))
		}
		result = updated
		return nil
	})
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	effects.flush(ctx, s.publisher)
	tracer.Success().Log()
	return result, nil
}

// suspendLiveJobs suspends every active, approved and not yet suspended job of the company.
func (s *CompanyService) suspendLiveJobs(ctx context.Context, companyID uuid.UUID, reason string) ([]uuid.UUID, error) {
	jobs, err := s.store.Job().List(ctx,
		store.NewJobQueryFilter().
			ByCompanyID(companyID).
			ByApprovalStatus(moderation.ApprovalApproved).
			BySuspended(false).
			ByActive(true),
		nil)
	if err != nil {
		return nil, err
	}

	suspended := make([]uuid.UUID, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		state, err := job.State()
		if err != nil {
			return nil, err
		}
		next, err := moderation.Suspend(state, reason)
		if err != nil {
			return nil, NewErrInvalidTransition(err)
		}
		if _, err := s.jobs.transition(ctx, job, next); err != nil {
			return nil, err
		}
		suspended = append(suspended, job.ID)
	}
	return suspended, nil
}
