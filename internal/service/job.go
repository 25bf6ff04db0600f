package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/blue-collar-job-portal/moderation/internal/events"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/blue-collar-job-portal/moderation/pkg/log"
	"github.com/blue-collar-job-portal/moderation/pkg/metrics"
	"github.com/google/uuid"
)

const deletedJobAppealNotes = "job deleted"

type JobModerationService struct {
	store     store.Store
	publisher EventPublisher
	logger    *log.Builder
}

func NewJobModerationService(s store.Store, publisher EventPublisher) *JobModerationService {
	return &JobModerationService{
		store:     s,
		publisher: publisherOrNoop(publisher),
		logger:    log.NewDebugLogger("job_moderation_service"),
	}
}

func (s *JobModerationService) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

// Approve publishes a PENDING job or accepts the open rejection appeal of an APPEALED one.
func (s *JobModerationService) Approve(ctx context.Context, jobID uuid.UUID, op moderation.Operator) (*model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation("approve_job").
		WithUUID("job_id", jobID).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "approve jobs"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	var (
		result  *model.Job
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		job, state, err := s.load(ctx, jobID)
		if err != nil {
			return err
		}

		next, err := moderation.Approve(state)
		if err != nil {
			return NewErrInvalidTransition(err)
		}
		if err := s.requireLiveCompany(ctx, job); err != nil {
			return err
		}

		action := moderation.ActionApproveJob
		if _, appealed := state.(moderation.UnderAppeal); appealed {
			action = moderation.ActionApproveAppeal
		}
		tracer.Step("transition_checked").WithString("from", string(state.Status())).WithString("action", string(action)).Log()

		updated, err := s.transition(ctx, job, next)
		if err != nil {
			return err
		}

		if action == moderation.ActionApproveAppeal {
			appeal, err := closeOpenAppeal(ctx, s.store, jobID, moderation.AppealAccepted, op, "")
			if err != nil {
				return err
			}
			if appeal != nil {
				if err := resolveReportIfPending(ctx, s.store, appeal.ReportID, op, action, ""); err != nil {
					return err
				}
				effects.add(events.AppealReviewedKind, appealReviewedEvent(appeal, op))
			}
		}

		if err := recordAction(ctx, s.store, model.NewAdminAction(op.Identity, action, moderation.TargetJob, jobID)); err != nil {
			return err
		}

		effects.action(action)
		effects.add(events.JobTransitionedKind, jobTransitionedEvent(job, updated, action, op, ""))
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

// Reject is final for a PENDING job and closes the open appeal of an APPEALED one.
func (s *JobModerationService) Reject(ctx context.Context, jobID uuid.UUID, op moderation.Operator, reason string) (*model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation("reject_job").
		WithUUID("job_id", jobID).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "reject jobs"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}
	if reason == "" {
		return nil, NewErrInvalidArgument("a rejection reason is required")
	}

	var (
		result  *model.Job
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		job, state, err := s.load(ctx, jobID)
		if err != nil {
			return err
		}

		next, err := moderation.Reject(state, reason)
		if err != nil {
			return NewErrInvalidTransition(err)
		}

		action := moderation.ActionRejectJob
		if _, appealed := state.(moderation.UnderAppeal); appealed {
			action = moderation.ActionRejectAppeal
		}

		updated, err := s.transition(ctx, job, next)
		if err != nil {
			return err
		}

		if action == moderation.ActionRejectAppeal {
			appeal, err := closeOpenAppeal(ctx, s.store, jobID, moderation.AppealRejected, op, reason)
			if err != nil {
				return err
			}
			if appeal != nil {
				effects.add(events.AppealReviewedKind, appealReviewedEvent(appeal, op))
			}
		}

		if err := recordAction(ctx, s.store, model.NewAdminAction(op.Identity, action, moderation.TargetJob, jobID).WithReason(reason)); err != nil {
			return err
		}

		effects.action(action)
		effects.add(events.JobTransitionedKind, jobTransitionedEvent(job, updated, action, op, reason))
		effects.translate(moderation.TargetJob, jobID, "rejection_reason", reason, ownerLocale(ctx, s.store, job.CompanyID))
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

// Suspend hides an approved job. When reportID is set the report must target this job and is
// resolved in the same transaction.
func (s *JobModerationService) Suspend(ctx context.Context, jobID uuid.UUID, op moderation.Operator, reason string, reportID *uuid.UUID) (*model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation("suspend_job").
		WithUUID("job_id", jobID).
		WithUUIDPtr("report_id", reportID).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "suspend jobs"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}
	if reason == "" {
		return nil, NewErrInvalidArgument("a suspension reason is required")
	}

	var (
		result  *model.Job
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		if reportID != nil {
			if _, err := checkReport(ctx, s.store, *reportID, moderation.TargetJob, jobID); err != nil {
				return err
			}
		}

		job, state, err := s.load(ctx, jobID)
		if err != nil {
			return err
		}

		next, err := moderation.Suspend(state, reason)
		if err != nil {
			return NewErrInvalidTransition(err)
		}

		updated, err := s.transition(ctx, job, next)
		if err != nil {
			return err
		}

		if reportID != nil {
			if _, err := resolveReport(ctx, s.store, *reportID, op, moderation.ActionSuspendJob, reason); err != nil {
				return err
			}
			tracer.Step("report_resolved").WithUUID("report_id", *reportID).Log()
		}

		if err := recordAction(ctx, s.store, model.NewAdminAction(op.Identity, moderation.ActionSuspendJob, moderation.TargetJob, jobID).WithReason(reason)); err != nil {
			return err
		}

		effects.action(moderation.ActionSuspendJob)
		effects.add(events.JobTransitionedKind, jobTransitionedEvent(job, updated, moderation.ActionSuspendJob, op, reason))
		effects.translate(moderation.TargetJob, jobID, "suspension_reason", reason, ownerLocale(ctx, s.store, job.CompanyID))
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

// Delete deactivates the job for good. An open appeal is closed as rejected.
func (s *JobModerationService) Delete(ctx context.Context, jobID uuid.UUID, op moderation.Operator, reason string, reportID *uuid.UUID) (*model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation("delete_job").
		WithUUID("job_id", jobID).
		WithUUIDPtr("report_id", reportID).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "delete jobs"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}
	if reason == "" {
		return nil, NewErrInvalidArgument("a deletion reason is required")
	}

	var (
		result  *model.Job
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		if reportID != nil {
			if _, err := checkReport(ctx, s.store, *reportID, moderation.TargetJob, jobID); err != nil {
				return err
			}
		}

		job, state, err := s.load(ctx, jobID)
		if err != nil {
			return err
		}

		next, err := moderation.Delete(state)
		if err != nil {
			return NewErrInvalidTransition(err)
		}

		updated, err := s.transition(ctx, job, next)
		if err != nil {
			return err
		}

		appeal, err := closeOpenAppeal(ctx, s.store, jobID, moderation.AppealRejected, op, deletedJobAppealNotes)
		if err != nil {
			return err
		}
		if appeal != nil {
			tracer.Step("open_appeal_closed").WithUUID("appeal_id", appeal.ID).Log()
			effects.add(events.AppealReviewedKind, appealReviewedEvent(appeal, op))
		}

		if reportID != nil {
			if _, err := resolveReport(ctx, s.store, *reportID, op, moderation.ActionDeleteJob, reason); err != nil {
				return err
			}
		}

		if err := recordAction(ctx, s.store, model.NewAdminAction(op.Identity, moderation.ActionDeleteJob, moderation.TargetJob, jobID).WithReason(reason)); err != nil {
			return err
		}

		effects.action(moderation.ActionDeleteJob)
		effects.add(events.JobTransitionedKind, jobTransitionedEvent(job, updated, moderation.ActionDeleteJob, op, reason))
		effects.translate(moderation.TargetJob, jobID, "deletion_reason", reason, ownerLocale(ctx, s.store, job.CompanyID))
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

// ApplyScreeningRejection is the write path of the automatic screener. It is the only way into
// REJECTED_AI and leaves no audit entry.
func (s *JobModerationService) ApplyScreeningRejection(ctx context.Context, jobID uuid.UUID, op moderation.Operator, reason string) (*model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation("apply_screening_rejection").
		WithUUID("job_id", jobID).
		Build()

	if err := op.Require(moderation.RoleScreener); err != nil {
		err = NewErrForbidden(op, "apply screening decisions")
		tracer.Error(err).Log()
		return nil, err
	}
	if reason == "" {
		return nil, NewErrInvalidArgument("a rejection reason is required")
	}

	var (
		result  *model.Job
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		job, state, err := s.load(ctx, jobID)
		if err != nil {
			return err
		}

		next, err := moderation.RejectAutomatically(state, reason)
		if err != nil {
			return NewErrInvalidTransition(err)
		}

		updated, err := s.transition(ctx, job, next)
		if err != nil {
			return err
		}

		effects.add(events.JobTransitionedKind, jobTransitionedEvent(job, updated, "", op, reason))
		effects.translate(moderation.TargetJob, jobID, "rejection_reason", reason, ownerLocale(ctx, s.store, job.CompanyID))
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

// load reads the job and decodes its moderation state inside the caller's transaction.
func (s *JobModerationService) load(ctx context.Context, jobID uuid.UUID) (*model.Job, moderation.State, error) {
	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrJobNotFound(jobID)
		}
		return nil, nil, err
	}

	state, err := job.State()
	if err != nil {
		return nil, nil, fmt.Errorf("job %s: %w", jobID, err)
	}
	return job, state, nil
}

// transition swaps the persisted columns of job for next, conditioned on the columns read by load.
func (s *JobModerationService) transition(ctx context.Context, job *model.Job, next moderation.State) (*model.Job, error) {
	updated, err := s.store.Job().UpdateState(ctx, job.ID, job.Columns(), moderation.Encode(next))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrStaleState):
			metrics.IncreaseConflictsTotalMetric("job")
			return nil, NewErrConcurrentTransition("job", job.ID)
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, NewErrJobNotFound(job.ID)
		}
		return nil, err
	}
	return updated, nil
}

// restoreFromSuspension lifts a suspension. Only appeal acceptance calls it.
func (s *JobModerationService) restoreFromSuspension(ctx context.Context, job *model.Job, state moderation.State) (*model.Job, error) {
	next, err := moderation.Restore(state)
	if err != nil {
		return nil, NewErrInvalidTransition(err)
	}
	if err := s.requireLiveCompany(ctx, job); err != nil {
		return nil, err
	}
	return s.transition(ctx, job, next)
}

// requireLiveCompany refuses to make a job visible while its company is disabled. The company
// row stays share-locked until the caller's transaction ends, so a Disable running concurrently
// either waits and then suspends the job, or commits first and is seen here.
func (s *JobModerationService) requireLiveCompany(ctx context.Context, job *model.Job) error {
	company, err := s.store.Company().GetForShare(ctx, job.CompanyID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrCompanyNotFound(job.CompanyID)
		}
		return err
	}
	if company.VerificationStatus == moderation.VerificationDisabled {
		return NewErrInvalidTransitionf("company %s of job %s is disabled", company.ID, job.ID)
	}
	return nil
}

func jobTransitionedEvent(before, after *model.Job, action moderation.ActionType, op moderation.Operator, reason string) events.JobTransitionedEvent {
	return events.JobTransitionedEvent{
		JobID:       after.ID,
		CompanyID:   after.CompanyID,
		Action:      action,
		From:        before.ApprovalStatus,
		To:          after.ApprovalStatus,
		IsSuspended: after.IsSuspended,
		IsActive:    after.IsActive,
		Admin:       op.Identity,
		Reason:      reason,
	}
}
