package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blue-collar-job-portal/moderation/internal/events"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/blue-collar-job-portal/moderation/pkg/log"
	"github.com/blue-collar-job-portal/moderation/pkg/metrics"
	"github.com/google/uuid"
)

type AppealService struct {
	store     store.Store
	jobs      *JobModerationService
	publisher EventPublisher
	logger    *log.Builder
}

func NewAppealService(s store.Store, jobs *JobModerationService, publisher EventPublisher) *AppealService {
	return &AppealService{
		store:     s,
		jobs:      jobs,
		publisher: publisherOrNoop(publisher),
		logger:    log.NewDebugLogger("appeal_service"),
	}
}

type AppealForm struct {
	Type        moderation.AppealType
	Explanation string
	Evidence    []string
}

type AppealFilter struct {
	JobID      *uuid.UUID
	EmployerID *uuid.UUID
	Status     []moderation.AppealStatus
	Type       moderation.AppealType
	Limit      int
	Offset     int
}

// FileAppeal opens an appeal for a job owned by the operator's company.
func (s *AppealService) FileAppeal(ctx context.Context, jobID uuid.UUID, op moderation.Operator, form AppealForm) (*model.Appeal, error) {
	tracer := s.logger.WithContext(ctx).Operation("file_appeal").
		WithUUID("job_id", jobID).
		WithString("appeal_type", string(form.Type)).
		WithString("employer", op.Identity).
		Build()

	if err := op.Require(moderation.RoleEmployer); err != nil {
		err = NewErrForbidden(op, "file appeals")
		tracer.Error(err).Log()
		return nil, err
	}
	if form.Type != moderation.AppealJobRejection && form.Type != moderation.AppealReportSuspension {
		return nil, NewErrInvalidArgument("unknown appeal type %q", form.Type)
	}
	explanation := strings.TrimSpace(form.Explanation)
	if explanation == "" {
		return nil, NewErrInvalidArgument("an explanation is required")
	}

	var (
		result  *model.Appeal
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		job, state, err := s.jobs.load(ctx, jobID)
		if err != nil {
			return err
		}
		if err := s.checkOwner(ctx, job, op); err != nil {
			return err
		}
		if err := s.checkOwnerActive(ctx, op); err != nil {
			return err
		}
		if err := s.jobs.requireLiveCompany(ctx, job); err != nil {
			return err
		}

		if _, err := s.store.Appeal().GetOpen(ctx, jobID); err == nil {
			return NewErrAppealAlreadyOpen(jobID)
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		appeal := model.Appeal{
			ID:          uuid.New(),
			JobID:       jobID,
			EmployerID:  op.UserID,
			AppealType:  form.Type,
			Explanation: explanation,
			Evidence:    form.Evidence,
			Status:      moderation.AppealPending,
		}

		switch form.Type {
		case moderation.AppealJobRejection:
			next, err := moderation.Appeal(state)
			if err != nil {
				return NewErrInvalidTransition(err)
			}
			updated, err := s.jobs.transition(ctx, job, next)
			if err != nil {
				var conflict *ErrConcurrentTransition
				if errors.As(err, &conflict) && s.appealOpened(ctx, jobID) {
					return NewErrAppealAlreadyOpen(jobID)
				}
				return err
			}
			effects.add(events.JobTransitionedKind, jobTransitionedEvent(job, updated, "", op, ""))
		case moderation.AppealReportSuspension:
			if !moderation.IsSuspended(state) {
				return NewErrInvalidTransitionf("job %s is not suspended", jobID)
			}
			reportID, err := s.suspendingReport(ctx, jobID)
			if err != nil {
				return err
			}
			appeal.ReportID = reportID
		}

		created, err := s.store.Appeal().Create(ctx, appeal)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return NewErrAppealAlreadyOpen(jobID)
			}
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	effects.flush(ctx, s.publisher)
	tracer.Success().WithUUID("appeal_id", result.ID).Log()
	return result, nil
}

// StartReview lets an admin claim a PENDING appeal.
func (s *AppealService) StartReview(ctx context.Context, appealID uuid.UUID, op moderation.Operator) (*model.Appeal, error) {
	tracer := s.logger.WithContext(ctx).Operation("start_appeal_review").
		WithUUID("appeal_id", appealID).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "review appeals"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	var (
		result  *model.Appeal
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		appeal, err := s.get(ctx, appealID)
		if err != nil {
			return err
		}
		if appeal.Status.IsTerminal() {
			return NewErrAlreadyReviewed("appeal", appealID)
		}
		if appeal.Status == moderation.AppealUnderReview {
			return NewErrInvalidTransitionf("appeal %s is already under review", appealID)
		}

		updated, err := s.store.Appeal().StartReview(ctx, appealID)
		if err != nil {
			if errors.Is(err, store.ErrStaleState) {
				metrics.IncreaseConflictsTotalMetric("appeal")
				return NewErrConcurrentTransition("appeal", appealID)
			}
			return err
		}

		action := model.NewAdminAction(op.Identity, moderation.ActionStartAppealReview, moderation.TargetAppeal, appealID).WithJob(appeal.JobID)
		if err := recordAction(ctx, s.store, action); err != nil {
			return err
		}

		effects.action(moderation.ActionStartAppealReview)
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

// Review closes an open appeal and applies the decision to its job.
func (s *AppealService) Review(ctx context.Context, appealID uuid.UUID, op moderation.Operator, decision moderation.Decision, notes string) (*model.Appeal, error) {
	tracer := s.logger.WithContext(ctx).Operation("review_appeal").
		WithUUID("appeal_id", appealID).
		WithString("decision", string(decision)).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "review appeals"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	var (
		status moderation.AppealStatus
		action moderation.ActionType
	)
	switch decision {
	case moderation.DecisionAccept:
		status, action = moderation.AppealAccepted, moderation.ActionApproveAppeal
	case moderation.DecisionReject:
		status, action = moderation.AppealRejected, moderation.ActionRejectAppeal
	default:
		return nil, NewErrInvalidArgument("unknown decision %q", decision)
	}

	var (
		result  *model.Appeal
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		appeal, err := s.get(ctx, appealID)
		if err != nil {
			return err
		}
		if appeal.Status.IsTerminal() {
			return NewErrAlreadyReviewed("appeal", appealID)
		}

		closed, err := s.store.Appeal().Close(ctx, appealID, status, op.Identity, notes)
		if err != nil {
			if errors.Is(err, store.ErrStaleState) {
				return NewErrAlreadyReviewed("appeal", appealID)
			}
			return err
		}
		tracer.Step("appeal_closed").WithString("status", string(status)).Log()

		job, state, err := s.jobs.load(ctx, appeal.JobID)
		if err != nil {
			return err
		}

		updated, err := s.applyDecision(ctx, appeal, job, state, decision, notes)
		if err != nil {
			return err
		}

		if appeal.AppealType == moderation.AppealJobRejection && decision == moderation.DecisionAccept {
			if err := resolveReportIfPending(ctx, s.store, appeal.ReportID, op, action, notes); err != nil {
				return err
			}
		}

		entry := model.NewAdminAction(op.Identity, action, moderation.TargetAppeal, appealID).
			WithJob(appeal.JobID).
			WithNotes(notes)
		if err := recordAction(ctx, s.store, entry); err != nil {
			return err
		}

		effects.action(action)
		effects.add(events.AppealReviewedKind, appealReviewedEvent(closed, op))
		if updated != nil {
			effects.add(events.JobTransitionedKind, jobTransitionedEvent(job, updated, action, op, notes))
		}
		effects.translate(moderation.TargetAppeal, appealID, "review_notes", notes, ownerLocale(ctx, s.store, job.CompanyID))
		result = closed
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

// applyDecision mutates the job of a reviewed appeal. It returns nil when the job is left alone.
func (s *AppealService) applyDecision(ctx context.Context, appeal *model.Appeal, job *model.Job, state moderation.State, decision moderation.Decision, notes string) (*model.Job, error) {
	switch appeal.AppealType {
	case moderation.AppealJobRejection:
		if _, ok := state.(moderation.UnderAppeal); !ok {
			return nil, NewErrInvalidTransitionf("job %s is no longer under appeal", job.ID)
		}
		var (
			next moderation.State
			err  error
		)
		if decision == moderation.DecisionAccept {
			if err := s.jobs.requireLiveCompany(ctx, job); err != nil {
				return nil, err
			}
			next, err = moderation.Approve(state)
		} else {
			reason := notes
			if reason == "" {
				reason = state.(moderation.UnderAppeal).Reason
			}
			next, err = moderation.Reject(state, reason)
		}
		if err != nil {
			return nil, NewErrInvalidTransition(err)
		}
		return s.jobs.transition(ctx, job, next)
	case moderation.AppealReportSuspension:
		if decision == moderation.DecisionReject {
			return nil, nil
		}
		return s.jobs.restoreFromSuspension(ctx, job, state)
	}
	return nil, NewErrInvalidArgument("unknown appeal type %q", appeal.AppealType)
}

func (s *AppealService) Get(ctx context.Context, id uuid.UUID) (*model.Appeal, error) {
	return s.get(ctx, id)
}

func (s *AppealService) List(ctx context.Context, filter AppealFilter) (model.AppealList, error) {
	storeFilter := store.NewAppealQueryFilter()
	if filter.JobID != nil {
		storeFilter = storeFilter.ByJobID(*filter.JobID)
	}
	if filter.EmployerID != nil {
		storeFilter = storeFilter.ByEmployerID(*filter.EmployerID)
	}
	if len(filter.Status) > 0 {
		storeFilter = storeFilter.ByStatus(filter.Status...)
	}
	if filter.Type != "" {
		storeFilter = storeFilter.ByType(filter.Type)
	}
	return s.store.Appeal().List(ctx, storeFilter, pageOptions(filter.Limit, filter.Offset))
}

// ListForJob returns the appeals of a job to an admin or to the employer owning it.
func (s *AppealService) ListForJob(ctx context.Context, jobID uuid.UUID, op moderation.Operator) (model.AppealList, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if op.Require(moderation.RoleAdmin) != nil {
		if err := op.Require(moderation.RoleEmployer); err != nil {
			return nil, NewErrForbidden(op, "list appeals")
		}
		if err := s.checkOwner(ctx, job, op); err != nil {
			return nil, err
		}
	}
	return s.store.Appeal().List(ctx, store.NewAppealQueryFilter().ByJobID(jobID), nil)
}

func (s *AppealService) get(ctx context.Context, id uuid.UUID) (*model.Appeal, error) {
	appeal, err := s.store.Appeal().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAppealNotFound(id)
		}
		return nil, err
	}
	return appeal, nil
}

func (s *AppealService) checkOwner(ctx context.Context, job *model.Job, op moderation.Operator) error {
	company, err := s.store.Company().Get(ctx, job.CompanyID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrCompanyNotFound(job.CompanyID)
		}
		return err
	}
	if company.OwnerUserID != op.UserID {
		return NewErrForbidden(op, "act on jobs of company "+company.ID.String())
	}
	return nil
}

// checkOwnerActive refuses employers whose account is suspended.
func (s *AppealService) checkOwnerActive(ctx context.Context, op moderation.Operator) error {
	user, err := s.store.User().Get(ctx, op.UserID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrUserNotFound(op.UserID)
		}
		return err
	}
	if user.Status == moderation.UserSuspended {
		return NewErrForbidden(op, "file appeals while the account is suspended")
	}
	return nil
}

// appealOpened tells whether a competing transaction opened an appeal for the job after this one
// looked. Under read committed the new statement sees what that transaction committed.
func (s *AppealService) appealOpened(ctx context.Context, jobID uuid.UUID) bool {
	_, err := s.store.Appeal().GetOpen(ctx, jobID)
	return err == nil
}

// suspendingReport is the latest report resolved by suspending the job, if any.
func (s *AppealService) suspendingReport(ctx context.Context, jobID uuid.UUID) (*uuid.UUID, error) {
	reports, err := s.store.Report().List(ctx,
		store.NewReportQueryFilter().
			ByTarget(moderation.TargetJob, jobID).
			ByStatus(moderation.ReportResolved).
			ByResolutionAction(moderation.ActionSuspendJob),
		store.NewQueryOptions().WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return &reports[0].ID, nil
}

// closeOpenAppeal closes the job's open appeal if there is one. It returns nil when there is none.
func closeOpenAppeal(ctx context.Context, s store.Store, jobID uuid.UUID, status moderation.AppealStatus, op moderation.Operator, notes string) (*model.Appeal, error) {
	open, err := s.Appeal().GetOpen(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	closed, err := s.Appeal().Close(ctx, open.ID, status, op.Identity, notes)
	if err != nil {
		if errors.Is(err, store.ErrStaleState) {
			metrics.IncreaseConflictsTotalMetric("appeal")
			return nil, NewErrConcurrentTransition("appeal", open.ID)
		}
		return nil, err
	}
	return closed, nil
}

func appealReviewedEvent(a *model.Appeal, op moderation.Operator) events.AppealReviewedEvent {
	e := events.AppealReviewedEvent{
		AppealID:   a.ID,
		JobID:      a.JobID,
		EmployerID: a.EmployerID,
		AppealType: a.AppealType,
		Status:     a.Status,
		Admin:      op.Identity,
	}
	if a.ReviewNotes != nil {
		e.Notes = *a.ReviewNotes
	}
	return e
}
