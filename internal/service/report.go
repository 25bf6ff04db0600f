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
	"github.com/google/uuid"
)

type ReportService struct {
	store     store.Store
	publisher EventPublisher
	logger    *log.Builder
}

func NewReportService(s store.Store, publisher EventPublisher) *ReportService {
	return &ReportService{
		store:     s,
		publisher: publisherOrNoop(publisher),
		logger:    log.NewDebugLogger("report_service"),
	}
}

type ReportForm struct {
	TargetType  moderation.TargetType
	TargetID    uuid.UUID
	ReportType  moderation.ReportType
	Description string
	Evidence    []string
}

type ReportFilter struct {
	Status     []moderation.ReportStatus
	TargetType moderation.TargetType
	TargetID   *uuid.UUID
	ReporterID *uuid.UUID
	Limit      int
	Offset     int
}

// Submit files a PENDING report against an existing job or employer.
func (s *ReportService) Submit(ctx context.Context, op moderation.Operator, form ReportForm) (*model.Report, error) {
	tracer := s.logger.WithContext(ctx).Operation("submit_report").
		WithString("target_type", string(form.TargetType)).
		WithUUID("target_id", form.TargetID).
		WithString("report_type", string(form.ReportType)).
		Build()

	if op.Identity == "" || op.UserID == uuid.Nil {
		err := NewErrForbidden(op, "submit reports")
		tracer.Error(err).Log()
		return nil, err
	}

	switch form.ReportType {
	case moderation.ReportTypeSpam, moderation.ReportTypeFraud, moderation.ReportTypeInappropriate,
		moderation.ReportTypeDiscrimination, moderation.ReportTypeOther:
	default:
		return nil, NewErrInvalidArgument("unknown report type %q", form.ReportType)
	}

	switch form.TargetType {
	case moderation.TargetJob:
		if _, err := s.store.Job().Get(ctx, form.TargetID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrJobNotFound(form.TargetID)
			}
			return nil, err
		}
	case moderation.TargetEmployer:
		if _, err := s.store.Company().Get(ctx, form.TargetID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrCompanyNotFound(form.TargetID)
			}
			return nil, err
		}
	default:
		return nil, NewErrInvalidArgument("reports can only target %s or %s", moderation.TargetJob, moderation.TargetEmployer)
	}

	report, err := s.store.Report().Create(ctx, model.Report{
		ID:          uuid.New(),
		ReporterID:  op.UserID,
		TargetType:  form.TargetType,
		TargetID:    form.TargetID,
		ReportType:  form.ReportType,
		Description: strings.TrimSpace(form.Description),
		Evidence:    form.Evidence,
		Status:      moderation.ReportPending,
	})
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	tracer.Success().WithUUID("report_id", report.ID).Log()
	return report, nil
}

// Dismiss closes a PENDING report without touching its target.
func (s *ReportService) Dismiss(ctx context.Context, reportID uuid.UUID, op moderation.Operator, notes string) (*model.Report, error) {
	tracer := s.logger.WithContext(ctx).Operation("dismiss_report").
		WithUUID("report_id", reportID).
		WithString("admin", op.Identity).
		Build()

	if err := requireAdmin(op, "dismiss reports"); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	var (
		result  *model.Report
		effects sideEffects
	)
	err := withTransaction(ctx, s.store, func(ctx context.Context) error {
		report, err := s.store.Report().Dismiss(ctx, reportID, op.Identity, notes)
		if err != nil {
			return reportCloseError(reportID, err)
		}

		action := model.NewAdminAction(op.Identity, moderation.ActionDismissReport, moderation.TargetReport, reportID).WithNotes(notes)
		if report.TargetType == moderation.TargetJob {
			action = action.WithJob(report.TargetID)
		}
		if err := recordAction(ctx, s.store, action); err != nil {
			return err
		}

		effects.action(moderation.ActionDismissReport)
		effects.add(events.ReportDismissedKind, events.ReportDismissedEvent{
			ReportID:   report.ID,
			ReporterID: report.ReporterID,
			Admin:      op.Identity,
			Notes:      notes,
		})
		result = report
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

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	report, err := s.store.Report().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrReportNotFound(id)
		}
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, filter ReportFilter) (model.ReportList, error) {
	storeFilter := store.NewReportQueryFilter()
	if len(filter.Status) > 0 {
		storeFilter = storeFilter.ByStatus(filter.Status...)
	}
	if filter.TargetType != "" {
		if filter.TargetID != nil {
			storeFilter = storeFilter.ByTarget(filter.TargetType, *filter.TargetID)
		} else {
			storeFilter = storeFilter.ByTargetType(filter.TargetType)
		}
	}
	if filter.ReporterID != nil {
		storeFilter = storeFilter.ByReporterID(*filter.ReporterID)
	}

	return s.store.Report().List(ctx, storeFilter, pageOptions(filter.Limit, filter.Offset))
}

// checkReport makes sure the report exists, is still PENDING and is about the given target.
func checkReport(ctx context.Context, s store.Store, reportID uuid.UUID, targetType moderation.TargetType, targetID uuid.UUID) (*model.Report, error) {
	report, err := s.Report().Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrReportNotFound(reportID)
		}
		return nil, err
	}
	if report.TargetType != targetType || report.TargetID != targetID {
		return nil, NewErrReportTargetMismatch(reportID, targetType, targetID)
	}
	if report.Status.IsTerminal() {
		return nil, NewErrAlreadyReviewed("report", reportID)
	}
	return report, nil
}

// resolveReport marks the report RESOLVED by the moderation action that handled it.
func resolveReport(ctx context.Context, s store.Store, reportID uuid.UUID, op moderation.Operator, action moderation.ActionType, notes string) (*model.Report, error) {
	report, err := s.Report().Resolve(ctx, reportID, op.Identity, action, notes)
	if err != nil {
		return nil, reportCloseError(reportID, err)
	}
	return report, nil
}

// resolveReportIfPending resolves the report when there is one and nobody closed it yet.
func resolveReportIfPending(ctx context.Context, s store.Store, reportID *uuid.UUID, op moderation.Operator, action moderation.ActionType, notes string) error {
	if reportID == nil {
		return nil
	}
	_, err := s.Report().Resolve(ctx, *reportID, op.Identity, action, notes)
	if err != nil && !errors.Is(err, store.ErrStaleState) && !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}
	return nil
}

func reportCloseError(reportID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, store.ErrStaleState):
		return NewErrAlreadyReviewed("report", reportID)
	case errors.Is(err, store.ErrRecordNotFound):
		return NewErrReportNotFound(reportID)
	}
	return err
}

func pageOptions(limit, offset int) *store.QueryOptions {
	opts := store.NewQueryOptions()
	if limit > 0 {
		opts = opts.WithLimit(limit)
	}
	if offset > 0 {
		opts = opts.WithOffset(offset)
	}
	return opts
}
