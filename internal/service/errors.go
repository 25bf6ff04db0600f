package service

import (
	"fmt"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

func NewErrAppealNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "appeal")
}

func NewErrReportNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "report")
}

func NewErrCompanyNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "company")
}

func NewErrUserNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "user")
}

// ErrInvalidTransition means the requested transition is not legal from the current state.
type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(err error) *ErrInvalidTransition {
	return &ErrInvalidTransition{err}
}

func NewErrInvalidTransitionf(format string, args ...any) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("%w: %s", moderation.ErrIllegalTransition, fmt.Sprintf(format, args...))}
}

// ErrConcurrentTransition means another writer changed the row between our read and our write.
type ErrConcurrentTransition struct {
	error
}

func NewErrConcurrentTransition(resourceType string, id uuid.UUID) *ErrConcurrentTransition {
	return &ErrConcurrentTransition{fmt.Errorf("%s %s was changed by another operator, reload it and try again", resourceType, id)}
}

type ErrAlreadyReviewed struct {
	error
}

func NewErrAlreadyReviewed(resourceType string, id uuid.UUID) *ErrAlreadyReviewed {
	return &ErrAlreadyReviewed{fmt.Errorf("%s %s was already reviewed", resourceType, id)}
}

type ErrAppealAlreadyOpen struct {
	error
}

func NewErrAppealAlreadyOpen(jobID uuid.UUID) *ErrAppealAlreadyOpen {
	return &ErrAppealAlreadyOpen{fmt.Errorf("job %s already has an open appeal", jobID)}
}

// ErrCascadePartialFailure is returned when a company cascade failed after its first write.
// Nothing of the cascade is committed.
type ErrCascadePartialFailure struct {
	error
}

func NewErrCascadePartialFailure(companyID uuid.UUID, step string, err error) *ErrCascadePartialFailure {
	return &ErrCascadePartialFailure{fmt.Errorf("cascade on company %s failed at %s and was rolled back: %w", companyID, step, err)}
}

type ErrForbidden struct {
	error
}

func NewErrForbidden(operator moderation.Operator, action string) *ErrForbidden {
	identity := operator.Identity
	if identity == "" {
		identity = "anonymous"
	}
	return &ErrForbidden{fmt.Errorf("%s (%s) is not allowed to %s", identity, operator.Role, action)}
}

type ErrReportTargetMismatch struct {
	error
}

func NewErrReportTargetMismatch(reportID uuid.UUID, targetType moderation.TargetType, targetID uuid.UUID) *ErrReportTargetMismatch {
	return &ErrReportTargetMismatch{fmt.Errorf("report %s does not target %s %s", reportID, targetType, targetID)}
}

type ErrInvalidArgument struct {
	error
}

func NewErrInvalidArgument(format string, args ...any) *ErrInvalidArgument {
	return &ErrInvalidArgument{fmt.Errorf(format, args...)}
}
