package moderation

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrCorruptState      = errors.New("corrupt job state")
)

// State is the moderation lifecycle of a job. The set of implementations is closed, so a
// suspended job that is not approved, or a deleted job that can still move, cannot be built.
type State interface {
	Status() ApprovalStatus
	sealed()
}

type Pending struct{}

type Approved struct {
	Suspended        bool
	SuspensionReason string
}

type RejectedAutomatic struct {
	Reason string
}

type RejectedFinal struct {
	Reason string
}

// UnderAppeal is a rejected job whose employer filed a JOB_REJECTION appeal.
// Reason is the rejection being appealed.
type UnderAppeal struct {
	Reason string
}

// Deleted is terminal. Last is the state the job was in when it was deleted.
type Deleted struct {
	Last State
}

func (Pending) Status() ApprovalStatus           { return ApprovalPending }
func (Approved) Status() ApprovalStatus          { return ApprovalApproved }
func (RejectedAutomatic) Status() ApprovalStatus { return ApprovalRejectedAI }
func (RejectedFinal) Status() ApprovalStatus     { return ApprovalRejectedFinal }
func (UnderAppeal) Status() ApprovalStatus       { return ApprovalAppealed }
func (d Deleted) Status() ApprovalStatus         { return d.Last.Status() }

func (Pending) sealed()           {}
func (Approved) sealed()          {}
func (RejectedAutomatic) sealed() {}
func (RejectedFinal) sealed()     {}
func (UnderAppeal) sealed()       {}
func (Deleted) sealed()           {}

// Columns is the persisted shape of a State.
type Columns struct {
	ApprovalStatus   ApprovalStatus
	IsSuspended      bool
	IsActive         bool
	SuspensionReason *string
	RejectionReason  *string
}

func Encode(s State) Columns {
	switch st := s.(type) {
	case Pending:
		return Columns{ApprovalStatus: ApprovalPending, IsActive: true}
	case Approved:
		c := Columns{ApprovalStatus: ApprovalApproved, IsActive: true}
		if st.Suspended {
			c.IsSuspended = true
			c.SuspensionReason = strPtr(st.SuspensionReason)
		}
		return c
	case RejectedAutomatic:
		return Columns{ApprovalStatus: ApprovalRejectedAI, IsActive: true, RejectionReason: strPtr(st.Reason)}
	case RejectedFinal:
		return Columns{ApprovalStatus: ApprovalRejectedFinal, IsActive: true, RejectionReason: strPtr(st.Reason)}
	case UnderAppeal:
		return Columns{ApprovalStatus: ApprovalAppealed, IsActive: true, RejectionReason: strPtr(st.Reason)}
	case Deleted:
		c := Encode(st.Last)
		c.IsActive = false
		return c
	}
	panic(fmt.Sprintf("unknown job state %T", s))
}

func Decode(c Columns) (State, error) {
	if !c.IsActive {
		c.IsActive = true
		last, err := Decode(c)
		if err != nil {
			return nil, err
		}
		return Deleted{Last: last}, nil
	}

	if c.IsSuspended && c.ApprovalStatus != ApprovalApproved {
		return nil, fmt.Errorf("%w: suspended while %s", ErrCorruptState, c.ApprovalStatus)
	}
	if c.SuspensionReason != nil && !c.IsSuspended {
		return nil, fmt.Errorf("%w: suspension reason on a job that is not suspended", ErrCorruptState)
	}

	switch c.ApprovalStatus {
	case ApprovalPending:
		return Pending{}, nil
	case ApprovalApproved:
		if c.RejectionReason != nil {
			return nil, fmt.Errorf("%w: rejection reason on an approved job", ErrCorruptState)
		}
		return Approved{Suspended: c.IsSuspended, SuspensionReason: deref(c.SuspensionReason)}, nil
	case ApprovalRejectedAI:
		return RejectedAutomatic{Reason: deref(c.RejectionReason)}, nil
	case ApprovalRejectedFinal:
		return RejectedFinal{Reason: deref(c.RejectionReason)}, nil
	case ApprovalAppealed:
		return UnderAppeal{Reason: deref(c.RejectionReason)}, nil
	}
	return nil, fmt.Errorf("%w: unknown approval status %q", ErrCorruptState, c.ApprovalStatus)
}

func Approve(s State) (State, error) {
	switch s.(type) {
	case Pending, UnderAppeal:
		return Approved{}, nil
	}
	return nil, illegal(s, "approve")
}

func Reject(s State, reason string) (State, error) {
	switch s.(type) {
	case Pending, UnderAppeal:
		return RejectedFinal{Reason: reason}, nil
	}
	return nil, illegal(s, "reject")
}

// RejectAutomatically is the only way into REJECTED_AI.
func RejectAutomatically(s State, reason string) (State, error) {
	if _, ok := s.(Pending); ok {
		return RejectedAutomatic{Reason: reason}, nil
	}
	return nil, illegal(s, "reject automatically")
}

func Suspend(s State, reason string) (State, error) {
	if st, ok := s.(Approved); ok && !st.Suspended {
		return Approved{Suspended: true, SuspensionReason: reason}, nil
	}
	return nil, illegal(s, "suspend")
}

func Restore(s State) (State, error) {
	if st, ok := s.(Approved); ok && st.Suspended {
		return Approved{}, nil
	}
	return nil, illegal(s, "restore")
}

func Delete(s State) (State, error) {
	if _, ok := s.(Deleted); ok {
		return nil, illegal(s, "delete")
	}
	return Deleted{Last: s}, nil
}

// Appeal moves a rejected job under appeal.
func Appeal(s State) (State, error) {
	switch st := s.(type) {
	case RejectedAutomatic:
		return UnderAppeal{Reason: st.Reason}, nil
	case RejectedFinal:
		return UnderAppeal{Reason: st.Reason}, nil
	}
	return nil, illegal(s, "appeal")
}

func IsSuspended(s State) bool {
	st, ok := s.(Approved)
	return ok && st.Suspended
}

func IsDeleted(s State) bool {
	_, ok := s.(Deleted)
	return ok
}

func illegal(s State, op string) error {
	if IsDeleted(s) {
		return fmt.Errorf("%w: cannot %s a deleted job", ErrIllegalTransition, op)
	}
	if IsSuspended(s) {
		return fmt.Errorf("%w: cannot %s a suspended job", ErrIllegalTransition, op)
	}
	return fmt.Errorf("%w: cannot %s a job in %s", ErrIllegalTransition, op, s.Status())
}

func strPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
