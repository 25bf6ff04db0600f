package service

import (
	"context"

	"github.com/blue-collar-job-portal/moderation/internal/events"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher receives post-commit side effects. *events.EventProducer implements it.
type EventPublisher interface {
	Publish(ctx context.Context, kind string, payload any) error
}

var _ EventPublisher = (*events.EventProducer)(nil)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// withTransaction runs fn in a transaction it owns. fn's error rolls everything back.
func withTransaction(ctx context.Context, s store.Store, fn func(ctx context.Context) error) error {
	txCtx, err := s.NewTransactionContext(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		// fn's error is typed for the handlers and stays the one returned.
		if _, rerr := store.Rollback(txCtx); rerr != nil {
			zap.S().Named("service").Errorw("failed to roll back transaction", "error", rerr, "cause", err)
		}
		return err
	}

	_, err = store.Commit(txCtx)
	return err
}

type pendingEvent struct {
	kind    string
	payload any
}

// sideEffects collects what a mutation wants to emit. It is flushed only once the
// transaction committed and dropped otherwise.
type sideEffects struct {
	events  []pendingEvent
	actions []moderation.ActionType
}

func (e *sideEffects) add(kind string, payload any) {
	e.events = append(e.events, pendingEvent{kind: kind, payload: payload})
}

func (e *sideEffects) action(a moderation.ActionType) {
	e.actions = append(e.actions, a)
}

func (e *sideEffects) translate(targetType moderation.TargetType, targetID uuid.UUID, field, text, locale string) {
	if text == "" || locale == "" {
		return
	}
	e.add(events.TranslationRequestedKind, events.TranslationRequest{
		TargetType: targetType,
		TargetID:   targetID,
		Field:      field,
		Text:       text,
		Locale:     locale,
	})
}

func (e *sideEffects) flush(ctx context.Context, p EventPublisher) {
	for _, a := range e.actions {
		metrics.IncreaseActionsTotalMetric(string(a))
	}
	for _, ev := range e.events {
		if err := p.Publish(ctx, ev.kind, ev.payload); err != nil {
			zap.S().Named("side_effects").Warnw("failed to enqueue side effect", "kind", ev.kind, "error", err)
		}
	}
}

func requireAdmin(op moderation.Operator, action string) error {
	if err := op.Require(moderation.RoleAdmin); err != nil {
		return NewErrForbidden(op, action)
	}
	return nil
}

// ownerLocale is the locale of the user owning the company, or "" when it cannot be read.
func ownerLocale(ctx context.Context, s store.Store, companyID uuid.UUID) string {
	company, err := s.Company().Get(ctx, companyID)
	if err != nil {
		return ""
	}
	owner, err := s.User().Get(ctx, company.OwnerUserID)
	if err != nil {
		return ""
	}
	return owner.Locale
}
