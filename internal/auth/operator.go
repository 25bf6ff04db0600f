package auth

import (
	"context"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"go.uber.org/zap"
)

type operatorKeyType struct{}

var operatorKey operatorKeyType

func NewOperatorContext(ctx context.Context, op moderation.Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

func OperatorFromContext(ctx context.Context) (moderation.Operator, bool) {
	op, ok := ctx.Value(operatorKey).(moderation.Operator)
	return op, ok
}

func MustHaveOperator(ctx context.Context) moderation.Operator {
	op, found := OperatorFromContext(ctx)
	if !found {
		zap.S().Named("auth").Panic("failed to find operator in context")
	}
	return op
}
