package translation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/events"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"go.uber.org/zap"
)

// Consumer is an events.Writer handling translation requests after commit.
// Failures are logged and dropped; moderation state never depends on them.
type Consumer struct {
	translator   Translator
	store        store.Store
	sourceLocale string
}

var _ events.Writer = (*Consumer)(nil)

func NewConsumer(t Translator, s store.Store, sourceLocale string) *Consumer {
	return &Consumer{translator: t, store: s, sourceLocale: sourceLocale}
}

func (c *Consumer) Write(ctx context.Context, _ string, e cloudevents.Event) error {
	if e.Type() != events.TranslationRequestedKind {
		return nil
	}

	logger := zap.S().Named("translation_consumer")

	var req events.TranslationRequest
	if err := json.Unmarshal(e.Data(), &req); err != nil {
		logger.Warnw("dropping malformed translation request", "error", err, "event_id", e.ID())
		return nil
	}
	if req.Locale == "" || req.Locale == c.sourceLocale {
		return nil
	}

	text, err := c.translator.Translate(ctx, req.Text, c.sourceLocale, req.Locale)
	if err != nil {
		logger.Warnw("translation failed, keeping original text", "error", err,
			"target_type", req.TargetType, "target_id", req.TargetID, "field", req.Field, "locale", req.Locale)
		return nil
	}

	if err := c.store.Translation().Upsert(ctx, model.Translation{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Field:      req.Field,
		Locale:     req.Locale,
		Text:       text,
		UpdatedAt:  time.Now(),
	}); err != nil {
		logger.Errorw("failed to store translation", "error", err, "target_id", req.TargetID, "field", req.Field)
		return nil
	}

	logger.Debugw("translation stored", "target_type", req.TargetType, "target_id", req.TargetID, "field", req.Field, "locale", req.Locale)
	return nil
}

func (c *Consumer) Close(_ context.Context) error {
	return nil
}
