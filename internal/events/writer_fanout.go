package events

import (
	"context"
	"errors"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// FanOutWriter hands every event to each of its writers. A failing writer does not stop the others.
type FanOutWriter struct {
	writers []Writer
}

func NewFanOutWriter(writers ...Writer) *FanOutWriter {
	return &FanOutWriter{writers: writers}
}

func (f *FanOutWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	var errs []error
	for _, w := range f.writers {
		if err := w.Write(ctx, topic, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FanOutWriter) Close(ctx context.Context) error {
	var errs []error
	for _, w := range f.writers {
		if err := w.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
