package log

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blue-collar-job-portal/moderation/pkg/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger traces one operation: the fields given to the builder are attached to
// every step, success and error entry of the operation.
type StructuredLogger struct {
	logger    *zap.Logger
	level     zapcore.Level
	operation string
	start     time.Time
	fields    []zap.Field
}

type Builder struct {
	name      string
	level     zapcore.Level
	ctx       context.Context
	operation string
	fields    []zap.Field
}

// Entry is a single log line being assembled.
type Entry struct {
	logger *zap.Logger
	level  zapcore.Level
	msg    string
	fields []zap.Field
}

func NewDebugLogger(name string) *Builder {
	return &Builder{name: name, level: zapcore.DebugLevel}
}

func NewInfoLogger(name string) *Builder {
	return &Builder{name: name, level: zapcore.InfoLevel}
}

// WithContext returns a copy of the builder bound to ctx, so a builder kept on a service can be
// shared between requests.
func (b *Builder) WithContext(ctx context.Context) *Builder {
	nb := &Builder{name: b.name, level: b.level, ctx: ctx, operation: b.operation}
	nb.fields = append(nb.fields, b.fields...)
	return nb
}

func (b *Builder) Operation(op string) *Builder {
	b.operation = op
	return b
}

func (b *Builder) WithString(key, value string) *Builder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *Builder) WithUUID(key string, value uuid.UUID) *Builder {
	b.fields = append(b.fields, zap.String(key, value.String()))
	return b
}

func (b *Builder) WithUUIDPtr(key string, value *uuid.UUID) *Builder {
	if value != nil {
		return b.WithUUID(key, *value)
	}
	return b
}

func (b *Builder) WithInt(key string, value int) *Builder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *Builder) WithBool(key string, value bool) *Builder {
	b.fields = append(b.fields, zap.Bool(key, value))
	return b
}

func (b *Builder) WithParam(key string, value any) *Builder {
	b.fields = append(b.fields, zap.Any(key, value))
	return b
}

// WithRequestBody logs the body as JSON. Bodies that do not marshal are skipped.
func (b *Builder) WithRequestBody(key string, body any) *Builder {
	if body == nil {
		return b
	}
	if data, err := json.Marshal(body); err == nil {
		b.fields = append(b.fields, zap.String(key, string(data)))
	}
	return b
}

func (b *Builder) Build() *StructuredLogger {
	fields := make([]zap.Field, 0, len(b.fields)+2)
	if b.operation != "" {
		fields = append(fields, zap.String("operation", b.operation))
	}
	if b.ctx != nil {
		if id := requestid.FromContext(b.ctx); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
	}
	fields = append(fields, b.fields...)

	l := &StructuredLogger{
		logger:    zap.L().Named(b.name),
		level:     b.level,
		operation: b.operation,
		start:     time.Now(),
		fields:    fields,
	}
	l.entry(b.level, "operation started").Log()
	return l
}

func (l *StructuredLogger) Step(name string) *Entry {
	return l.entry(l.level, "step").WithString("step", name)
}

func (l *StructuredLogger) Success() *Entry {
	return l.entry(l.level, "operation succeeded").
		WithParam("duration", time.Since(l.start))
}

func (l *StructuredLogger) Error(err error) *Entry {
	return l.entry(zapcore.ErrorLevel, "operation failed").
		WithString("error", errString(err)).
		WithParam("duration", time.Since(l.start))
}

func (l *StructuredLogger) entry(level zapcore.Level, msg string) *Entry {
	fields := make([]zap.Field, len(l.fields), len(l.fields)+4)
	copy(fields, l.fields)
	return &Entry{logger: l.logger, level: level, msg: msg, fields: fields}
}

func (e *Entry) WithString(key, value string) *Entry {
	e.fields = append(e.fields, zap.String(key, value))
	return e
}

func (e *Entry) WithUUID(key string, value uuid.UUID) *Entry {
	e.fields = append(e.fields, zap.String(key, value.String()))
	return e
}

func (e *Entry) WithInt(key string, value int) *Entry {
	e.fields = append(e.fields, zap.Int(key, value))
	return e
}

func (e *Entry) WithBool(key string, value bool) *Entry {
	e.fields = append(e.fields, zap.Bool(key, value))
	return e
}

func (e *Entry) WithParam(key string, value any) *Entry {
	e.fields = append(e.fields, zap.Any(key, value))
	return e
}

func (e *Entry) Log() {
	if ce := e.logger.Check(e.level, e.msg); ce != nil {
		ce.Write(e.fields...)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
