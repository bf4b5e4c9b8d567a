// Package monitoring provides the observability backends: zap structured
// logging, Prometheus metrics, and OpenTelemetry tracing.
package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cscx/riskwatch/pkg/logger"
)

// zapLogger implements logger.Logger on zap. Entries are enriched with the
// trace and span identifiers found on the context.
type zapLogger struct {
	base *zap.Logger
}

// NewZapLogger builds the production logger at the configured level.
func NewZapLogger(level string) (logger.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &zapLogger{base: base}, nil
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...logger.Fields) {
	l.base.Debug(msg, l.zapFields(ctx, fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...logger.Fields) {
	l.base.Info(msg, l.zapFields(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...logger.Fields) {
	l.base.Warn(msg, l.zapFields(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Fields) {
	l.base.Error(msg, append(l.zapFields(ctx, fields), zap.Error(err))...)
}

func (l *zapLogger) Fatal(ctx context.Context, msg string, err error, fields ...logger.Fields) {
	l.base.Fatal(msg, append(l.zapFields(ctx, fields), zap.Error(err))...)
}

func (l *zapLogger) WithFields(fields logger.Fields) logger.Logger {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return &zapLogger{base: l.base.With(zf...)}
}

func (l *zapLogger) WithComponent(component string) logger.Logger {
	return &zapLogger{base: l.base.With(zap.String("component", component))}
}

func (l *zapLogger) zapFields(ctx context.Context, fieldSets []logger.Fields) []zap.Field {
	zf := make([]zap.Field, 0, 8)
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		zf = append(zf,
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	for _, fields := range fieldSets {
		for k, v := range fields {
			zf = append(zf, zap.Any(k, v))
		}
	}
	return zf
}
