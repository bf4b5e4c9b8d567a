package logger

import "context"

// noopLogger discards all log entries. Used in tests and as a safe default.
type noopLogger struct{}

// NewNoop returns a Logger that discards everything written to it.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(context.Context, string, ...Fields)        {}
func (noopLogger) Info(context.Context, string, ...Fields)         {}
func (noopLogger) Warn(context.Context, string, ...Fields)         {}
func (noopLogger) Error(context.Context, string, error, ...Fields) {}
func (noopLogger) Fatal(context.Context, string, error, ...Fields) {}

func (n noopLogger) WithFields(Fields) Logger    { return n }
func (n noopLogger) WithComponent(string) Logger { return n }
