package logger

// NopLogger discards every entry. Useful in tests.
type NopLogger struct{}

// NewNop creates a new no-op logger instance.
func NewNop() Logger {
	return &NopLogger{}
}

// Debug does nothing.
func (l *NopLogger) Debug(_ string, _ ...Field) {}

// Info does nothing.
func (l *NopLogger) Info(_ string, _ ...Field) {}

// Warn does nothing.
func (l *NopLogger) Warn(_ string, _ ...Field) {}

// Error does nothing.
func (l *NopLogger) Error(_ string, _ ...Field) {}

// With returns the same no-op logger.
func (l *NopLogger) With(_ ...Field) Logger {
	return l
}

// Sync does nothing and returns nil.
func (l *NopLogger) Sync() error {
	return nil
}
