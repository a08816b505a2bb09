package calculation

// Logger is the subset of *zap.SugaredLogger the engines write to.
type Logger interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// orNop substitutes NopLogger for a nil logger.
func orNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
