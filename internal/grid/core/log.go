package core

// Logger is the logging surface the grid packages accept. *app.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }
