package calculation

import "log"

// Logger is a minimal logging interface for the calculation engines.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// StdLogger routes engine logging to the standard library logger. Debug
// output is gated behind Verbose.
type StdLogger struct {
	Verbose bool
}

func (l StdLogger) Debugf(format string, args ...any) {
	if l.Verbose {
		log.Printf("DEBUG "+format, args...)
	}
}

func (l StdLogger) Infof(format string, args ...any) {
	log.Printf("INFO "+format, args...)
}

func (l StdLogger) Warnf(format string, args ...any) {
	log.Printf("WARN "+format, args...)
}

func (l StdLogger) Errorf(format string, args ...any) {
	log.Printf("ERROR "+format, args...)
}
