package analytics

// Logger defines the interface for logging
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Error(msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string) {}
func (NopLogger) Info(string)  {}
func (NopLogger) Error(string) {}
