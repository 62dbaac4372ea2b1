package cache

import "log"

// StdTrace adapts a standard library logger to the Trace contract. A nil
// logger falls back to the default logger.
type StdTrace struct {
	logger *log.Logger
}

// NewStdTrace creates a trace writing to the given logger.
func NewStdTrace(logger *log.Logger) *StdTrace {
	if logger == nil {
		logger = log.Default()
	}
	return &StdTrace{logger: logger}
}

func (t *StdTrace) Info(msg string) {
	t.logger.Printf("cache: %s", msg)
}
