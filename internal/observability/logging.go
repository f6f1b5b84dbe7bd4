// Package observability provides logger construction, Prometheus metrics and
// the HTTP instrumentation middleware.
package observability

import "go.uber.org/zap"

// NewLogger builds the process logger. Verbose mode switches to the
// human-readable development encoder.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
