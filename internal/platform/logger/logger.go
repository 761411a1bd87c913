package logger

import "go.uber.org/zap"

// New returns the process logger. Dev mode switches to the human-readable
// console encoder.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
