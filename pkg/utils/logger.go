package utils

import "go.uber.org/zap"

// NewLogger returns the process logger. Debug mode uses zap's development
// config (console encoder, debug level); otherwise structured JSON at info.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
