package tracker

import "go.uber.org/zap"

// NewLogger builds the application logger. env "development" enables the
// human-readable console encoder; anything else logs structured JSON.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
