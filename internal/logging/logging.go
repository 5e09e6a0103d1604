// Package logging builds the zap loggers shared by services, the HTTP
// surface and the LLM observer.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New builds a logger for mode: "prod"/"production" emits JSON at info and
// above, anything else emits human-readable development output at debug.
// Both write to stderr so CLI output on stdout stays clean.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building %s logger: %w", mode, err)
	}
	return log, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
