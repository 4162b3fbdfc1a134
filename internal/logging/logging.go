// Package logging builds the zap logger used at the CLI edge. Engine
// packages stay silent and return errors; only commands and the
// import/persistence warning trails log.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a production logger, or a verbose development logger on
// stdout when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stdout"}
		logger, err = cfg.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}
