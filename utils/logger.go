package utils

import (
	"os"

	"go.uber.org/zap"
)

var Log *zap.Logger

// InitLogger sets up the process-wide logger. Production uses JSON output,
// anything else gets the human-readable development encoder.
func InitLogger() error {
	var err error
	if os.Getenv("GO_ENV") == "production" {
		Log, err = zap.NewProduction()
	} else {
		Log, err = zap.NewDevelopment()
	}
	return err
}
