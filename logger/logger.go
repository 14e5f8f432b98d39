package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// GetLogger initializes and returns a logrus logger for components that
// predate the zap migration (notification delivery).
func GetLogger() *logrus.Logger {
	logger := logrus.New()

	logger.Out = os.Stdout

	env := os.Getenv("APP_ENV")

	if env == "production" {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00", // ISO8601 format
		})
	} else {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true, // More readable logs for development
		})
	}

	return logger
}
