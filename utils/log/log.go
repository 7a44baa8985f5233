package log

import (
	"os"

	"github.com/sirupsen/logrus"
	"travelbuddy-server/utils/dotenv"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	// JSON in production for log collection, plain text for readability
	// everywhere else.
	if dotenv.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = logger.WithFields(
		logrus.Fields{"service": "travelbuddy-api", "is_development": !dotenv.IsProduction()},
	)
}
