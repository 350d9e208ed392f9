package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "nzgd-map"

var Log *logrus.Logger

// serviceHook stamps every entry with the service name so log lines from
// the map service are attributable once aggregated.
type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = serviceName
	}
	return nil
}

func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	Log.AddHook(serviceHook{})

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	Log.SetLevel(logLevel)
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Log.WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}
