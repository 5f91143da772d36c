package event

import (
	"github.com/sirupsen/logrus"
)

// Log is the global default logger.
var Log *logrus.Logger

func init() {
	Log = logrus.StandardLogger()
	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
	})
}

// Level parses a log level name and falls back to info.
func Level(name string) logrus.Level {
	if name == "" {
		return logrus.InfoLevel
	}

	level, err := logrus.ParseLevel(name)

	if err != nil {
		Log.Warnf("log: unknown level %s, using info", name)
		return logrus.InfoLevel
	}

	return level
}
