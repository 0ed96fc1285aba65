package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg = newLogger("info")

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	l.SetLevel(parseLevel(level))
	return l
}

// Init replaces the process logger. Call once from main.
func Init(level string) *logrus.Logger {
	logg = newLogger(level)
	return logg
}

func Get() *logrus.Logger {
	return logg
}

func parseLevel(lvl string) logrus.Level {
	l, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(lvl)))
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

func LogError(moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logg.WithFields(fields).Error(err.Error())
}
