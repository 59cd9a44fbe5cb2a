package logrus

import (
	"github.com/sirupsen/logrus"

	cache "github.com/NextSpark-js/nextspark-sub008"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ cache.Logger = LogrusLogger{}

func (l LogrusLogger) Debug(msg string, f cache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f cache.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f cache.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f cache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
