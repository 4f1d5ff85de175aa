package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func newLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
