// Package logging configures the per-subsystem structured loggers shared
// across the simulator. Each subsystem gets its own *logrus.Entry tagged
// with its name, so every log line carries its module.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = logrus.New()

func init() {
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the global log level, e.g. from a --log-level flag.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// For returns a logger entry scoped to the given subsystem name.
func For(subsystem string) *logrus.Entry {
	return base.WithField("subsystem", subsystem)
}
