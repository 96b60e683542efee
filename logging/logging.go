// Package logging wraps logrus with the field vocabulary the rest of
// the mesh runtime logs under: src, dst, frame_type, cmd_id, phase,
// seq. It plays the role a platform-supplied debug writer would, but
// backed by a real structured logger instead of a global print
// function.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the package-level logger every mesh package logs through.
var Log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel parses and applies a level name ("debug", "info", "warn",
// "error"), ignoring an unparseable value rather than failing startup
// over a cosmetic setting.
func SetLevel(name string) {
	if lvl, err := logrus.ParseLevel(name); err == nil {
		Log.SetLevel(lvl)
	}
}

// Frame returns a logger entry pre-populated with the addressing
// fields common to every frame-related log line.
func Frame(frameType byte, src, dst uint8) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"frame_type": string(frameType),
		"src":        src,
		"dst":        dst,
	})
}
