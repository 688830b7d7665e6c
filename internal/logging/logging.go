// Package logging is a thin level filter over the standard logger.
package logging

import "log"

// Level controls how much the application logs.
type Level int

const (
	// LevelQuiet keeps errors only.
	LevelQuiet Level = iota
	// LevelInfo is the default: step progress plus errors.
	LevelInfo
	// LevelDebug adds per-file detail.
	LevelDebug
)

var level = LevelInfo

// SetLevel selects the minimum level that gets written.
func SetLevel(l Level) { level = l }

// Debugf logs per-file detail, visible only at LevelDebug.
func Debugf(format string, args ...any) {
	if level >= LevelDebug {
		log.Printf("DEBUG "+format, args...)
	}
}

// Infof logs step progress.
func Infof(format string, args ...any) {
	if level >= LevelInfo {
		log.Printf("INFO  "+format, args...)
	}
}

// Errorf logs failures. Errors are written at every level.
func Errorf(format string, args ...any) {
	log.Printf("ERROR "+format, args...)
}
