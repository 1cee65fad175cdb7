// Package domain contains the core types of the faithfulness evaluator.
package domain

import "log/slog"

// LogLevel is the severity of a message written to a progress vertex.
// Values match the slog levels so vertex logs and the process log agree.
type LogLevel int

const (
	LogLevelDebug = LogLevel(slog.LevelDebug)
	LogLevelInfo  = LogLevel(slog.LevelInfo)
	LogLevelWarn  = LogLevel(slog.LevelWarn)
	LogLevelError = LogLevel(slog.LevelError)
)

// String returns the upper-case level name. Unknown levels read as INFO.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug, LogLevelWarn, LogLevelError:
		return slog.Level(l).String()
	default:
		return "INFO"
	}
}
