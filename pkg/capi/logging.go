package capi

import (
	"fmt"

	"github.com/yafaray/yafaray-go/pkg/core"
)

// LogLevel names the C-API's logging verbosity levels. It is distinct from
// core.LogLevel (which only orders DEBUG/INFO/WARNING/ERROR internally)
// because the external surface additionally exposes Mute, Params, and
// Verbose — caller-facing knobs with no internal-severity equivalent.
type LogLevel int

const (
	LogMute LogLevel = iota
	LogError
	LogWarning
	LogParams
	LogInfo
	LogVerbose
	LogDebug
)

// logLevelFromString parses the XML/CLI spelling of a log level, defaulting
// to LogInfo for an unrecognized name.
func logLevelFromString(s string) LogLevel {
	switch s {
	case "mute":
		return LogMute
	case "error":
		return LogError
	case "warning":
		return LogWarning
	case "params":
		return LogParams
	case "verbose":
		return LogVerbose
	case "debug":
		return LogDebug
	default:
		return LogInfo
	}
}

// sink implements core.Logger, filtering messages below a configured
// LogLevel before handing them to an underlying write function — the
// package-level-global Logger the teacher's C counterpart exposes,
// reworked into an explicitly-constructed value passed by handle instead of
// reached for as ambient global state.
type sink struct {
	level LogLevel
	write func(string)
}

func (s *sink) Printf(format string, args ...interface{}) {
	if s.level < LogInfo {
		return
	}
	s.write(fmt.Sprintf(format, args...))
}

func (s *sink) Logf(level core.LogLevel, format string, args ...interface{}) {
	threshold := map[core.LogLevel]LogLevel{
		core.LogDebug:   LogDebug,
		core.LogInfo:    LogInfo,
		core.LogWarning: LogWarning,
		core.LogError:   LogError,
	}[level]
	if s.level < threshold {
		return
	}
	s.write(fmt.Sprintf("[%s] %s", level.String(), fmt.Sprintf(format, args...)))
}

var loggers = newRegistry[core.Logger]()

// CreateLogger registers a logger at the given verbosity (parsed from the
// XML/CLI spelling via logLevelFromString) writing through write, and
// returns its handle. Passing a nil write func installs one that discards
// every message (LogMute behavior regardless of level).
func CreateLogger(levelName string, write func(string)) LoggerHandle {
	if write == nil {
		write = func(string) {}
	}
	s := &sink{level: logLevelFromString(levelName), write: write}
	return LoggerHandle{id: loggers.add(s)}
}

// SetLogLevel adjusts a registered logger's verbosity threshold in place.
func SetLogLevel(loggerHandle LoggerHandle, levelName string) ResultFlags {
	s, ok := loggers.get(loggerHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	sk, ok := s.(*sink)
	if !ok {
		return ErrorWhileCreating
	}
	sk.level = logLevelFromString(levelName)
	return OK
}
