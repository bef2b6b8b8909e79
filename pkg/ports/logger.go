// Package ports defines the interfaces between jgallery's layout core and its
// hosts, triggers, renderers and file systems.
package ports

import "strings"

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug covers per-pass detail: probed headers, triggers received,
	// sizes applied to a host.
	LevelDebug LogLevel = iota
	// LevelInfo covers command progress: files written, hosts launched.
	LevelInfo
	// LevelWarn covers problems a watch or apply loop survives, such as a
	// failed pass or an unreadable image.
	LevelWarn
	// LevelError covers failures that end the command.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

// String returns the flag spelling of the level.
func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel parses a --log-level value, ignoring case and surrounding
// space. "warning" is accepted for warn. Unknown values yield LevelInfo.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn
	}
	for i, name := range levelNames {
		if s == name {
			return LogLevel(i)
		}
	}
	return LevelInfo
}

// Logger is the logging port shared by stages, hosts and the driver.
// Messages are lexicon keys; adapters translate them before formatting.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger whose lines are prefixed with the
	// component name, e.g. "[driver]" or "[chromehost]".
	WithComponent(component string) Logger
}
