package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	charmlog "charm.land/log/v2"
)

// Handler is the [slog.Handler] produced by this package's constructors.
type Handler = slog.Handler

// Level is a logging severity, expressed as its own string type rather than
// reusing [slog.Level] so CLI flag values and completions don't depend on
// slog's own rendering of its constants.
type Level string

const (
	// LevelDebug enables debug-and-above logging.
	LevelDebug Level = "debug"
	// LevelInfo enables info-and-above logging.
	LevelInfo Level = "info"
	// LevelWarn enables warn-and-above logging.
	LevelWarn Level = "warn"
	// LevelError enables error-only logging.
	LevelError Level = "error"
)

// allLevels and allFormats list every valid CLI-facing value, in the order
// reported by [GetAllLevelStrings] and [GetAllFormatStrings].
var (
	allLevels  = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
	allFormats = []Format{FormatJSON, FormatLogfmt, FormatText}
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

func (l Level) charmLevel() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	case LevelInfo:
		return charmlog.InfoLevel
	default:
		return charmlog.InfoLevel
	}
}

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt format.
	FormatLogfmt Format = "logfmt"
	// FormatText outputs logs in a colorized, human-readable form via
	// [charm.land/log/v2].
	FormatText Format = "text"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// GetAllLevelStrings returns every valid level string, for flag help text
// and shell completion.
func GetAllLevelStrings() []string {
	out := make([]string, len(allLevels))
	for i, l := range allLevels {
		out[i] = string(l)
	}

	return out
}

// GetAllFormatStrings returns every valid format string, for flag help text
// and shell completion.
func GetAllFormatStrings() []string {
	out := make([]string, len(allFormats))
	for i, f := range allFormats {
		out[i] = string(f)
	}

	return out
}

// ParseLevel parses a log level string and returns the corresponding
// [Level]. "warning" is accepted as an alias for [LevelWarn].
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case string(LevelError):
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case string(LevelInfo):
		return LevelInfo, nil
	case string(LevelDebug):
		return LevelDebug, nil
	}

	return "", ErrUnknownLogLevel
}

// ParseFormat parses a log format string and returns the corresponding
// [Format].
func ParseFormat(format string) (Format, error) {
	logFmt := Format(strings.ToLower(format))
	if slices.Contains(allFormats, logFmt) {
		return logFmt, nil
	}

	return "", ErrUnknownLogFormat
}

// NewHandler creates a [Handler] that writes to w at the given level and
// format. FormatText routes through [charm.land/log/v2] for colorized,
// human-facing output; FormatJSON and FormatLogfmt use [log/slog]'s own
// handlers directly.
func NewHandler(w io.Writer, lvl Level, format Format) Handler {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl.slogLevel(),
		})

	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl.slogLevel(),
		})

	case FormatText:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           lvl.charmLevel(),
			Formatter:       charmlog.TextFormatter,
			ReportTimestamp: false,
		})
	}

	return nil
}

// NewHandlerFromStrings creates a [Handler] from level and format strings,
// wrapping any parse failure in [ErrInvalidArgument].
func NewHandlerFromStrings(w io.Writer, logLevel, logFormat string) (Handler, error) {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	logFmt, err := ParseFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, lvl, logFmt), nil
}
