package ftml

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Temporal formats for date, time, and datetime scalars. "rfc3339" and
// "iso8601" are treated as equivalent for date and datetime; datetime's
// iso8601 form additionally accepts a space in place of 'T'.
const (
	formatRFC3339  = "rfc3339"
	formatISO8601  = "iso8601"
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	timeLayoutFrac = "15:04:05.999999999"
	datetimeLayout = "2006-01-02T15:04:05.999999999Z07:00"
	datetimeSpace  = "2006-01-02 15:04:05.999999999Z07:00"
)

// ParseDate parses s as a date scalar under format (empty, "rfc3339", or
// "iso8601" all mean the default YYYY-MM-DD; anything else is treated as
// a custom strftime-style pattern).
func ParseDate(s, format string) (time.Time, error) {
	switch normalizeFormatName(format) {
	case "", formatRFC3339, formatISO8601:
		return time.Parse(dateLayout, s)
	default:
		return time.Parse(StrftimeToGoLayout(format), s)
	}
}

// ParseTime parses s as a time scalar: default ISO 8601 HH:MM:SS[.fff].
func ParseTime(s, format string) (time.Time, error) {
	switch normalizeFormatName(format) {
	case "", formatRFC3339, formatISO8601:
		if strings.Contains(s, ".") {
			return time.Parse(timeLayoutFrac, s)
		}

		return time.Parse(timeLayout, s)
	default:
		return time.Parse(StrftimeToGoLayout(format), s)
	}
}

// ParseDatetime parses s as a datetime scalar: default RFC 3339
// YYYY-MM-DDThh:mm:ss[.fff](Z|+-HH:MM); "iso8601" additionally accepts a
// space separator in place of 'T'.
func ParseDatetime(s, format string) (time.Time, error) {
	switch normalizeFormatName(format) {
	case "", formatRFC3339:
		return time.Parse(datetimeLayout, s)
	case formatISO8601:
		if t, err := time.Parse(datetimeLayout, s); err == nil {
			return t, nil
		}

		return time.Parse(datetimeSpace, s)
	default:
		return time.Parse(StrftimeToGoLayout(format), s)
	}
}

func normalizeFormatName(format string) string {
	return strings.ToLower(format)
}

// strftimeDirectives maps the subset of supported strftime-style
// directives to Go's reference-time layout fragments.
var strftimeDirectives = map[byte]string{
	'Y': "2006", 'm': "01", 'd': "02",
	'H': "15", 'M': "04", 'S': "05",
	'I': "03", 'p': "PM",
	'b': "Jan", 'B': "January",
	'a': "Mon", 'A': "Monday",
}

// StrftimeToGoLayout translates a strftime-style pattern restricted to
// `%Y %m %d %H %M %S %I %p %b %B %a %A` into a Go time layout string.
// Any other `%x` directive, or a trailing bare `%`, is copied through
// unchanged -- time.Parse will then fail loudly rather than silently
// misinterpreting it.
func StrftimeToGoLayout(pattern string) string {
	var sb strings.Builder

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i+1 >= len(pattern) {
			sb.WriteByte(c)

			continue
		}

		next := pattern[i+1]
		if layout, ok := strftimeDirectives[next]; ok {
			sb.WriteString(layout)
			i++

			continue
		}

		sb.WriteByte(c)
	}

	return sb.String()
}

// TimestampPrecisionDigits returns the expected decimal digit count for a
// timestamp scalar at the given precision name: 10/13/16/19 for
// seconds/milliseconds/microseconds/nanoseconds.
func TimestampPrecisionDigits(precision string) (int, bool) {
	switch precision {
	case "seconds":
		return 10, true
	case "milliseconds":
		return 13, true
	case "microseconds":
		return 16, true
	case "nanoseconds":
		return 19, true
	default:
		return 0, false
	}
}

// CheckTimestampPrecision reports whether n's decimal digit length (sign
// excluded) matches the band named by precision.
func CheckTimestampPrecision(n int64, precision string) error {
	digits, ok := TimestampPrecisionDigits(precision)
	if !ok {
		return fmt.Errorf("unknown timestamp precision %q", precision)
	}

	s := strconv.FormatInt(n, 10)
	s = strings.TrimPrefix(s, "-")

	if len(s) != digits {
		return fmt.Errorf("timestamp %d does not match %s precision (%d digits)", n, precision, digits)
	}

	return nil
}
