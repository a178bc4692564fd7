package coerce

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ToDate converts v to a time.Time. Strings accept RFC3339 (with or without
// fractional seconds), a zone-less date-time, or a plain date; numbers are
// Unix milliseconds.
func ToDate(v any) (time.Time, error) {
	if absent(v) {
		return time.Time{}, unsupported(v, "date")
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, unsupported(v, "date")
		}
		return *t, nil
	case string:
		return ParseDate(t)
	case bool, []byte:
		return time.Time{}, unsupported(v, "date")
	}
	f, err := ToNumber(v)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(f)).UTC(), nil
}

// ParseDate parses s using the accepted date layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrUnsupported, s)
}

// FormatDate renders t in UTC using RFC3339Nano (trailing zeros trimmed).
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
