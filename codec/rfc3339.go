// Package codec converts between JDDF timestamp strings and time.Time.
package codec

import "time"

// FormatTimestamp renders t in UTC using RFC 3339. Fractional seconds are
// kept when present and trailing zeros trimmed.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// TimestampFromUnix renders a Unix offset in seconds as a UTC timestamp.
func TimestampFromUnix(sec int64) string {
	return FormatTimestamp(time.Unix(sec, 0))
}

// ParseTimestamp accepts any RFC 3339 timestamp, with or without fractional
// seconds, and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2.UTC(), nil
		}
		return time.Time{}, err
	}
	return t.UTC(), nil
}
