package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ISOMillis renders a timestamp as RFC3339 with millisecond precision and a Z suffix.
func ISOMillis(ts time.Time) string {
	return ts.UTC().Format("2006-01-02T15:04:05.000Z")
}
