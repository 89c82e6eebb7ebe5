package utils

import (
	"time"
)

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// UnixFromIso8601 parses an ISO8601 timestamp back to Unix seconds. It
// reports false when none of the accepted layouts match.
func UnixFromIso8601(iso string) (int64, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000000000Z07:00",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}

// ValidUntilFrom calculates the valid until timestamp
func ValidUntilFrom(baseEpoch int64, intervalMS int) string {
	if baseEpoch <= 0 || intervalMS <= 0 {
		return ""
	}
	return time.Unix(baseEpoch+int64(intervalMS/1000), 0).UTC().Format(time.RFC3339)
}
