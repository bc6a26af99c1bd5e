package common

import "time"

// isoLayout is the canonical wire format for timestamps: RFC3339 UTC with
// millisecond precision. Fixed-width fields keep string comparison equivalent
// to chronological comparison, which the sync watermark relies on.
const isoLayout = "2006-01-02T15:04:05.000Z"

// NowISO returns the current time in the canonical format.
func NowISO() string {
	return FormatISO(time.Now())
}

// FormatISO renders t in the canonical format.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseISO parses a canonical timestamp. It also accepts plain RFC3339
// values produced by other tooling.
func ParseISO(s string) (time.Time, error) {
	if t, err := time.Parse(isoLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
