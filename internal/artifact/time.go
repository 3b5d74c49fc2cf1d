package artifact

import "time"

// timeNow is swapped in tests to pin timestamps.
var timeNow = time.Now

// isoFormat is the timestamp format stamped into front matter:
// RFC 3339 with second precision, always UTC.
const isoFormat = "2006-01-02T15:04:05Z"

// NowISO returns the current UTC time in front matter format.
func NowISO() string {
	return timeNow().UTC().Format(isoFormat)
}
