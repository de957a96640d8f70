package format

import (
	"fmt"
	"time"
)

// Sentinels reported instead of an elapsed value when it cannot be computed.
const (
	ElapsedPending = "Pending"
	ElapsedError   = "Error"
)

// elapsedLayouts are tried in order when parsing report timestamps. The lab
// API emits RFC3339, older rows use a bare datetime.
var elapsedLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Elapsed formats the absolute difference between two timestamps as
// zero-padded "HHH:MMM:SSS" (e.g. "02H:05M:09S"). A missing or unparsable
// endpoint yields ElapsedPending; a difference that cannot be represented
// yields ElapsedError.
func Elapsed(start, end string) string {
	st, ok := parseElapsed(start)
	if !ok {
		return ElapsedPending
	}
	et, ok := parseElapsed(end)
	if !ok {
		return ElapsedPending
	}

	d := et.Sub(st)
	if d < 0 {
		d = -d
	}
	if d < 0 {
		// negation overflows only for the minimum duration
		return ElapsedError
	}

	total := int64(d / time.Second)
	return fmt.Sprintf("%02dH:%02dM:%02dS", total/3600, (total/60)%60, total%60)
}

func parseElapsed(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range elapsedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
