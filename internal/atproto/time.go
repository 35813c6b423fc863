package atproto

import "time"

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// parseTime parses an AT-Protocol timestamp. Conversion must never fail, so
// an empty or unparsable value yields the current time.
func parseTime(s string) time.Time {
	if t, ok := tryParseTime(s); ok {
		return t
	}
	return time.Now().UTC()
}

// parseTimeOrNil is parseTime for nullable canonical fields.
func parseTimeOrNil(s string) *time.Time {
	if t, ok := tryParseTime(s); ok {
		return &t
	}
	return nil
}

func tryParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
