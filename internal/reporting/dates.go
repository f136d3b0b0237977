package reporting

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"GroundwaterDash/internal/config"
)

// Timestamp is the document store's wire shape for instants.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds,omitempty"`
}

var reportLocation = loadReportLocation()

func loadReportLocation() *time.Location {
	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// Location is the zone in which calendar days are interpreted for reports.
func Location() *time.Location { return reportLocation }

// Layouts tried for string dates, most specific first. Layouts without a
// zone are read in the report location.
var dateLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{config.ISODateFormat, false},
	{config.DisplayDateFormat, false},
	{"2/1/2006", false},
	{"02-01-2006", false},
}

// NormalizeDate converts any supported date representation into an instant.
// It returns nil when the input is empty or cannot be understood; callers treat
// nil as "date unknown".
func NormalizeDate(input interface{}) *time.Time {
	switch v := input.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		t := v
		return &t
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := *v
		return &t
	case Timestamp:
		return fromUnix(float64(v.Seconds), float64(v.Nanoseconds))
	case *Timestamp:
		if v == nil {
			return nil
		}
		return fromUnix(float64(v.Seconds), float64(v.Nanoseconds))
	case string:
		return parseDateString(v)
	case map[string]interface{}:
		return parseTimestampMap(v)
	case json.RawMessage:
		var raw interface{}
		if err := json.Unmarshal(v, &raw); err != nil {
			return nil
		}
		return NormalizeDate(raw)
	}
	return nil
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, l := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, reportLocation)
		}
		if err == nil {
			return &t
		}
	}
	return nil
}

func parseTimestampMap(m map[string]interface{}) *time.Time {
	secs, ok := numberField(m, "seconds", "_seconds")
	if !ok {
		return nil
	}
	nanos, _ := numberField(m, "nanoseconds", "_nanoseconds")
	return fromUnix(secs, nanos)
}

func numberField(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		case int:
			return float64(n), true
		case json.Number:
			f, err := n.Float64()
			if err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func fromUnix(secs, nanos float64) *time.Time {
	if math.IsNaN(secs) || math.IsInf(secs, 0) || math.IsNaN(nanos) || math.IsInf(nanos, 0) {
		return nil
	}
	t := time.Unix(int64(secs), int64(nanos))
	return &t
}

// StartOfDay returns midnight of t's calendar day in the report location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(reportLocation).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, reportLocation)
}

// EndOfDay returns the last representable instant of t's calendar day in the report location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FormatDisplayDate renders a normalized date as dd/MM/yyyy, or "" when unknown.
func FormatDisplayDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(reportLocation).Format(config.DisplayDateFormat)
}
