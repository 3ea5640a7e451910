package domain

import "time"

// timeLayout matches what the datetime query parameter accepts.
const timeLayout = "2006-01-02T15:04:05"

// openEnd marks an unbounded side of an interval in the query string.
const openEnd = ".."

// DateInterval is either a single instant or a start/end range. A nil Start
// or End leaves that side unbounded ("..") when both are part of a range.
type DateInterval struct {
	Start *time.Time
	End   *time.Time

	// raw carries a caller-supplied string already in the form the API
	// understands; it wins over Start/End when set.
	raw string
}

// SingleDate builds an interval covering exactly one instant.
func SingleDate(t time.Time) *DateInterval {
	return &DateInterval{Start: &t}
}

// Between builds a closed interval.
func Between(start, end time.Time) *DateInterval {
	return &DateInterval{Start: &start, End: &end}
}

// Since builds an interval from the given time to now, open-ended.
func Since(start time.Time) *DateInterval {
	return &DateInterval{Start: &start, raw: start.Format(timeLayout) + "/" + openEnd}
}

// Until builds an interval of everything up to the given time.
func Until(end time.Time) *DateInterval {
	return &DateInterval{End: &end, raw: openEnd + "/" + end.Format(timeLayout)}
}

// RawInterval wraps a string assumed to already be in the accepted format.
func RawInterval(s string) *DateInterval {
	return &DateInterval{raw: s}
}

// QueryValue renders the interval for the datetime query parameter: a lone
// instant for single dates, "start/end" for ranges, ".." for unbounded sides.
func (d *DateInterval) QueryValue() string {
	if d == nil {
		return ""
	}
	if d.raw != "" {
		return d.raw
	}

	switch {
	case d.Start != nil && d.End != nil:
		return d.Start.Format(timeLayout) + "/" + d.End.Format(timeLayout)
	case d.Start != nil:
		return d.Start.Format(timeLayout)
	case d.End != nil:
		return openEnd + "/" + d.End.Format(timeLayout)
	default:
		return ""
	}
}
