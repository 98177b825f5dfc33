// Package schedule holds the canonical opening-hours model for rooms and the
// availability check against it. Raw weekly schedules arrive in loosely typed
// shapes; everything downstream operates only on the normalized WeekSpec.
package schedule

import "time"

type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var weekdayOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Next returns the following weekday, wrapping Sunday to Monday.
func (d Weekday) Next() Weekday {
	for i, w := range weekdayOrder {
		if w == d {
			return weekdayOrder[(i+1)%len(weekdayOrder)]
		}
	}
	return d
}

func WeekdayFromTime(w time.Weekday) Weekday {
	switch w {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Interval is a half-open range of minutes within one local day, where
// EndMin may be 1440 to denote local midnight at the end of the day.
type Interval struct {
	StartMin int
	EndMin   int
}

// WeekSpec maps each weekday to its sorted, disjoint open intervals.
type WeekSpec map[Weekday][]Interval

func (s WeekSpec) IsEmpty() bool {
	for _, ivs := range s {
		if len(ivs) > 0 {
			return false
		}
	}
	return true
}
