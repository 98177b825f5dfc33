package schedule

import "time"

// Covers reports whether [start, end) is fully inside the open intervals of
// spec, evaluated in loc. The candidate is walked in segments bounded by
// local-day boundaries; every segment must fit inside a single open interval
// of its weekday. A segment ending exactly on local midnight counts as minute
// 1440 of the day it belongs to, not minute 0 of the next.
func Covers(spec WeekSpec, start, end time.Time, loc *time.Location) bool {
	if !end.After(start) {
		return false
	}

	cur := start
	for cur.Before(end) {
		local := cur.In(loc)
		dayEnd := nextLocalMidnight(local)

		segEnd := end
		if dayEnd.Before(end) {
			segEnd = dayEnd
		}

		startMin := local.Hour()*60 + local.Minute()
		var endMin int
		if segEnd.Equal(dayEnd) {
			endMin = 1440
		} else {
			localEnd := segEnd.In(loc)
			endMin = localEnd.Hour()*60 + localEnd.Minute()
			// An end with a sub-minute component spills into the next
			// minute; it must be covered too.
			if localEnd.Second() != 0 || localEnd.Nanosecond() != 0 {
				endMin++
			}
		}

		if !dayCovers(spec[WeekdayFromTime(local.Weekday())], startMin, endMin) {
			return false
		}
		cur = segEnd
	}
	return true
}

func dayCovers(ivs []Interval, startMin, endMin int) bool {
	for _, iv := range ivs {
		if iv.StartMin <= startMin && endMin <= iv.EndMin {
			return true
		}
	}
	return false
}

func nextLocalMidnight(local time.Time) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, local.Location())
}
