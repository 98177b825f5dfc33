package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Day keys arrive in several languages and abbreviations depending on which
// client wrote the studio profile.
var weekdayAliases = map[string]Weekday{
	"mon": Monday, "monday": Monday, "lu": Monday, "lun": Monday, "lunes": Monday, "seg": Monday, "segunda": Monday,
	"tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday, "ma": Tuesday, "mar": Tuesday, "martes": Tuesday, "ter": Tuesday, "terca": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday, "mi": Wednesday, "mie": Wednesday, "miercoles": Wednesday, "qua": Wednesday, "quarta": Wednesday,
	"thu": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday, "ju": Thursday, "jue": Thursday, "jueves": Thursday, "qui": Thursday, "quinta": Thursday,
	"fri": Friday, "friday": Friday, "vi": Friday, "vie": Friday, "viernes": Friday, "sex": Friday, "sexta": Friday,
	"sat": Saturday, "saturday": Saturday, "sa": Saturday, "sab": Saturday, "sabado": Saturday,
	"sun": Sunday, "sunday": Sunday, "do": Sunday, "dom": Sunday, "domingo": Sunday,
}

var hourRangeRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\s*$`)
var hourRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)

// Normalize turns a raw weekly schedule into the canonical WeekSpec. Each
// day's value may be a single "HH:mm-HH:mm" string, a list of such strings, a
// list of [start, end] pairs, or {start, end} objects. Entries that match no
// known shape are dropped. A range whose end precedes its start crosses local
// midnight and is split onto the following day; start == end means open all
// day.
func Normalize(raw map[string]any) WeekSpec {
	spec := WeekSpec{}
	for key, value := range raw {
		day, ok := canonicalDay(key)
		if !ok {
			continue
		}
		for _, pair := range extractPairs(value) {
			addInterval(spec, day, pair[0], pair[1])
		}
	}
	for day, ivs := range spec {
		spec[day] = mergeIntervals(ivs)
	}
	return spec
}

func canonicalDay(key string) (Weekday, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.Map(func(r rune) rune {
		switch r {
		case 'á':
			return 'a'
		case 'é':
			return 'e'
		case 'í':
			return 'i'
		case 'ó':
			return 'o'
		case 'ú':
			return 'u'
		case 'ç':
			return 'c'
		}
		return r
	}, k)
	day, ok := weekdayAliases[k]
	return day, ok
}

// extractPairs pulls zero or more (startMinute, endMinute) pairs out of a raw
// day entry, silently skipping anything malformed.
func extractPairs(value any) [][2]int {
	var pairs [][2]int
	switch v := value.(type) {
	case string:
		if p, ok := parseRange(v); ok {
			pairs = append(pairs, p)
		}
	case []any:
		for _, item := range v {
			pairs = append(pairs, extractPairs(item)...)
		}
	case []string:
		for _, item := range v {
			pairs = append(pairs, extractPairs(item)...)
		}
	case map[string]any:
		start, okS := parseClock(stringAt(v, "start"))
		end, okE := parseClock(stringAt(v, "end"))
		if okS && okE {
			pairs = append(pairs, [2]int{start, end})
		}
	}
	// Two-element tuples come through JSON as []any{"HH:mm", "HH:mm"}; the
	// recursive []any case above would treat them as two lone strings, which
	// parseRange rejects, so handle them here.
	if v, ok := value.([]any); ok && len(v) == 2 {
		s, okS := v[0].(string)
		e, okE := v[1].(string)
		if okS && okE {
			start, okS2 := parseClock(s)
			end, okE2 := parseClock(e)
			if okS2 && okE2 {
				pairs = append(pairs, [2]int{start, end})
			}
		}
	}
	return pairs
}

func stringAt(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func parseRange(s string) ([2]int, bool) {
	m := hourRangeRe.FindStringSubmatch(s)
	if m == nil {
		return [2]int{}, false
	}
	start, okS := clockToMinutes(m[1], m[2])
	end, okE := clockToMinutes(m[3], m[4])
	if !okS || !okE {
		return [2]int{}, false
	}
	return [2]int{start, end}, true
}

func parseClock(s string) (int, bool) {
	m := hourRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return clockToMinutes(m[1], m[2])
}

func clockToMinutes(hh, mm string) (int, bool) {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, false
	}
	return h*60 + m, true
}

func addInterval(spec WeekSpec, day Weekday, start, end int) {
	switch {
	case end > start:
		spec[day] = append(spec[day], Interval{StartMin: start, EndMin: end})
	case end < start:
		// Crosses local midnight: split at 24:00.
		spec[day] = append(spec[day], Interval{StartMin: start, EndMin: 1440})
		next := day.Next()
		if end > 0 {
			spec[next] = append(spec[next], Interval{StartMin: 0, EndMin: end})
		}
	default:
		// start == end means open the full day.
		spec[day] = append(spec[day], Interval{StartMin: 0, EndMin: 1440})
	}
}

// mergeIntervals sorts by start and coalesces touching or overlapping ranges.
func mergeIntervals(ivs []Interval) []Interval {
	if len(ivs) < 2 {
		return ivs
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].StartMin < ivs[j].StartMin })

	merged := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.StartMin <= last.EndMin {
			if iv.EndMin > last.EndMin {
				last.EndMin = iv.EndMin
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
