// Package cronplan translates 5-field cron expressions into day/time facts
// for calendar display. Everything here is pure: no I/O, no clock reads,
// safe for concurrent use.
package cronplan

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Parsed is the decoded form of a 5-field cron expression. A nil slice
// means wildcard: the field matches every value in its range.
type Parsed struct {
	Minutes     []int // 0-59
	Hours       []int // 0-23
	DaysOfMonth []int // 1-31
	Months      []int // 1-12
	DaysOfWeek  []int // 0-6, 0=Sunday
}

var (
	stepRe  = regexp.MustCompile(`^(\*|\d+-\d+)/(\d+)$`)
	rangeRe = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

// parseField decodes a single cron field into a sorted value list, or nil
// for a wildcard. Sub-terms are comma-separated steps, ranges, or integers.
func parseField(field string, min, max int) []int {
	if field == "*" {
		return nil
	}

	values := make(map[int]bool)
	for _, part := range strings.Split(field, ",") {
		if m := stepRe.FindStringSubmatch(part); m != nil {
			step, err := strconv.Atoi(m[2])
			if err != nil || step <= 0 {
				continue
			}
			start, end := min, max
			if m[1] != "*" {
				bounds := strings.SplitN(m[1], "-", 2)
				start, _ = strconv.Atoi(bounds[0])
				end, _ = strconv.Atoi(bounds[1])
			}
			for i := start; i <= end; i += step {
				values[i] = true
			}
			continue
		}

		if m := rangeRe.FindStringSubmatch(part); m != nil {
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			for i := start; i <= end; i++ {
				values[i] = true
			}
			continue
		}

		if n, err := strconv.Atoi(part); err == nil {
			values[n] = true
		}
	}

	if len(values) == 0 {
		return nil
	}
	out := make([]int, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Parse decodes a 5-field cron expression (minute, hour, day-of-month,
// month, day-of-week). ok is false for anything that is not exactly five
// whitespace-separated fields.
func Parse(expr string) (Parsed, bool) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return Parsed{}, false
	}
	return Parsed{
		Minutes:     parseField(parts[0], 0, 59),
		Hours:       parseField(parts[1], 0, 23),
		DaysOfMonth: parseField(parts[2], 1, 31),
		Months:      parseField(parts[3], 1, 12),
		DaysOfWeek:  parseField(parts[4], 0, 6),
	}, true
}

// RunsOnDay reports whether the schedule can fire on the given day of
// week (0=Sunday). When only day-of-month is constrained the job is shown
// on every day; true month-day arithmetic is deliberately not computed,
// and calendar consumers rely on that lenient placement.
func (p Parsed) RunsOnDay(day int) bool {
	if p.DaysOfWeek == nil && p.DaysOfMonth == nil {
		return true
	}
	if p.DaysOfWeek != nil {
		for _, d := range p.DaysOfWeek {
			if d == day {
				return true
			}
		}
		return false
	}
	return true
}

// Time renders the representative run time, the earliest hour/minute
// combination, e.g. "8:00 AM". Wildcard fields default to 0.
func (p Parsed) Time() string {
	hour, minute := 0, 0
	if len(p.Hours) > 0 {
		hour = p.Hours[0]
	}
	if len(p.Minutes) > 0 {
		minute = p.Minutes[0]
	}
	return clock12(hour, minute)
}

// AllTimes enumerates every hour/minute combination the schedule fires at.
func (p Parsed) AllTimes() []string {
	hours := p.Hours
	if hours == nil {
		hours = []int{0}
	}
	minutes := p.Minutes
	if minutes == nil {
		minutes = []int{0}
	}
	times := make([]string, 0, len(hours)*len(minutes))
	for _, h := range hours {
		for _, m := range minutes {
			times = append(times, clock12(h, m))
		}
	}
	return times
}

func clock12(hour, minute int) string {
	h12 := hour
	switch {
	case hour == 0:
		h12 = 12
	case hour > 12:
		h12 = hour - 12
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h12, minute, period)
}
