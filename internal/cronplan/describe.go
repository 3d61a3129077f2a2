package cronplan

import "strings"

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe renders a cron expression as a human-readable schedule, e.g.
// "Weekdays at 8:00 AM". Unparseable expressions come back unchanged so
// the UI can always show something.
func Describe(expr, tz string) string {
	parsed, ok := Parse(expr)
	if !ok {
		return expr
	}

	time := parsed.Time()
	tzLabel := ""
	if tz != "" {
		parts := strings.Split(tz, "/")
		tzLabel = " (" + parts[len(parts)-1] + ")"
	}

	if parsed.DaysOfWeek == nil && parsed.DaysOfMonth == nil {
		return "Daily at " + time + tzLabel
	}

	if parsed.DaysOfWeek != nil {
		if isWeekdays(parsed.DaysOfWeek) {
			return "Weekdays at " + time + tzLabel
		}
		if isWeekends(parsed.DaysOfWeek) {
			return "Weekends at " + time + tzLabel
		}
		names := make([]string, 0, len(parsed.DaysOfWeek))
		for _, d := range parsed.DaysOfWeek {
			if d >= 0 && d <= 6 {
				names = append(names, dayNames[d])
			}
		}
		return strings.Join(names, ", ") + " at " + time + tzLabel
	}

	// Day-of-month only: no day qualifier.
	return time + tzLabel
}

func isWeekdays(days []int) bool {
	if len(days) != 5 {
		return false
	}
	for _, d := range days {
		if d < 1 || d > 5 {
			return false
		}
	}
	return true
}

func isWeekends(days []int) bool {
	if len(days) != 2 {
		return false
	}
	return (days[0] == 0 && days[1] == 6) || (days[0] == 6 && days[1] == 0)
}
