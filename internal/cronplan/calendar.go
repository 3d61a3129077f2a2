package cronplan

import (
	"fmt"
	"sort"
	"time"
)

// CalendarEntry is a cron job placed on the weekly calendar.
type CalendarEntry struct {
	JobID   string `json:"jobId"`
	Name    string `json:"name"`
	AgentID string `json:"agentId"`
	Time    string `json:"time"`
	Days    []int  `json:"days"` // 0=Sun … 6=Sat

	sortKey int // minutes past midnight of the representative time
}

// AlwaysRunningEntry is an interval job, shown outside the calendar grid.
type AlwaysRunningEntry struct {
	JobID    string `json:"jobId"`
	Name     string `json:"name"`
	AgentID  string `json:"agentId"`
	Interval string `json:"interval"`
}

// NextUpEntry is one row of the "next up" list, soonest first.
type NextUpEntry struct {
	JobID   string `json:"jobId"`
	Name    string `json:"name"`
	AgentID string `json:"agentId"`
	ETA     string `json:"eta"`
}

// CalendarEntries projects enabled cron-kind jobs onto the weekly grid.
// Jobs with unparseable expressions are omitted; they cannot be placed.
func CalendarEntries(jobs []Job) []CalendarEntry {
	var out []CalendarEntry
	for _, job := range jobs {
		if !job.Enabled || job.Schedule.Kind != KindCron {
			continue
		}
		parsed, ok := Parse(job.Schedule.Expr)
		if !ok {
			continue
		}
		var days []int
		for day := 0; day <= 6; day++ {
			if parsed.RunsOnDay(day) {
				days = append(days, day)
			}
		}
		hour, minute := 0, 0
		if len(parsed.Hours) > 0 {
			hour = parsed.Hours[0]
		}
		if len(parsed.Minutes) > 0 {
			minute = parsed.Minutes[0]
		}
		out = append(out, CalendarEntry{
			JobID:   job.ID,
			Name:    job.Name,
			AgentID: job.AgentID,
			Time:    parsed.Time(),
			Days:    days,
			sortKey: hour*60 + minute,
		})
	}
	return out
}

// EntriesForDay returns the entries scheduled on the given day of week,
// sorted by time of day.
func EntriesForDay(entries []CalendarEntry, day int) []CalendarEntry {
	var out []CalendarEntry
	for _, e := range entries {
		for _, d := range e.Days {
			if d == day {
				out = append(out, e)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].sortKey < out[j].sortKey
	})
	return out
}

// AlwaysRunning lists enabled interval jobs with a humanized cadence.
func AlwaysRunning(jobs []Job) []AlwaysRunningEntry {
	var out []AlwaysRunningEntry
	for _, job := range jobs {
		if !job.Enabled || job.Schedule.Kind != KindInterval {
			continue
		}
		out = append(out, AlwaysRunningEntry{
			JobID:    job.ID,
			Name:     job.Name,
			AgentID:  job.AgentID,
			Interval: intervalLabel(job.Schedule.EveryMs),
		})
	}
	return out
}

// NextUp orders enabled jobs by their runtime-reported next run, soonest
// first. Jobs without a known next run are left out.
func NextUp(jobs []Job, now time.Time) []NextUpEntry {
	upcoming := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if !job.Enabled || job.NextRunAt.IsZero() {
			continue
		}
		upcoming = append(upcoming, job)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextRunAt.Before(upcoming[j].NextRunAt)
	})

	out := make([]NextUpEntry, 0, len(upcoming))
	for _, job := range upcoming {
		out = append(out, NextUpEntry{
			JobID:   job.ID,
			Name:    job.Name,
			AgentID: job.AgentID,
			ETA:     etaLabel(job.NextRunAt.Sub(now)),
		})
	}
	return out
}

// etaLabel renders a countdown like "In 12 min" or "In 4 days".
func etaLabel(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "Now"
	case d < time.Hour:
		return fmt.Sprintf("In %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("In %s", plural(int(d.Hours()), "hour"))
	default:
		return fmt.Sprintf("In %s", plural(int(d.Hours()/24), "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
