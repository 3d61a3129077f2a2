package cronplan

import (
	"fmt"
	"time"
)

// ScheduleKind tags the variants of a runtime job schedule.
type ScheduleKind string

const (
	KindCron     ScheduleKind = "cron"     // 5-field expression
	KindAt       ScheduleKind = "at"       // one-shot timestamp
	KindInterval ScheduleKind = "interval" // fixed repeat interval
)

// Schedule is the tagged schedule variant attached to a runtime job.
// Only the fields for its Kind are meaningful.
type Schedule struct {
	Kind    ScheduleKind
	Expr    string // cron
	TZ      string // cron, optional
	At      time.Time
	EveryMs int64
}

// Job is a scheduled job as reported by the agent runtime, read-only input
// to the projector.
type Job struct {
	ID       string
	Name     string
	AgentID  string
	Enabled  bool
	Schedule Schedule
	// NextRunAt is supplied by the runtime's own scheduler state; zero
	// when unknown.
	NextRunAt time.Time
}

// Describe renders any schedule variant for display.
func (s Schedule) Describe() string {
	switch s.Kind {
	case KindCron:
		return Describe(s.Expr, s.TZ)
	case KindAt:
		if s.At.IsZero() {
			return "Once"
		}
		return "Once at " + clock12(s.At.Hour(), s.At.Minute())
	case KindInterval:
		return intervalLabel(s.EveryMs)
	}
	return string(s.Kind)
}

// intervalLabel humanizes a repeat interval, e.g. "Every 30 min".
func intervalLabel(everyMs int64) string {
	d := time.Duration(everyMs) * time.Millisecond
	switch {
	case d < time.Minute:
		return fmt.Sprintf("Every %d sec", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("Every %d min", int(d.Minutes()))
	case d%time.Hour == 0:
		return fmt.Sprintf("Every %d hr", int(d.Hours()))
	default:
		return fmt.Sprintf("Every %d min", int(d.Minutes()))
	}
}
