package tasks

import "time"

// Status is the kanban column a task lives in.
type Status string

const (
	StatusInbox      Status = "inbox"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInbox, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// Metadata is the open map carried by every task. Auto-managed tasks are
// marked here and keyed by the session that produced them.
type Metadata struct {
	SessionID   string `json:"sessionId,omitempty"`
	AutoManaged bool   `json:"autoManaged,omitempty"`
	AgentID     string `json:"agentId,omitempty"`
	// SourceText is a truncated copy of the user message the task came from.
	SourceText string `json:"sourceText,omitempty"`
}

// Task is one entry in the mission queue. Auto-managed tasks are owned by
// the synchronizer; manual tasks are owned by humans and never auto-edited.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	AssigneeID  string     `json:"assigneeId"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Tags        []string   `json:"tags"`
	Metadata    Metadata   `json:"metadata"`
}

// Transition moves the task to next and maintains the invariant that
// completedAt is set if and only if the status is done. Returns false
// if the task was already in that status.
func (t *Task) Transition(next Status, now time.Time) bool {
	if next == t.Status {
		return false
	}
	if next == StatusDone {
		completed := now
		t.CompletedAt = &completed
	} else {
		t.CompletedAt = nil
	}
	t.Status = next
	t.UpdatedAt = now
	return true
}

// AllowAutoTransition reports whether the synchronizer may move the task
// to next. A done task with completedAt stamped stays done unless a fresh
// user request arrived (titleChanged); activity recalculation alone never
// resurrects it.
func (t *Task) AllowAutoTransition(next Status, titleChanged bool) bool {
	if t.Status == StatusDone && t.CompletedAt != nil && next != StatusDone {
		return titleChanged
	}
	return true
}
