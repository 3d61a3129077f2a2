// Package sync reconstructs the mission queue from live agent sessions.
// Each active session is reconciled against at most one auto-managed task;
// manually created tasks are never touched.
package sync

import (
	"context"
	"log/slog"
	"time"

	"missionctl/internal/config"
	"missionctl/internal/runtime"
	"missionctl/internal/tasks"
	"missionctl/internal/transcript"
)

// Runtime is the slice of the agent-runtime client the syncer needs.
type Runtime interface {
	ListAgents(ctx context.Context) ([]runtime.Agent, error)
	SessionIndex(agentID string) ([]runtime.SessionRef, error)
}

// TaskStore is the slice of the task store the syncer needs.
type TaskStore interface {
	Create(t *tasks.Task) error
	Update(t *tasks.Task) error
	FindBySessionID(sessionID string) (*tasks.Task, error)
}

// Result summarizes one sync pass.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Syncer runs the session-to-task synchronization pass.
type Syncer struct {
	runtime   Runtime
	store     TaskStore
	extractor *transcript.Extractor
	cfg       config.SyncConfig

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func New(rt Runtime, store TaskStore, cfg config.SyncConfig) *Syncer {
	return &Syncer{
		runtime:   rt,
		store:     store,
		extractor: transcript.NewExtractor(cfg.ChannelTags),
		cfg:       cfg,
		Now:       time.Now,
	}
}

// Run performs one full pass over every agent's sessions. Only a roster
// failure is returned as an error; everything below it is skipped per unit.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	var res Result
	now := s.Now()

	agents, err := s.runtime.ListAgents(ctx)
	if err != nil {
		return res, err
	}

	for _, agent := range agents {
		refs, err := s.runtime.SessionIndex(agent.ID)
		if err != nil {
			slog.Debug("sync: skipping agent, session index unavailable",
				"agent", agent.ID, "error", err)
			continue
		}
		for _, ref := range refs {
			s.syncSession(agent, ref, now, &res)
		}
	}
	return res, nil
}

func (s *Syncer) syncSession(agent runtime.Agent, ref runtime.SessionRef, now time.Time, res *Result) {
	latest, err := s.extractor.ScanLatest(ref.SessionFile)
	if err != nil {
		slog.Debug("sync: skipping session, transcript unreadable",
			"session", ref.SessionID, "error", err)
		return
	}

	hasCandidate := latest.HasUser && transcript.IsSubstantive(latest.UserText)

	candidateAt := latest.UserAt
	if candidateAt.IsZero() {
		candidateAt = ref.UpdatedAt
	}
	fresh := hasCandidate && !candidateAt.IsZero() &&
		now.Sub(candidateAt) <= time.Duration(s.cfg.Freshness)

	status := s.deriveStatus(latest, ref, now)

	existing, err := s.store.FindBySessionID(ref.SessionID)
	if err != nil {
		slog.Warn("sync: task lookup failed", "session", ref.SessionID, "error", err)
		return
	}

	if existing == nil {
		if !fresh {
			return
		}
		if err := s.createTask(agent, ref, latest, status, now); err != nil {
			slog.Warn("sync: task create failed", "session", ref.SessionID, "error", err)
			return
		}
		res.Created++
		return
	}

	// A human created or claimed this task; hands off.
	if !existing.Metadata.AutoManaged {
		return
	}

	if s.reconcile(existing, latest, ref.Provider, hasCandidate, status, now) {
		if err := s.store.Update(existing); err != nil {
			slog.Warn("sync: task update failed", "task", existing.ID, "error", err)
			return
		}
		res.Updated++
	}
}

// deriveStatus maps session activity onto a task status.
func (s *Syncer) deriveStatus(latest transcript.Latest, ref runtime.SessionRef, now time.Time) tasks.Status {
	lastActivity := latest.AssistantAt
	if lastActivity.IsZero() {
		lastActivity = ref.UpdatedAt
	}
	age := now.Sub(lastActivity)

	active := latest.ActivelyWorking(now, time.Duration(s.cfg.ActiveWindow))
	switch {
	case active && age < time.Duration(s.cfg.ActiveWindow):
		return tasks.StatusInProgress
	case age > time.Duration(s.cfg.IdleDone):
		return tasks.StatusDone
	default:
		return tasks.StatusInbox
	}
}

func (s *Syncer) createTask(agent runtime.Agent, ref runtime.SessionRef, latest transcript.Latest, status tasks.Status, now time.Time) error {
	channel := ref.Provider
	if channel == "" {
		channel = "unknown"
	}
	createdAt := latest.UserAt
	if createdAt.IsZero() {
		createdAt = now
	}

	task := &tasks.Task{
		Title:       transcript.SynthesizeTitle(latest.UserText),
		Description: describeRequest(latest.UserText, channel),
		Status:      status,
		AssigneeID:  agent.ID,
		Priority:    "normal",
		CreatedAt:   createdAt,
		UpdatedAt:   now,
		Tags:        []string{channel, "auto"},
		Metadata: tasks.Metadata{
			SessionID:   ref.SessionID,
			AutoManaged: true,
			AgentID:     agent.ID,
			SourceText:  truncate(latest.UserText, 280),
		},
	}
	if status == tasks.StatusDone {
		task.CompletedAt = &now
	}
	return s.store.Create(task)
}

// reconcile applies the derived state to an existing auto-managed task and
// reports whether anything changed. The guarded transitions live here: a
// completed task is only resurrected by a genuinely new request.
func (s *Syncer) reconcile(task *tasks.Task, latest transcript.Latest, channel string, hasCandidate bool, derived tasks.Status, now time.Time) bool {
	titleChanged := false
	newTitle := ""
	if hasCandidate {
		newTitle = transcript.SynthesizeTitle(latest.UserText)
		titleChanged = newTitle != task.Title
	}

	changed := false

	if titleChanged {
		wasDone := task.Status == tasks.StatusDone
		task.Title = newTitle
		task.Description = describeRequest(latest.UserText, channel)
		task.Metadata.SourceText = truncate(latest.UserText, 280)
		changed = true

		// A brand-new request re-enters the queue at the front.
		next := derived
		if wasDone {
			next = tasks.StatusInbox
		}
		task.Transition(next, now)
	} else if derived != task.Status && task.AllowAutoTransition(derived, false) {
		task.Transition(derived, now)
		changed = true
	}

	if changed {
		task.UpdatedAt = now
	}
	return changed
}

// describeRequest builds the task description from the user's request,
// noting the originating channel when known.
func describeRequest(userText, channel string) string {
	desc := truncate(userText, 500)
	if channel != "" && channel != "unknown" {
		desc += "\n\nAuto-tracked session via " + channel
	}
	return desc
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
