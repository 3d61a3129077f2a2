// Package runtime talks to the agent runtime CLI and its on-disk state.
// The runtime is an external collaborator: everything it returns is treated
// as opaque JSON and picked apart tolerantly.
package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"missionctl/internal/cronplan"
)

// Agent is one entry of the runtime's agent roster.
type Agent struct {
	ID           string
	Name         string
	IdentityName string
}

// DisplayName prefers the agent's identity name over its config name.
func (a Agent) DisplayName() string {
	if a.IdentityName != "" {
		return a.IdentityName
	}
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// SessionRef is one live session from an agent's session index.
type SessionRef struct {
	Key         string
	SessionID   string
	SessionFile string
	UpdatedAt   time.Time
	Label       string
	Provider    string
}

// Client invokes the runtime CLI binary and reads its state directory.
type Client struct {
	bin      string
	stateDir string
}

func NewClient(bin, stateDir string) *Client {
	return &Client{bin: bin, stateDir: stateDir}
}

// ListAgents fetches the agent roster. Failure here is fatal to a sync
// pass: without the roster there is nothing to synchronize.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	out, err := c.run(ctx, "agents", "list", "--json")
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	var agents []Agent
	gjson.ParseBytes(out).ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id == "" {
			return true
		}
		agents = append(agents, Agent{
			ID:           id,
			Name:         item.Get("name").String(),
			IdentityName: item.Get("identityName").String(),
		})
		return true
	})
	return agents, nil
}

// ListCronJobs fetches the runtime's scheduled jobs. Records with unknown
// schedule kinds are kept so describe can degrade to the raw expression.
func (c *Client) ListCronJobs(ctx context.Context) ([]cronplan.Job, error) {
	out, err := c.run(ctx, "cron", "list", "--json")
	if err != nil {
		return nil, fmt.Errorf("list cron jobs: %w", err)
	}

	root := gjson.ParseBytes(out)
	list := root
	if !root.IsArray() {
		list = root.Get("jobs")
	}

	var jobs []cronplan.Job
	list.ForEach(func(_, item gjson.Result) bool {
		job := cronplan.Job{
			ID:      item.Get("id").String(),
			Name:    item.Get("name").String(),
			AgentID: item.Get("agentId").String(),
			Enabled: item.Get("enabled").Bool(),
		}
		sched := item.Get("schedule")
		job.Schedule = cronplan.Schedule{
			Kind:    cronplan.ScheduleKind(sched.Get("kind").String()),
			Expr:    sched.Get("expr").String(),
			TZ:      sched.Get("tz").String(),
			EveryMs: sched.Get("everyMs").Int(),
		}
		if at := sched.Get("at").Int(); at > 0 {
			job.Schedule.At = time.UnixMilli(at).UTC()
		}
		if next := item.Get("state.nextRunAtMs").Int(); next > 0 {
			job.NextRunAt = time.UnixMilli(next).UTC()
		}
		jobs = append(jobs, job)
		return true
	})
	return jobs, nil
}

// SessionIndex reads an agent's session index from disk. Keys marked as
// scheduled runs or sub-agent runs are excluded from the result.
func (c *Client) SessionIndex(agentID string) ([]SessionRef, error) {
	path := filepath.Join(c.stateDir, "agents", agentID, "sessions", "sessions.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session index: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("session index %s: invalid JSON", path)
	}

	var refs []SessionRef
	gjson.ParseBytes(data).ForEach(func(key, entry gjson.Result) bool {
		k := key.String()
		if strings.Contains(k, ":cron:") || strings.Contains(k, ":run:") {
			return true
		}
		sessionID := entry.Get("sessionId").String()
		if sessionID == "" {
			return true
		}
		ref := SessionRef{
			Key:         k,
			SessionID:   sessionID,
			SessionFile: entry.Get("sessionFile").String(),
			Label:       entry.Get("origin.label").String(),
			Provider:    entry.Get("origin.provider").String(),
		}
		if ms := entry.Get("updatedAt").Int(); ms > 0 {
			ref.UpdatedAt = time.UnixMilli(ms).UTC()
		}
		if ref.SessionFile == "" {
			ref.SessionFile = filepath.Join(c.stateDir, "agents", agentID, "sessions", sessionID+".jsonl")
		}
		refs = append(refs, ref)
		return true
	})
	return refs, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.bin, strings.Join(args, " "), err)
	}
	return out, nil
}
