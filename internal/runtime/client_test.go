package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"missionctl/internal/cronplan"
)

// fakeCLI writes a shell script that prints the given JSON for any args.
func fakeCLI(t *testing.T, stdout string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakecli")
	script := "#!/bin/sh\ncat <<'EOF'\n" + stdout + "\nEOF\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake cli: %v", err)
	}
	return path
}

func TestListAgents(t *testing.T) {
	bin := fakeCLI(t, `[
		{"id":"devbot","name":"DevBot","identityName":"Dev"},
		{"id":"mailbot"},
		{"name":"no id, skipped"}
	]`)
	c := NewClient(bin, t.TempDir())

	agents, err := c.ListAgents(context.Background())
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(agents))
	}
	if agents[0].DisplayName() != "Dev" {
		t.Errorf("display name = %q", agents[0].DisplayName())
	}
	if agents[1].DisplayName() != "mailbot" {
		t.Errorf("display name fallback = %q", agents[1].DisplayName())
	}
}

func TestListAgentsMissingBinary(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	if _, err := c.ListAgents(context.Background()); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestListCronJobs(t *testing.T) {
	bin := fakeCLI(t, `{"jobs":[
		{"id":"j1","name":"morning brief","agentId":"lead","enabled":true,
		 "schedule":{"kind":"cron","expr":"0 8 * * 1-5","tz":"Australia/Sydney"},
		 "state":{"nextRunAtMs":1767225600000}},
		{"id":"j2","name":"heartbeat","enabled":true,
		 "schedule":{"kind":"interval","everyMs":300000}},
		{"id":"j3","name":"reminder","enabled":false,
		 "schedule":{"kind":"at","at":1767225600000}}
	]}`)
	c := NewClient(bin, t.TempDir())

	jobs, err := c.ListCronJobs(context.Background())
	if err != nil {
		t.Fatalf("ListCronJobs: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	if jobs[0].Schedule.Kind != cronplan.KindCron || jobs[0].Schedule.Expr != "0 8 * * 1-5" {
		t.Errorf("job 1 schedule = %+v", jobs[0].Schedule)
	}
	if jobs[0].Schedule.TZ != "Australia/Sydney" {
		t.Errorf("job 1 tz = %q", jobs[0].Schedule.TZ)
	}
	if jobs[0].NextRunAt.IsZero() {
		t.Error("job 1 next run missing")
	}
	if jobs[1].Schedule.Kind != cronplan.KindInterval || jobs[1].Schedule.EveryMs != 300000 {
		t.Errorf("job 2 schedule = %+v", jobs[1].Schedule)
	}
	if jobs[2].Schedule.At.IsZero() {
		t.Error("job 3 at missing")
	}
}

func TestSessionIndex(t *testing.T) {
	stateDir := t.TempDir()
	dir := filepath.Join(stateDir, "agents", "devbot", "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	updatedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	index := `{
		"agent:devbot:telegram": {"sessionId":"sess-1","sessionFile":"/tmp/sess-1.jsonl",
			"updatedAt":` + itoa(updatedAt.UnixMilli()) + `,
			"origin":{"label":"Bob","provider":"telegram"}},
		"agent:devbot:cron:abc": {"sessionId":"sess-cron"},
		"agent:devbot:run:42": {"sessionId":"sess-run"},
		"agent:devbot:discord": {"sessionId":"sess-2"},
		"agent:devbot:empty": {}
	}`
	if err := os.WriteFile(filepath.Join(dir, "sessions.json"), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewClient("unused", stateDir)
	refs, err := c.SessionIndex("devbot")
	if err != nil {
		t.Fatalf("SessionIndex: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs (cron/run/empty excluded), got %d", len(refs))
	}

	byID := map[string]SessionRef{}
	for _, r := range refs {
		byID[r.SessionID] = r
	}
	main := byID["sess-1"]
	if main.SessionFile != "/tmp/sess-1.jsonl" || main.Provider != "telegram" || main.Label != "Bob" {
		t.Errorf("ref = %+v", main)
	}
	if !main.UpdatedAt.Equal(updatedAt) {
		t.Errorf("updatedAt = %v", main.UpdatedAt)
	}

	// A ref without an explicit file falls back to the conventional path.
	other := byID["sess-2"]
	want := filepath.Join(stateDir, "agents", "devbot", "sessions", "sess-2.jsonl")
	if other.SessionFile != want {
		t.Errorf("session file = %q, want %q", other.SessionFile, want)
	}
}

func TestSessionIndexMissing(t *testing.T) {
	c := NewClient("unused", t.TempDir())
	if _, err := c.SessionIndex("ghost"); err == nil {
		t.Fatal("expected error for missing index")
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
