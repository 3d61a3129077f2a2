package config

import "time"

// Config is the top-level configuration
type Config struct {
	Runtime RuntimeConfig `json:"runtime"`
	Store   StoreConfig   `json:"store"`
	Sync    SyncConfig    `json:"sync"`
	Web     WebConfig     `json:"web"`
}

// RuntimeConfig locates the agent runtime CLI and its on-disk state.
type RuntimeConfig struct {
	Bin      string `json:"bin"`      // runtime CLI binary, e.g. "openclaw"
	StateDir string `json:"stateDir"` // root of per-agent state
}

type StoreConfig struct {
	Path string `json:"path"` // sqlite database file
}

// SyncConfig tunes the session-to-task synchronizer.
type SyncConfig struct {
	// ChannelTags are the bracketed channel names recognized when
	// extracting user text from transcripts.
	ChannelTags []string `json:"channelTags"`
	// Schedule is the 5-field cron cadence of the background sync pass.
	Schedule string `json:"schedule"`
	// ActiveWindow: an assistant event younger than this means the agent
	// is working right now.
	ActiveWindow Duration `json:"activeWindow"`
	// IdleDone: a session idle longer than this is considered finished.
	IdleDone Duration `json:"idleDone"`
	// Freshness: user messages older than this never create new tasks.
	Freshness Duration `json:"freshness"`
}

type WebConfig struct {
	Listen string `json:"listen"`
}

// Duration is a time.Duration that marshals as a string like "10m".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Bin:      "openclaw",
			StateDir: "~/.openclaw",
		},
		Store: StoreConfig{
			Path: "~/.missionctl/tasks.db",
		},
		Sync: SyncConfig{
			ChannelTags:  []string{"Telegram", "Signal", "Discord", "WhatsApp", "Slack", "iMessage"},
			Schedule:     "*/5 * * * *",
			ActiveWindow: Duration(60 * time.Second),
			IdleDone:     Duration(10 * time.Minute),
			Freshness:    Duration(24 * time.Hour),
		},
		Web: WebConfig{
			Listen: "127.0.0.1:7717",
		},
	}
}
