package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// Latest is what task synthesis needs from a transcript: the newest user
// request and the newest assistant activity.
type Latest struct {
	UserText string
	UserAt   time.Time
	HasUser  bool

	AssistantAt      time.Time
	AssistantPending bool // newest assistant event carries a tool-call marker
	HasAssistant     bool
}

// ActivelyWorking reports whether the agent looks busy right now: its last
// assistant event is within window of now, or still has a tool call pending.
func (l Latest) ActivelyWorking(now time.Time, window time.Duration) bool {
	if !l.HasAssistant {
		return false
	}
	return now.Sub(l.AssistantAt) < window || l.AssistantPending
}

// ScanLatest reads the transcript at path and walks it newest-first,
// stopping as soon as both a user message with extractable text and an
// assistant message have been seen. Malformed lines are skipped.
func (e *Extractor) ScanLatest(path string) (Latest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Latest{}, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return e.scanLatest(f)
}

func (e *Extractor) scanLatest(r io.Reader) (Latest, error) {
	scanner := bufio.NewScanner(r)
	// Transcript lines can carry whole instruction blocks.
	const maxCapacity = 8 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	var lines [][]byte
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return Latest{}, fmt.Errorf("scan transcript: %w", err)
	}

	var latest Latest
	for i := len(lines) - 1; i >= 0; i-- {
		ev, ok := parseEvent(lines[i])
		if !ok {
			continue
		}
		switch ev.Role {
		case "assistant":
			if !latest.HasAssistant {
				latest.HasAssistant = true
				latest.AssistantAt = ev.Timestamp
				latest.AssistantPending = ev.PendingTool
			}
		case "user":
			if latest.HasUser {
				continue
			}
			text := e.UserText(ev.Text)
			if text == "" {
				continue
			}
			latest.HasUser = true
			latest.UserText = text
			latest.UserAt = ev.Timestamp
		}
		if latest.HasUser && latest.HasAssistant {
			break
		}
	}
	return latest, nil
}
