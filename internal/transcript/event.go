package transcript

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Event is one decoded transcript line. Transcripts are written by the
// agent runtime and treated as opaque JSONL; only the fields needed for
// task synthesis are pulled out.
type Event struct {
	Role        string
	Text        string
	PendingTool bool
	Timestamp   time.Time
}

// parseEvent decodes a single transcript line. Returns false for lines
// that are not valid JSON or carry no role (dividers, runtime bookkeeping).
func parseEvent(line []byte) (Event, bool) {
	if !gjson.ValidBytes(line) {
		return Event{}, false
	}
	root := gjson.ParseBytes(line)

	// Lines are either flat {"role":...} records or wrapped
	// {"type":"message","message":{...}} records.
	msg := root.Get("message")
	if !msg.Exists() {
		msg = root
	}

	role := msg.Get("role").String()
	if role == "" {
		return Event{}, false
	}

	ev := Event{Role: role}
	ev.Text, ev.PendingTool = decodeContent(msg.Get("content"))
	if !ev.PendingTool && msg.Get("tool_calls.#").Int() > 0 {
		ev.PendingTool = true
	}

	for _, ts := range []gjson.Result{msg.Get("timestamp"), root.Get("timestamp")} {
		if t, ok := decodeTimestamp(ts); ok {
			ev.Timestamp = t
			break
		}
	}

	return ev, true
}

// decodeContent flattens a content value (plain string or a list of parts)
// into text, and reports whether any part is a tool-call marker.
func decodeContent(content gjson.Result) (string, bool) {
	if content.Type == gjson.String {
		return content.String(), false
	}
	if !content.IsArray() {
		return "", false
	}

	var b strings.Builder
	pending := false
	content.ForEach(func(_, part gjson.Result) bool {
		switch part.Get("type").String() {
		case "text":
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(part.Get("text").String())
		case "toolCall", "tool_call", "tool_use":
			pending = true
		}
		return true
	})
	return b.String(), pending
}

func decodeTimestamp(ts gjson.Result) (time.Time, bool) {
	switch ts.Type {
	case gjson.Number:
		ms := ts.Int()
		if ms == 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	case gjson.String:
		if t, err := time.Parse(time.RFC3339, ts.String()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
