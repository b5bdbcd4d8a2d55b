package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// Outcome is the result of validating one model entry: a candidate, or a drop with its reason
type Outcome struct {
	Candidate entities.Candidate
	Dropped   bool
	Reason    string
}

func accepted(c entities.Candidate) Outcome { return Outcome{Candidate: c} }

func rejected(format string, args ...any) Outcome {
	return Outcome{Dropped: true, Reason: fmt.Sprintf(format, args...)}
}

// ParseResponse converts raw model output into per-entry outcomes. Entries are
// validated one by one; a malformed entry is dropped without affecting the rest.
// Output that is not JSON at all yields a single dropped outcome.
func ParseResponse(content string) []Outcome {
	entries, err := decodeEntries(content)
	if err != nil {
		return []Outcome{rejected("%v", err)}
	}

	outcomes := make([]Outcome, 0, len(entries))
	for i, raw := range entries {
		outcomes = append(outcomes, parseEntry(i, raw))
	}
	return outcomes
}

func decodeEntries(content string) ([]json.RawMessage, error) {
	content = extractJSON(content)
	if content == "" {
		return nil, fmt.Errorf("empty model response")
	}
	if !json.Valid([]byte(content)) {
		content = outermostJSON(content)
		if content == "" || !json.Valid([]byte(content)) {
			return nil, fmt.Errorf("model response is not valid JSON")
		}
	}

	data := []byte(content)
	switch data[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode action item list: %w", err)
		}
		return entries, nil
	case '{':
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode response object: %w", err)
		}
		for _, key := range []string{"action_items", "actionItems", "items"} {
			raw, found := doc[key]
			if !found {
				continue
			}
			if isNull(raw) {
				return nil, nil
			}
			var entries []json.RawMessage
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, fmt.Errorf("%s is not a list", key)
			}
			return entries, nil
		}
		// a bare item without the wrapper
		if _, found := doc["task"]; found {
			return []json.RawMessage{data}, nil
		}
		return nil, fmt.Errorf("response has no action_items field")
	}
	return nil, fmt.Errorf("model response is not a JSON object or list")
}

func parseEntry(index int, raw json.RawMessage) Outcome {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return rejected("entry %d: not an object", index)
	}

	task, present, err := stringField(fields, "task")
	if err != nil {
		return rejected("entry %d: %v", index, err)
	}
	task = strings.TrimSpace(task)
	if !present || task == "" {
		return rejected("entry %d: missing task", index)
	}

	assignee, _, err := stringField(fields, "assignee")
	if err != nil {
		return rejected("entry %d: %v", index, err)
	}
	assignee = strings.TrimSpace(assignee)
	if assignee == "" || strings.EqualFold(assignee, entities.DefaultAssignee) {
		assignee = entities.DefaultAssignee
	}

	priorityText, _, err := stringField(fields, "priority")
	if err != nil {
		return rejected("entry %d: %v", index, err)
	}
	priority, err := entities.ParsePriority(priorityText)
	if err != nil {
		priority = entities.PriorityMedium
	}

	deadlineText, _, err := stringField(fields, "deadline")
	if err != nil {
		return rejected("entry %d: %v", index, err)
	}

	// context is free text, a non-string value is ignored
	meetingContext, _, _ := stringField(fields, "context")
	meetingContext = strings.TrimSpace(meetingContext)

	deadline, err := entities.ParseDeadline(deadlineText)
	if err != nil {
		note := "Deadline: " + strings.TrimSpace(deadlineText)
		if meetingContext == "" {
			meetingContext = note
		} else {
			meetingContext = meetingContext + "\n" + note
		}
	}

	return accepted(entities.Candidate{
		Task:     task,
		Assignee: assignee,
		Deadline: deadline,
		Priority: priority,
		Context:  meetingContext,
	})
}

// stringField reads an optional string. Absent and null are not errors.
func stringField(fields map[string]json.RawMessage, key string) (string, bool, error) {
	raw, found := fields[key]
	if !found || isNull(raw) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", true, fmt.Errorf("%s is not a string", key)
	}
	return s, true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx != -1 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end != -1 {
			content = content[:end]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// outermostJSON cuts the text between the first opening and last closing bracket
func outermostJSON(content string) string {
	start := strings.IndexAny(content, "{[")
	if start == -1 {
		return ""
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end <= start {
		return ""
	}
	return content[start : end+1]
}
