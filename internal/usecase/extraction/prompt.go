package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// wireResponse is the document the model is asked to return
type wireResponse struct {
	ActionItems []wireItem `json:"action_items" jsonschema:"required,description=Every action item found in the transcript"`
}

type wireItem struct {
	Task     string  `json:"task" jsonschema:"required,description=What needs to be done"`
	Assignee string  `json:"assignee" jsonschema:"description=Person responsible or Unassigned when nobody was named"`
	Deadline *string `json:"deadline" jsonschema:"description=Due date as YYYY-MM-DD or null when none was mentioned"`
	Priority string  `json:"priority" jsonschema:"enum=Low,enum=Medium,enum=High"`
	Context  string  `json:"context,omitempty" jsonschema:"description=Short quote or context from the meeting"`
}

var responseSchema = sync.OnceValue(func() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	b, err := json.MarshalIndent(reflector.Reflect(&wireResponse{}), "", "  ")
	if err != nil {
		// static type, cannot fail
		panic(err)
	}
	return string(b)
})

// ResponseSchema returns the JSON schema the model output must follow
func ResponseSchema() string {
	return responseSchema()
}

// SystemPrompt fixes the output contract of the model
func SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You extract action items from meeting transcripts.\n")
	sb.WriteString("An action item is a task, follow-up or decision that requires someone to act. ")
	sb.WriteString("Be thorough and include minor or delegated tasks.\n\n")
	sb.WriteString("For each action item identify the task description, the person responsible, ")
	sb.WriteString("any deadline mentioned and a priority of High, Medium or Low.\n")
	sb.WriteString("Use \"Unassigned\" when nobody is responsible and null when there is no deadline. ")
	sb.WriteString("Write deadlines as YYYY-MM-DD when a date can be determined.\n\n")
	sb.WriteString("Respond with a single JSON object and nothing else. It must validate against this schema:\n")
	sb.WriteString(ResponseSchema())
	return sb.String()
}

// UserPrompt wraps one transcript chunk
func UserPrompt(chunk string, index, total int, meetingID string) string {
	var sb strings.Builder
	if meetingID != "" {
		fmt.Fprintf(&sb, "Meeting: %s\n", meetingID)
	}
	if total > 1 {
		fmt.Fprintf(&sb, "Transcript part %d of %d. Extract only the items found in this part.\n", index+1, total)
	}
	sb.WriteString("Transcript:\n")
	sb.WriteString(chunk)
	return sb.String()
}
