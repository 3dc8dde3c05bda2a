package agent

import "github.com/ragent-ai/ragent/conversation"

// Event is one progress or final payload streamed to the caller during a
// turn. Exactly one event per turn has IsTaskComplete or RequireUserInput
// set; everything before it is progress.
type Event struct {
	IsTaskComplete   bool   `json:"is_task_complete"`
	RequireUserInput bool   `json:"require_user_input"`
	Content          string `json:"content"`
}

// EmitFunc delivers events to the caller. Returning an error aborts the turn.
type EmitFunc func(Event) error

// Response is the structured outcome of a turn.
type Response struct {
	Status  conversation.Status `json:"status"`
	Message string              `json:"message"`
}

const (
	progressSearching  = "Searching for information..."
	progressProcessing = "Processing the results..."
	fallbackResponse   = "We are unable to process your request at the moment. Please try again."
)

func finalEvent(r Response) Event {
	if r.Status == conversation.StatusCompleted {
		return Event{IsTaskComplete: true, Content: r.Message}
	}
	return Event{RequireUserInput: true, Content: r.Message}
}
