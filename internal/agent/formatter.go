package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ragent-ai/ragent/conversation"
	"github.com/ragent-ai/ragent/provider"
)

const formatInstruction = `You classify an assistant's reply to a user request. Respond ONLY with a JSON object: {"status": "...", "message": "..."}.
- "completed": the request was fulfilled; message carries the final answer text.
- "input_required": more information is needed from the user; message carries the question for them.
- "error": the request could not be processed; message explains briefly.
Do not include any other text.`

// Formatter turns the loop's draft into a structured response. It never
// fails a turn: unusable model output degrades to a needs-input response
// with the fixed fallback text.
type Formatter struct {
	Provider provider.Provider
	Logger   *log.Logger
}

func (f *Formatter) Format(ctx context.Context, query, draft string) Response {
	if strings.TrimSpace(draft) == "" {
		return Response{Status: conversation.StatusInputRequired, Message: fallbackResponse}
	}

	raw, err := f.Provider.CompleteJSON(ctx, formatInstruction,
		fmt.Sprintf("USER REQUEST:\n%s\n\nASSISTANT REPLY:\n%s", query, draft))
	if err != nil {
		f.Logger.Printf("response formatting failed: %v", err)
		return Response{Status: conversation.StatusInputRequired, Message: fallbackResponse}
	}

	var parsed struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(extractFirstJSON(raw)), &parsed); err != nil {
		f.Logger.Printf("unparseable formatter output %q: %v", raw, err)
		return Response{Status: conversation.StatusInputRequired, Message: fallbackResponse}
	}

	status := conversation.Status(parsed.Status)
	switch status {
	case conversation.StatusCompleted, conversation.StatusInputRequired, conversation.StatusError:
	default:
		f.Logger.Printf("formatter produced unknown status %q", parsed.Status)
		return Response{Status: conversation.StatusInputRequired, Message: fallbackResponse}
	}

	msg := strings.TrimSpace(parsed.Message)
	if msg == "" {
		msg = draft
	}
	return Response{Status: status, Message: msg}
}
