package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/sourcegraph/conc/iter"

	"github.com/ragent-ai/ragent/internal/telemetry"
	"github.com/ragent-ai/ragent/provider"
	"github.com/ragent-ai/ragent/tools"
)

// Loop drives reason/act cycles: one model call per cycle, tool calls
// executed in parallel, results appended in the order the model emitted the
// calls. It ends when the model answers without tool calls or the cycle cap
// is hit, whichever comes first.
type Loop struct {
	Provider  provider.Provider
	Tools     *tools.Registry
	MaxCycles int
	Metrics   *telemetry.Metrics
	Logger    *log.Logger
}

// Run returns the grown transcript, the model's final draft text, and
// whether the cycle cap forced the finish. On overflow the draft is whatever
// text the model last produced, possibly empty; the caller must not surface
// a capped turn as completed.
func (l *Loop) Run(ctx context.Context, messages []provider.Message, emit EmitFunc) ([]provider.Message, string, bool, error) {
	msgs := messages
	lastText := ""
	for cycle := 0; cycle < l.MaxCycles; cycle++ {
		turn, err := l.Provider.ChatWithTools(ctx, msgs, l.Tools.Specs())
		if l.Metrics != nil {
			l.Metrics.ModelCallsTotal.Inc()
		}
		if err != nil {
			return msgs, "", false, fmt.Errorf("reasoning step: %w", err)
		}

		msgs = append(msgs, provider.Message{
			Role:      "assistant",
			Content:   turn.Text,
			ToolCalls: turn.ToolCalls,
		})
		if turn.Text != "" {
			lastText = turn.Text
		}
		if len(turn.ToolCalls) == 0 {
			return msgs, turn.Text, false, nil
		}

		if err := emit(Event{Content: progressSearching}); err != nil {
			return msgs, "", false, err
		}

		results := make([]string, len(turn.ToolCalls))
		iter.ForEachIdx(turn.ToolCalls, func(i int, call *provider.ToolCall) {
			if l.Metrics != nil {
				l.Metrics.ToolCallsTotal.WithLabelValues(call.Name).Inc()
			}
			results[i] = l.Tools.Dispatch(ctx, *call)
		})

		// Results attach in emission order, each addressed to its call id.
		for i, call := range turn.ToolCalls {
			msgs = append(msgs, provider.Message{
				Role:       "tool",
				Content:    results[i],
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}

		if err := emit(Event{Content: progressProcessing}); err != nil {
			return msgs, "", false, err
		}
	}

	l.Logger.Printf("tool cycle cap %d reached, forcing finish", l.MaxCycles)
	return msgs, lastText, true, nil
}
