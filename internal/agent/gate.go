package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ragent-ai/ragent/provider"
)

const judgePrompt = `You are a strict evaluator. Decide whether the assistant's answer below is genuinely helpful for the user's request: it addresses what was asked, is specific, and does not dodge the question.
Reply with a single "Y" or "N" on the first line. If "N", state on the following lines what is missing.

USER REQUEST:
%s

ASSISTANT ANSWER:
%s`

// Gate is the helpfulness check applied to completed drafts. A draft can be
// sent back to the loop at most MaxRounds times; after that the last draft
// is accepted as-is.
type Gate struct {
	Provider  provider.Provider
	Enabled   bool
	MaxRounds int
	Logger    *log.Logger
}

// Evaluate returns whether the answer passes, plus reviewer feedback when it
// does not. A failing judge accepts the answer: the gate improves quality,
// it must never block a turn.
func (g *Gate) Evaluate(ctx context.Context, query, answer string) (bool, string) {
	raw, err := g.Provider.Complete(ctx, fmt.Sprintf(judgePrompt, query, answer))
	if err != nil {
		g.Logger.Printf("helpfulness check failed, accepting answer: %v", err)
		return true, ""
	}

	verdict, feedback, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	switch strings.ToUpper(strings.TrimSpace(verdict)) {
	case "N":
		return false, strings.TrimSpace(feedback)
	case "Y":
		return true, ""
	default:
		g.Logger.Printf("unparseable helpfulness verdict %q, accepting answer", verdict)
		return true, ""
	}
}
