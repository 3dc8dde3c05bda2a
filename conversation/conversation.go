package conversation

import (
	"context"
	"time"

	"github.com/ragent-ai/ragent/provider"
)

// Status is the outcome of the most recent turn.
type Status string

const (
	StatusInputRequired Status = "input_required"
	StatusCompleted     Status = "completed"
	StatusError         Status = "error"
)

// State is the full checkpoint for one conversation id: the transcript plus
// turn bookkeeping. It round-trips through JSON for durable stores.
type State struct {
	ID         string             `json:"id"`
	Messages   []provider.Message `json:"messages"`
	Status     Status             `json:"status"`
	Iterations int                `json:"iterations"` // helpfulness retries spent on the last turn
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Clone returns a copy whose message slice is independent of the original.
func (s State) Clone() State {
	out := s
	out.Messages = make([]provider.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

// Store persists conversation checkpoints. Begin serializes turns per id:
// it blocks until the id is free and returns the release func. Distinct ids
// never contend.
type Store interface {
	Begin(id string) (release func())
	Load(ctx context.Context, id string) (State, bool, error)
	Save(ctx context.Context, state State) error
}
