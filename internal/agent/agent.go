package agent

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ragent-ai/ragent/conversation"
	"github.com/ragent-ai/ragent/internal/telemetry"
	"github.com/ragent-ai/ragent/provider"
	"github.com/ragent-ai/ragent/tools"
)

const systemInstruction = `You are a research assistant. Answer the user's request, using the available tools whenever they can supply information you lack. Use retrieve_information for questions about the local document corpus and cite the sources you rely on. If the request is unclear or missing details, ask the user instead of guessing.`

const retryInstruction = "Your previous answer was judged not helpful enough. Revise it and answer the original request again."

// Options tunes the turn driver.
type Options struct {
	MaxToolCycles int
	GateEnabled   bool
	GateMaxRounds int
}

// Agent runs conversation turns: reason/act loop, structured formatting,
// helpfulness gating, checkpointing, progress events.
type Agent struct {
	Store     conversation.Store
	Loop      *Loop
	Formatter *Formatter
	Gate      *Gate
	Metrics   *telemetry.Metrics
	Logger    *log.Logger
}

func New(p provider.Provider, registry *tools.Registry, store conversation.Store, opts Options, metrics *telemetry.Metrics) *Agent {
	logger := log.New(log.Writer(), "[AGENT] ", log.LstdFlags)
	return &Agent{
		Store: store,
		Loop: &Loop{
			Provider:  p,
			Tools:     registry,
			MaxCycles: opts.MaxToolCycles,
			Metrics:   metrics,
			Logger:    logger,
		},
		Formatter: &Formatter{Provider: p, Logger: logger},
		Gate: &Gate{
			Provider:  p,
			Enabled:   opts.GateEnabled,
			MaxRounds: opts.GateMaxRounds,
			Logger:    logger,
		},
		Metrics: metrics,
		Logger:  logger,
	}
}

// Run executes one turn for contextID. Turns on the same id queue behind
// each other; distinct ids run in parallel. The returned Response matches
// the final event delivered through emit.
func (a *Agent) Run(ctx context.Context, contextID, query string, emit EmitFunc) (Response, error) {
	if contextID == "" {
		contextID = uuid.NewString()
	}
	start := time.Now()
	release := a.Store.Begin(contextID)
	defer release()

	st, ok, err := a.Store.Load(ctx, contextID)
	if err != nil {
		a.Logger.Printf("loading conversation %s, starting fresh: %v", contextID, err)
	}
	if !ok {
		st = conversation.State{
			ID:       contextID,
			Messages: []provider.Message{{Role: "system", Content: systemInstruction}},
		}
	}
	st.Messages = append(st.Messages, provider.Message{Role: "user", Content: query})
	st.Iterations = 0

	var resp Response
	for {
		msgs, draft, capped, err := a.Loop.Run(ctx, st.Messages, emit)
		st.Messages = msgs
		if err != nil {
			resp = Response{Status: conversation.StatusError, Message: fallbackResponse}
			a.finish(ctx, &st, resp, start)
			_ = emit(finalEvent(resp))
			return resp, err
		}

		resp = a.Formatter.Format(ctx, query, draft)
		if capped && resp.Status == conversation.StatusCompleted {
			// A cap-forced finish is never a completed task: the model was
			// still mid-investigation when it was cut off.
			a.Logger.Printf("downgrading cap-forced finish for %s", contextID)
			resp.Status = conversation.StatusInputRequired
		}

		// Only completed answers face the gate; asking the user for more
		// input is not something to retry.
		if !a.Gate.Enabled || resp.Status != conversation.StatusCompleted {
			break
		}
		if st.Iterations >= a.Gate.MaxRounds {
			break // ceiling spent, forced acceptance
		}
		helpful, feedback := a.Gate.Evaluate(ctx, query, resp.Message)
		if helpful {
			break
		}
		st.Iterations++
		if a.Metrics != nil {
			a.Metrics.GateRejectionsTotal.Inc()
		}
		a.Logger.Printf("gate rejected draft for %s (round %d): %s", contextID, st.Iterations, feedback)
		if st.Iterations >= a.Gate.MaxRounds {
			break // last rejection sticks with the draft we have
		}

		retry := retryInstruction
		if feedback != "" {
			retry += " Reviewer notes: " + feedback
		}
		st.Messages = append(st.Messages, provider.Message{Role: "user", Content: retry})
	}

	a.finish(ctx, &st, resp, start)
	if err := emit(finalEvent(resp)); err != nil {
		return resp, err
	}
	return resp, nil
}

// Stream runs a turn, delivering events on the returned channel. The channel
// closes when the turn ends; ctx cancellation aborts delivery.
func (a *Agent) Stream(ctx context.Context, contextID, query string) <-chan Event {
	ch := make(chan Event, 8)
	go func() {
		defer close(ch)
		_, _ = a.Run(ctx, contextID, query, func(ev Event) error {
			select {
			case ch <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return ch
}

// Snapshot returns the stored state for id without taking the turn lock.
func (a *Agent) Snapshot(ctx context.Context, id string) (conversation.State, bool, error) {
	return a.Store.Load(ctx, id)
}

func (a *Agent) finish(ctx context.Context, st *conversation.State, resp Response, start time.Time) {
	st.Status = resp.Status
	st.UpdatedAt = time.Now()
	if err := a.Store.Save(ctx, *st); err != nil {
		a.Logger.Printf("saving conversation %s: %v", st.ID, err)
	}
	if a.Metrics != nil {
		a.Metrics.TurnsTotal.WithLabelValues(string(resp.Status)).Inc()
		a.Metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}
}
