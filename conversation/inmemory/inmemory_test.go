package inmemory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ragent-ai/ragent/conversation"
	"github.com/ragent-ai/ragent/provider"
)

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_, ok, err := s.Load(context.Background(), "nope")
	if err != nil || ok {
		t.Fatalf("Load missing = ok:%v err:%v", ok, err)
	}
}

func TestSaveLoadIsolation(t *testing.T) {
	t.Parallel()
	s := NewStore()
	st := conversation.State{
		ID:       "c1",
		Messages: []provider.Message{{Role: "user", Content: "hi"}},
		Status:   conversation.StatusCompleted,
	}
	if err := s.Save(context.Background(), st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's slice after Save must not leak into the store.
	st.Messages[0].Content = "mutated"

	got, ok, err := s.Load(context.Background(), "c1")
	if err != nil || !ok {
		t.Fatalf("Load: ok:%v err:%v", ok, err)
	}
	if got.Messages[0].Content != "hi" {
		t.Fatalf("stored state shares memory with caller: %q", got.Messages[0].Content)
	}

	// Mutating a loaded copy must not change the next load.
	got.Messages[0].Content = "mutated"
	again, _, _ := s.Load(context.Background(), "c1")
	if again.Messages[0].Content != "hi" {
		t.Fatal("loaded state shares memory with store")
	}
}

func TestDistinctIDsAreIndependent(t *testing.T) {
	t.Parallel()
	s := NewStore()
	_ = s.Save(context.Background(), conversation.State{ID: "a", Status: conversation.StatusCompleted})
	_ = s.Save(context.Background(), conversation.State{ID: "b", Status: conversation.StatusError})

	a, _, _ := s.Load(context.Background(), "a")
	b, _, _ := s.Load(context.Background(), "b")
	if a.Status == b.Status {
		t.Fatalf("states bled across ids: %v / %v", a.Status, b.Status)
	}
}

func TestBeginSerializesSameID(t *testing.T) {
	t.Parallel()
	s := NewStore()

	release := s.Begin("c1")
	acquired := make(chan struct{})
	go func() {
		r := s.Begin("c1")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second Begin acquired while first held")
	case <-time.After(50 * time.Millisecond):
	}
	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Begin never acquired after release")
	}
}

func TestBeginDistinctIDsDoNotBlock(t *testing.T) {
	t.Parallel()
	s := NewStore()
	release := s.Begin("a")
	defer release()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r := s.Begin("b")
		r()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Begin on a distinct id blocked")
	}
	wg.Wait()
}
