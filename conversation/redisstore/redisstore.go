package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/ragent-ai/ragent/conversation"
)

// Store persists checkpoints as JSON blobs in Redis. Begin's serialization is
// process-local; a multi-instance deployment needs sticky routing per
// conversation id. The lock map holds one entry per id seen this process and
// is never swept; a lock is a bare mutex, so this only matters for very
// large id churn.
type Store struct {
	client *redis.Client

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		locks: make(map[string]*sync.Mutex),
	}
}

// Ping verifies the connection at startup.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func key(id string) string { return "conversation:" + id }

func (s *Store) Begin(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *Store) Load(ctx context.Context, id string) (conversation.State, bool, error) {
	val, err := s.client.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return conversation.State{}, false, nil
	}
	if err != nil {
		return conversation.State{}, false, fmt.Errorf("loading conversation %s: %w", id, err)
	}
	var st conversation.State
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return conversation.State{}, false, fmt.Errorf("decoding conversation %s: %w", id, err)
	}
	return st, true, nil
}

func (s *Store) Save(ctx context.Context, state conversation.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding conversation %s: %w", state.ID, err)
	}
	if err := s.client.Set(ctx, key(state.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("saving conversation %s: %w", state.ID, err)
	}
	return nil
}
