package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"anoa.com/vxrank/internal/entity"
	"anoa.com/vxrank/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// PendingVerification is an accepted AI verdict waiting for the rider to
// confirm it.
type PendingVerification struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Sport     entity.Sport `json:"sport"`
	Rank      entity.Rank  `json:"rank"`
	TrickName string       `json:"trick_name"`
	Verdict   TrickVerdict `json:"verdict"`
	Clip      entity.Clip  `json:"clip"`
	CreatedAt time.Time    `json:"created_at"`
}

// PendingStore parks verdicts between verify and confirm.
type PendingStore interface {
	Save(ctx context.Context, p PendingVerification, ttl time.Duration) error
	Get(ctx context.Context, username, id string) (PendingVerification, error)
	// Take returns and removes the entry; a second Take of the same entry
	// fails with ErrNoPendingVerification.
	Take(ctx context.Context, username, id string) (PendingVerification, error)
}

func pendingKey(username, id string) string {
	return fmt.Sprintf("verification:pending:%s:%s", username, id)
}

type redisPendingStore struct {
	rdb *redis.Client
}

func NewRedisPendingStore(rdb *redis.Client) PendingStore {
	return &redisPendingStore{rdb: rdb}
}

func (s *redisPendingStore) Save(ctx context.Context, p PendingVerification, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, pendingKey(p.Username, p.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending verification: %w", err)
	}
	return nil
}

func (s *redisPendingStore) Get(ctx context.Context, username, id string) (PendingVerification, error) {
	return s.read(s.rdb.Get(ctx, pendingKey(username, id)))
}

func (s *redisPendingStore) Take(ctx context.Context, username, id string) (PendingVerification, error) {
	return s.read(s.rdb.GetDel(ctx, pendingKey(username, id)))
}

func (s *redisPendingStore) read(cmd *redis.StringCmd) (PendingVerification, error) {
	var p PendingVerification
	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return p, apperror.ErrNoPendingVerification
	}
	if err != nil {
		return p, fmt.Errorf("failed to read pending verification: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}

type memoryEntry struct {
	p         PendingVerification
	expiresAt time.Time
}

type memoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryPendingStore keeps pending verdicts in process. It serves local
// runs without redis.
func NewMemoryPendingStore(now func() time.Time) PendingStore {
	if now == nil {
		now = time.Now
	}
	return &memoryPendingStore{entries: make(map[string]memoryEntry), now: now}
}

func (s *memoryPendingStore) Save(ctx context.Context, p PendingVerification, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[pendingKey(p.Username, p.ID)] = memoryEntry{p: p, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memoryPendingStore) Get(ctx context.Context, username, id string) (PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(pendingKey(username, id))
}

func (s *memoryPendingStore) Take(ctx context.Context, username, id string) (PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pendingKey(username, id)
	p, err := s.lookup(key)
	if err == nil {
		delete(s.entries, key)
	}
	return p, err
}

func (s *memoryPendingStore) lookup(key string) (PendingVerification, error) {
	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return PendingVerification{}, apperror.ErrNoPendingVerification
	}
	return e.p, nil
}
