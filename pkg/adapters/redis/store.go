// Package redis stores submissions in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/pagedform/pkg/domain"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "pagedform:submission:"

// Store implements ports.SubmissionStore using Redis.
//
// Each submission is a JSON string written with SETNX. Sorted sets indexed by
// creation time list submissions per form and globally; entries whose
// document has expired are pruned lazily on List.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for submissions. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey(form string) string {
	if form == "" {
		return s.prefix + "index"
	}
	return s.prefix + "index:" + form
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Save persists the submission unless its ID is already taken.
func (s *Store) Save(ctx context.Context, sub *domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	created, err := s.client.SetNX(ctx, s.key(sub.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	if !created {
		return domain.ErrSubmissionExists
	}

	score := float64(sub.CreatedAt.UnixMilli())
	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, s.indexKey(""), backend.Z{Score: score, Member: sub.ID})
	if sub.Form != "" {
		pipe.ZAdd(ctx, s.indexKey(sub.Form), backend.Z{Score: score, Member: sub.ID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index submission: %w", err)
	}
	return nil
}

// Load retrieves a submission.
func (s *Store) Load(ctx context.Context, id string) (*domain.Submission, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var sub domain.Submission
	if err := json.Unmarshal([]byte(val), &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &sub, nil
}

// Delete removes the submission and its index entries.
func (s *Store) Delete(ctx context.Context, id string) error {
	sub, err := s.Load(ctx, id)
	if errors.Is(err, domain.ErrSubmissionNotFound) {
		return s.client.ZRem(ctx, s.indexKey(""), id).Err()
	}
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(""), id)
	if sub.Form != "" {
		pipe.ZRem(ctx, s.indexKey(sub.Form), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// List returns the IDs of form, oldest first. Index entries whose document
// has expired are removed on the way.
func (s *Store) List(ctx context.Context, form string) ([]string, error) {
	index := s.indexKey(form)
	ids, err := s.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if len(ids) == 0 {
		return []string{}, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check submissions: %w", err)
	}

	live := make([]string, 0, len(ids))
	var stale []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, index, stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired submissions: %w", err)
		}
	}
	return live, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
