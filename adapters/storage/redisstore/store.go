// Package redisstore persists the whole collection as one JSON blob under a
// single namespaced key, with read-modify-write on every mutation. It mirrors
// a browser key-value store: no partial updates at the storage-engine level,
// and the store's size ceiling is the caller's problem.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lokali/domain"
	"lokali/ports"
)

const defaultPrefix = "lokali"

type Store struct {
	client redis.UniversalClient
	prefix string
}

// New wraps an injected Redis client. The client's lifecycle is managed by
// the caller. An empty prefix falls back to "lokali".
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key() string { return s.prefix + ":records" }

func (s *Store) Load(ctx context.Context) ([]*domain.Record, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	var records []*domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: corrupt payload: %v", domain.ErrStorage, err)
	}
	return records, nil
}

func (s *Store) Save(ctx context.Context, records []*domain.Record) error {
	if records == nil {
		records = []*domain.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if err := s.client.Set(ctx, s.key(), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, r *domain.Record) (*domain.Record, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	stored := r.Clone()
	stored.ID = uuid.NewString()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	records = append(records, stored)
	if err := s.Save(ctx, records); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Patch) (*domain.Record, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			domain.ApplyPatch(r, p, time.Now().UTC())
			if err := s.Save(ctx, records); err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i, r := range records {
		if r.ID == id {
			return s.Save(ctx, append(records[:i], records[i+1:]...))
		}
	}
	return nil
}

var _ ports.Storage = (*Store)(nil)
