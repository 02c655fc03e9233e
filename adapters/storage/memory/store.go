// Package memory is the process-local storage backend, used for tests and
// ephemeral sessions. Nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"lokali/domain"
	"lokali/ports"
)

type Store struct {
	mu      sync.Mutex
	records []*domain.Record
}

func New() *Store { return &Store{} }

func (s *Store) Load(_ context.Context) ([]*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *Store) Save(_ context.Context, records []*domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]*domain.Record, len(records))
	for i, r := range records {
		s.records[i] = r.Clone()
	}
	return nil
}

func (s *Store) Create(_ context.Context, r *domain.Record) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := r.Clone()
	stored.ID = uuid.NewString()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.records = append(s.records, stored)
	return stored.Clone(), nil
}

func (s *Store) Update(_ context.Context, id string, p domain.Patch) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			domain.ApplyPatch(r, p, time.Now().UTC())
			return r.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ ports.Storage = (*Store)(nil)
