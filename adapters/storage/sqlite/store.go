// Package sqlite is the structured storage backend: one row per record keyed
// by id, with a unique index on key. Schema is created on first open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"lokali/domain"
	"lokali/ports"
)

type Store struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

func New(db *sql.DB) *Store {
	return &Store{db: db, sq: sq.StatementBuilder}
}

const table = "translations"

var columns = []string{"id", "key", "translations_json", "context", "description", "tags_json", "created_at", "updated_at"}

func (s *Store) Load(ctx context.Context) ([]*domain.Record, error) {
	q := s.sq.Select(columns...).From(table).OrderBy("key")
	sqlStr, args, _ := q.ToSql()
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	defer rows.Close()
	var out []*domain.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return out, nil
}

// Save clears the table then re-inserts every record in one transaction
// (full replace, not incremental).
func (s *Store) Save(ctx context.Context, records []*domain.Record) error {
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
		for _, r := range records {
			sqlStr, args, err := s.insertQuery(r).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, r *domain.Record) (*domain.Record, error) {
	stored := r.Clone()
	stored.ID = uuid.NewString()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	sqlStr, args, err := s.insertQuery(stored).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateKey, stored.Key)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return stored, nil
}

func (s *Store) Update(ctx context.Context, id string, p domain.Patch) (*domain.Record, error) {
	var updated *domain.Record
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sqlStr, args, _ := s.sq.Select(columns...).From(table).Where(sq.Eq{"id": id}).Limit(1).ToSql()
		r, err := scanRecord(tx.QueryRowContext(ctx, sqlStr, args...))
		if err != nil {
			return err
		}
		domain.ApplyPatch(r, p, time.Now().UTC())
		trJSON, tagsJSON, meta := marshalFields(r)
		uq := s.sq.Update(table).
			Set("translations_json", trJSON).
			Set("context", meta.Context).
			Set("description", meta.Description).
			Set("tags_json", tagsJSON).
			Set("updated_at", r.UpdatedAt.Format(time.RFC3339Nano)).
			Where(sq.Eq{"id": id})
		sqlStr, args, err = uq.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStorage) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	sqlStr, args, _ := s.sq.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *Store) insertQuery(r *domain.Record) sq.InsertBuilder {
	trJSON, tagsJSON, meta := marshalFields(r)
	return s.sq.Insert(table).Columns(columns...).Values(
		r.ID, r.Key, trJSON, meta.Context, meta.Description, tagsJSON,
		r.CreatedAt.Format(time.RFC3339Nano), r.UpdatedAt.Format(time.RFC3339Nano),
	)
}

func marshalFields(r *domain.Record) (trJSON, tagsJSON string, meta domain.Metadata) {
	if r.Metadata != nil {
		meta = *r.Metadata
	}
	tr, _ := json.Marshal(r.Translations)
	tags, _ := json.Marshal(meta.Tags)
	if r.Translations == nil {
		tr = []byte("{}")
	}
	if meta.Tags == nil {
		tags = []byte("[]")
	}
	return string(tr), string(tags), meta
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var r domain.Record
	var trJSON, tagsJSON, created, updated string
	var meta domain.Metadata
	err := row.Scan(&r.ID, &r.Key, &trJSON, &meta.Context, &meta.Description, &tagsJSON, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if err := json.Unmarshal([]byte(trJSON), &r.Translations); err != nil {
		return nil, fmt.Errorf("%w: corrupt translations column: %v", domain.ErrStorage, err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &meta.Tags); err != nil {
		return nil, fmt.Errorf("%w: corrupt tags column: %v", domain.ErrStorage, err)
	}
	if meta.Context != "" || meta.Description != "" || len(meta.Tags) > 0 {
		m := meta
		r.Metadata = &m
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique || serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

var _ ports.Storage = (*Store)(nil)
