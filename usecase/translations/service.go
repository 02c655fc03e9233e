// Package translations composes a storage backend with the format codecs and
// the locale-files collaborator to serve UI-level list/CRUD/import/export
// requests.
package translations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	expreg "lokali/adapters/exporter/registry"
	parreg "lokali/adapters/parser/registry"
	"lokali/domain"
	"lokali/ports"
)

// DefaultPageSize is used when the configured page size is missing.
const DefaultPageSize = 10

// ErrNoLocaleFiles is returned by file-export operations when no locale-files
// store was configured.
var ErrNoLocaleFiles = errors.New("lokali: locale files not configured")

type Service struct {
	storage    ports.Storage
	parsers    *parreg.Registry
	exporters  *expreg.Registry
	files      ports.LocaleFiles
	locales    []string
	pageSize   int
	autoExport bool
	log        *slog.Logger
}

type Deps struct {
	Storage   ports.Storage
	Parsers   *parreg.Registry
	Exporters *expreg.Registry

	// Files is optional; without it ExportToFiles and auto-export are
	// unavailable.
	Files ports.LocaleFiles

	Locales  []string
	PageSize int

	// AutoExport re-writes the per-locale files after every successful
	// mutation. The failure of that side effect is reported separately from
	// the mutation's own outcome.
	AutoExport bool

	Logger *slog.Logger
}

func New(d Deps) *Service {
	if d.PageSize <= 0 {
		d.PageSize = DefaultPageSize
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		storage:    d.Storage,
		parsers:    d.Parsers,
		exporters:  d.Exporters,
		files:      d.Files,
		locales:    d.Locales,
		pageSize:   d.PageSize,
		autoExport: d.AutoExport,
		log:        d.Logger,
	}
}

// Locales returns the supported locale list.
func (s *Service) Locales() []string { return s.locales }

// List loads the full snapshot, filters, sorts by key and slices one page.
// Page and PageSize are 1-based; a page beyond the last returns an empty
// result set, not an error.
func (s *Service) List(ctx context.Context, q domain.Query) (*domain.Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = s.pageSize
	}
	records, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		filtered := records[:0:0]
		for _, r := range records {
			if matches(r, needle) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })

	count := len(records)
	totalPages := (count + q.PageSize - 1) / q.PageSize
	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}
	return &domain.Page{
		Results:    records[start:end],
		Count:      count,
		TotalPages: totalPages,
	}, nil
}

// matches applies the case-insensitive substring filter across the key, every
// locale value and the display metadata.
func matches(r *domain.Record, needle string) bool {
	if strings.Contains(strings.ToLower(r.Key), needle) {
		return true
	}
	for _, v := range r.Translations {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	if r.Metadata != nil {
		if strings.Contains(strings.ToLower(r.Metadata.Context), needle) ||
			strings.Contains(strings.ToLower(r.Metadata.Description), needle) {
			return true
		}
		for _, tag := range r.Metadata.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
	}
	return false
}

// MutationResult pairs a mutation's primary value with the outcome of the
// awaited auto-export side effect. ExportErr being non-nil means the mutation
// itself succeeded but the per-locale files were not rewritten.
type MutationResult struct {
	Record    *domain.Record
	ExportErr error
}

// Create persists a new record. The key must be a valid dotted path and not
// already present; on rejection storage is left untouched.
func (s *Service) Create(ctx context.Context, r *domain.Record) (MutationResult, error) {
	if err := domain.ValidateKey(r.Key); err != nil {
		return MutationResult{}, fmt.Errorf("%w: %q", err, r.Key)
	}
	records, err := s.storage.Load(ctx)
	if err != nil {
		return MutationResult{}, err
	}
	for _, existing := range records {
		if existing.Key == r.Key {
			return MutationResult{}, fmt.Errorf("%w: %q", domain.ErrDuplicateKey, r.Key)
		}
	}
	stored, err := s.storage.Create(ctx, r)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Record: stored, ExportErr: s.autoExportHook(ctx)}, nil
}

// Update merges the patch into the record with the given id. Locale entries
// in the patch are merged, not replaced, so untouched locales survive.
func (s *Service) Update(ctx context.Context, id string, p domain.Patch) (MutationResult, error) {
	updated, err := s.storage.Update(ctx, id, p)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Record: updated, ExportErr: s.autoExportHook(ctx)}, nil
}

// Delete removes the record if present; an absent id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) (MutationResult, error) {
	if err := s.storage.Delete(ctx, id); err != nil {
		return MutationResult{}, err
	}
	return MutationResult{ExportErr: s.autoExportHook(ctx)}, nil
}

// OpError names the record a bulk operation failed on.
type OpError struct {
	ID  string
	Err error
}

// BulkDeleteResult reports how many ids were deleted and which failed.
type BulkDeleteResult struct {
	Deleted   int
	Errors    []OpError
	ExportErr error
}

// BulkDelete deletes per id, not as an atomic batch; a failing id does not
// abort the rest.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (BulkDeleteResult, error) {
	var res BulkDeleteResult
	for _, id := range ids {
		if err := s.storage.Delete(ctx, id); err != nil {
			res.Errors = append(res.Errors, OpError{ID: id, Err: err})
			continue
		}
		res.Deleted++
	}
	res.ExportErr = s.autoExportHook(ctx)
	return res, nil
}

// autoExportHook is the awaited post-commit side effect. Its error is
// reported to the caller instead of being swallowed.
func (s *Service) autoExportHook(ctx context.Context) error {
	if !s.autoExport || s.files == nil {
		return nil
	}
	if err := s.ExportToFiles(ctx); err != nil {
		s.log.Warn("auto-export after mutation failed", "error", err)
		return err
	}
	return nil
}
