package translations

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"lokali/domain"
)

// ImportError records one failed row without aborting the rest of the import.
type ImportError struct {
	Key string
	Err error
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Imported  int
	Updated   int
	Errors    []ImportError
	ExportErr error
}

// Import parses the file by extension and folds the parsed records into the
// collection: a new key is created, an existing key gets its provided locale
// entries merged in (an update, not an overwrite). Per-record failures are
// collected; the import continues.
func (s *Service) Import(ctx context.Context, filename string, data []byte) (*ImportResult, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	parser, ok := s.parsers.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file extension %q", domain.ErrFormat, filepath.Ext(filename))
	}
	parsed, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*domain.Record, len(snapshot))
	for _, r := range snapshot {
		byKey[r.Key] = r
	}

	res := &ImportResult{}
	for _, r := range parsed {
		if err := domain.ValidateKey(r.Key); err != nil {
			res.Errors = append(res.Errors, ImportError{Key: r.Key, Err: err})
			continue
		}
		if existing, ok := byKey[r.Key]; ok {
			updated, err := s.storage.Update(ctx, existing.ID, domain.Patch{
				Translations: r.Translations,
				Metadata:     r.Metadata,
			})
			if err != nil {
				res.Errors = append(res.Errors, ImportError{Key: r.Key, Err: err})
				continue
			}
			byKey[r.Key] = updated
			res.Updated++
			continue
		}
		created, err := s.storage.Create(ctx, r)
		if err != nil {
			res.Errors = append(res.Errors, ImportError{Key: r.Key, Err: err})
			continue
		}
		byKey[r.Key] = created
		res.Imported++
	}

	s.log.Debug("import finished",
		"file", filename, "imported", res.Imported, "updated", res.Updated, "failed", len(res.Errors))
	res.ExportErr = s.autoExportHook(ctx)
	return res, nil
}
