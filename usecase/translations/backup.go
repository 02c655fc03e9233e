package translations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lokali/domain"
)

// backupVersion identifies the envelope layout.
const backupVersion = "1"

// BackupEnvelope wraps the full snapshot with enough metadata to sanity-check
// a later restore.
type BackupEnvelope struct {
	Version      string           `json:"version"`
	CreatedAt    time.Time        `json:"created_at"`
	Locales      []string         `json:"locales"`
	Count        int              `json:"count"`
	Translations []*domain.Record `json:"translations"`
}

// Backup serializes the whole collection into one JSON blob.
func (s *Service) Backup(ctx context.Context) ([]byte, error) {
	records, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*domain.Record{}
	}
	env := BackupEnvelope{
		Version:      backupVersion,
		CreatedAt:    time.Now().UTC(),
		Locales:      s.locales,
		Count:        len(records),
		Translations: records,
	}
	return json.MarshalIndent(env, "", "  ")
}

// Restore validates the envelope and replaces the entire snapshot with its
// contents (full overwrite, no merge).
func (s *Service) Restore(ctx context.Context, data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: invalid backup: %v", domain.ErrFormat, err)
	}
	raw, ok := probe["translations"]
	if !ok {
		return fmt.Errorf("%w: backup is missing the translations array", domain.ErrFormat)
	}
	var records []*domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("%w: invalid translations array: %v", domain.ErrFormat, err)
	}
	return s.storage.Save(ctx, records)
}
