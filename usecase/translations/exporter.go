package translations

import (
	"context"
	"fmt"

	"lokali/domain"
	"lokali/tree"
)

// Blob is an in-memory export for user download. Producing it never touches
// persistent storage.
type Blob struct {
	Filename string
	Data     []byte
}

// Export encodes the full snapshot in the named format ("json" or "csv").
func (s *Service) Export(ctx context.Context, format string) (*Blob, error) {
	exporter, ok := s.exporters.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrFormat, format)
	}
	records, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	data, err := exporter.Export(records)
	if err != nil {
		return nil, err
	}
	return &Blob{Filename: "translations." + format, Data: data}, nil
}

// ExportToFiles writes one JSON file per supported locale to the configured
// location, each holding that locale's nested string tree.
func (s *Service) ExportToFiles(ctx context.Context) error {
	if s.files == nil {
		return ErrNoLocaleFiles
	}
	records, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	for _, locale := range s.locales {
		if err := s.files.Write(locale, tree.LocaleTree(records, locale)); err != nil {
			return err
		}
	}
	s.log.Debug("exported locale files", "locales", len(s.locales), "records", len(records))
	return nil
}
