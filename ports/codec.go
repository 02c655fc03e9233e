package ports

import "lokali/domain"

// Parser decodes one serialized format into records. Parsed records carry no
// id; the storage layer assigns ids when they are persisted.
type Parser interface {
	Format() string
	Parse(data []byte) ([]*domain.Record, error)
}

// Exporter encodes the record list into one serialized format.
type Exporter interface {
	Format() string
	Export(records []*domain.Record) ([]byte, error)
}
