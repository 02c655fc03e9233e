package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"lokali/domain"
	"lokali/ports"
)

// Parser decodes CSV with a `Key,<locale>,...` header. encoding/csv handles
// quoted fields, doubled quotes and embedded commas/newlines; a naive comma
// split would not.
type Parser struct {
	locales map[string]bool
}

func New(locales []string) *Parser {
	set := make(map[string]bool, len(locales))
	for _, l := range locales {
		set[l] = true
	}
	return &Parser{locales: set}
}

func (p *Parser) Format() string { return "csv" }

func (p *Parser) Parse(data []byte) ([]*domain.Record, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing csv header: %v", domain.ErrFormat, err)
	}
	// The header is rejected before any row is processed.
	if len(header) == 0 || header[0] != "Key" {
		return nil, fmt.Errorf("%w: first csv column must be %q", domain.ErrFormat, "Key")
	}
	// Column index per known locale; unlisted columns are ignored.
	localeCols := map[int]string{}
	for i, h := range header[1:] {
		if len(p.locales) == 0 || p.locales[h] {
			localeCols[i+1] = h
		}
	}

	var records []*domain.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid csv row: %v", domain.ErrFormat, err)
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		translations := map[string]string{}
		for col, locale := range localeCols {
			if col < len(row) {
				translations[locale] = row[col]
			} else {
				translations[locale] = ""
			}
		}
		records = append(records, &domain.Record{Key: row[0], Translations: translations})
	}
	return records, nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}

var _ ports.Parser = (*Parser)(nil)
