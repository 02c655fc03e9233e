package csv

import (
	"bytes"
	"sort"
	"strings"

	"lokali/domain"
	"lokali/ports"
)

// Exporter encodes records as CSV with a `Key,<locale>,...` header. Every
// field is double-quote wrapped and embedded quotes are doubled, so values
// may carry commas, quotes and newlines. encoding/csv only quotes on demand,
// hence the hand-rolled writer.
type Exporter struct {
	locales []string
}

func New(locales []string) *Exporter { return &Exporter{locales: locales} }

func (e *Exporter) Format() string { return "csv" }

func (e *Exporter) Export(records []*domain.Record) ([]byte, error) {
	sorted := make([]*domain.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var buf bytes.Buffer
	writeRow(&buf, append([]string{"Key"}, e.locales...))
	for _, r := range sorted {
		row := make([]string, 0, len(e.locales)+1)
		row = append(row, r.Key)
		for _, locale := range e.locales {
			row = append(row, r.Translations[locale])
		}
		writeRow(&buf, row)
	}
	return buf.Bytes(), nil
}

func writeRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

var _ ports.Exporter = (*Exporter)(nil)
