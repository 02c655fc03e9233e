package localejson

import (
	"encoding/json"

	"lokali/domain"
	"lokali/ports"
	"lokali/tree"
)

// Exporter encodes records as an object keyed by locale, each value the
// nested tree of that locale's strings. Locales with no translated value are
// omitted rather than written as empty objects.
type Exporter struct {
	locales []string
}

func New(locales []string) *Exporter { return &Exporter{locales: locales} }

func (e *Exporter) Format() string { return "json" }

func (e *Exporter) Export(records []*domain.Record) ([]byte, error) {
	out := make(map[string]any, len(e.locales))
	for _, locale := range e.locales {
		t := tree.LocaleTree(records, locale)
		if len(t) == 0 {
			continue
		}
		out[locale] = t
	}
	return json.MarshalIndent(out, "", "  ")
}

var _ ports.Exporter = (*Exporter)(nil)
