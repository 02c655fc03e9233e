package localejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"lokali/domain"
	"lokali/ports"
)

// Parser decodes translation JSON in either of two shapes:
//
//  1. a flat array of record objects: [{"key": "...", "translations": {...}}, ...]
//  2. an object keyed by locale whose values are nested trees:
//     {"en": {"home": {"title": "Home"}}, "ar": {...}}
//
// Locale-keyed trees are flattened to dotted keys and merged across locales,
// so a key present in several locale trees becomes one record.
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

func (p *Parser) Format() string { return "json" }

func (p *Parser) Parse(data []byte) ([]*domain.Record, error) {
	data = stripBOM(data)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty json document", domain.ErrFormat)
	}
	if trimmed[0] == '[' {
		return p.parseArray(trimmed)
	}
	return p.parseByLocale(trimmed)
}

func (p *Parser) parseArray(data []byte) ([]*domain.Record, error) {
	var records []*domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrFormat, err)
	}
	for _, r := range records {
		if r.Translations == nil {
			r.Translations = map[string]string{}
		}
	}
	return records, nil
}

func (p *Parser) parseByLocale(data []byte) ([]*domain.Record, error) {
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", domain.ErrFormat, err)
	}
	merged := map[string]map[string]string{}
	for locale, nested := range doc {
		if len(p.locales) > 0 && !p.locales[locale] {
			continue
		}
		for key, text := range flatten(nested, "") {
			if merged[key] == nil {
				merged[key] = map[string]string{}
			}
			merged[key][locale] = text
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	records := make([]*domain.Record, 0, len(keys))
	for _, k := range keys {
		records = append(records, &domain.Record{Key: k, Translations: merged[k]})
	}
	return records, nil
}

func flatten(data map[string]any, prefix string) map[string]string {
	out := map[string]string{}
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			for k, s := range flatten(v, full) {
				out[k] = s
			}
		default:
			out[full] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}

var _ ports.Parser = (*Parser)(nil)
