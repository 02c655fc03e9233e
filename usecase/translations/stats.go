package translations

import (
	"context"
	"math"
	"sort"
)

// LocaleStats reports completion for one locale. A locale entry counts as
// translated when its value is non-blank after trimming.
type LocaleStats struct {
	Translated  int      `json:"translated"`
	Percentage  int      `json:"percentage"`
	MissingKeys []string `json:"missing_keys"`
}

// Stats is the per-locale completion report over the whole collection.
type Stats struct {
	Total   int                    `json:"total"`
	Locales map[string]LocaleStats `json:"locales"`
}

// Statistics computes completion per supported locale. With zero records
// every percentage is 0, never a division by zero.
func (s *Service) Statistics(ctx context.Context) (*Stats, error) {
	records, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Total: len(records), Locales: make(map[string]LocaleStats, len(s.locales))}
	for _, locale := range s.locales {
		ls := LocaleStats{}
		for _, r := range records {
			if r.Translated(locale) {
				ls.Translated++
			} else {
				ls.MissingKeys = append(ls.MissingKeys, r.Key)
			}
		}
		if stats.Total > 0 {
			ls.Percentage = int(math.Round(100 * float64(ls.Translated) / float64(stats.Total)))
		}
		sort.Strings(ls.MissingKeys)
		stats.Locales[locale] = ls
	}
	return stats, nil
}
