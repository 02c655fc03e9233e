package domain

import "time"

// ApplyPatch shallow-merges the patch into the record and refreshes
// UpdatedAt. Translations entries are merged key-wise so a partial patch
// leaves other locale values untouched. Every backend routes updates through
// here so merge semantics cannot drift between adapters.
func ApplyPatch(r *Record, p Patch, now time.Time) {
	if p.Translations != nil {
		if r.Translations == nil {
			r.Translations = map[string]string{}
		}
		for locale, text := range p.Translations {
			r.Translations[locale] = text
		}
	}
	if p.Metadata != nil {
		r.Metadata = p.Metadata
	}
	r.UpdatedAt = now
}
