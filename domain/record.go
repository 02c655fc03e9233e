package domain

import (
	"strings"
	"time"
)

// Record is one translation entry: a dotted key plus its per-locale text map.
// Absence of a locale in Translations means "untranslated", not an error.
type Record struct {
	ID           string            `json:"id"`
	Key          string            `json:"key"`
	Translations map[string]string `json:"translations"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Metadata     *Metadata         `json:"metadata,omitempty"`
}

// Metadata carries free-form annotations used only for search and display.
type Metadata struct {
	Context     string   `json:"context,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Patch is a partial update applied to an existing record.
// A nil field is left untouched; Translations entries are merged key-wise.
type Patch struct {
	Translations map[string]string `json:"translations,omitempty"`
	Metadata     *Metadata         `json:"metadata,omitempty"`
}

// Clone returns a deep copy so stored records are never aliased by callers.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Translations = make(map[string]string, len(r.Translations))
	for k, v := range r.Translations {
		out.Translations[k] = v
	}
	if r.Metadata != nil {
		m := *r.Metadata
		m.Tags = append([]string(nil), r.Metadata.Tags...)
		out.Metadata = &m
	}
	return &out
}

// Translated reports whether the record has a non-blank value for locale.
func (r *Record) Translated(locale string) bool {
	return strings.TrimSpace(r.Translations[locale]) != ""
}

// ValidateKey checks the dotted-path key format: non-empty, and no empty
// segments (no leading, trailing or consecutive dots).
func ValidateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, seg := range strings.Split(key, ".") {
		if seg == "" {
			return ErrInvalidKey
		}
	}
	return nil
}
