// Package localefiles reads and writes one JSON document per locale at a
// configured base directory, e.g. messages/en.json. Each file holds the
// nested object tree of that locale's strings.
package localefiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lokali/domain"
	"lokali/ports"
)

type Store struct {
	dir     string
	locales []string
}

func New(dir string, locales []string) *Store {
	return &Store{dir: dir, locales: locales}
}

// Write replaces <dir>/<locale>.json with the given tree. The file is
// written to a temp name first and renamed into place so readers never see a
// half-written document.
func (s *Store) Write(locale string, tree map[string]any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: make messages dir: %v", domain.ErrStorage, err)
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s tree: %v", domain.ErrStorage, locale, err)
	}
	data = append(data, '\n')
	target := s.path(locale)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrStorage, target, err)
	}
	return nil
}

// Read loads <dir>/<locale>.json. A missing file is an empty tree, not an
// error.
func (s *Store) Read(locale string) (map[string]any, error) {
	data, err := os.ReadFile(s.path(locale))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorage, s.path(locale), err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrFormat, s.path(locale), err)
	}
	return tree, nil
}

// ReadAll loads every configured locale's file, keyed by locale.
func (s *Store) ReadAll() (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(s.locales))
	for _, locale := range s.locales {
		t, err := s.Read(locale)
		if err != nil {
			return nil, err
		}
		out[locale] = t
	}
	return out, nil
}

func (s *Store) path(locale string) string {
	// Locale codes are validated at config time, but never trust them as
	// path components.
	safe := strings.ReplaceAll(locale, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, safe+".json")
}

var _ ports.LocaleFiles = (*Store)(nil)
