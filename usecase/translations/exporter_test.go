package translations_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokali/adapters/localefiles"
	"lokali/domain"
	"lokali/usecase/translations"
)

func TestExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("json blob nests by locale", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		mustCreate(t, s, "a.b", map[string]string{"en": "Hello"})
		mustCreate(t, s, "a.c", map[string]string{"en": "World"})

		blob, err := s.Export(ctx, "json")
		require.NoError(t, err)
		assert.Equal(t, "translations.json", blob.Filename)
		assert.JSONEq(t, `{"en": {"a": {"b": "Hello", "c": "World"}}}`, string(blob.Data))
	})

	t.Run("csv blob round-trips through import", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		mustCreate(t, s, "a", map[string]string{"en": "one, two", "ar": "واحد"})

		blob, err := s.Export(ctx, "csv")
		require.NoError(t, err)

		other := newTestService(t, nil)
		res, err := other.Import(ctx, blob.Filename, blob.Data)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Imported)

		page, err := other.List(ctx, domain.Query{})
		require.NoError(t, err)
		assert.Equal(t, "one, two", page.Results[0].Translations["en"])
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		_, err := s.Export(ctx, "xml")
		require.ErrorIs(t, err, domain.ErrFormat)
	})
}

func TestExportToFiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("writes one json file per supported locale", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s := newTestService(t, func(d *translations.Deps) {
			d.Files = localefiles.New(dir, testLocales)
		})
		mustCreate(t, s, "home.title", map[string]string{"en": "Home", "ar": "الرئيسية"})

		require.NoError(t, s.ExportToFiles(ctx))

		for _, locale := range testLocales {
			data, err := os.ReadFile(filepath.Join(dir, locale+".json"))
			require.NoError(t, err, locale)
			var tree map[string]any
			require.NoError(t, json.Unmarshal(data, &tree))
			home, ok := tree["home"].(map[string]any)
			require.True(t, ok, locale)
			assert.NotEmpty(t, home["title"], locale)
		}
	})

	t.Run("fails when no files store is configured", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		require.ErrorIs(t, s.ExportToFiles(ctx), translations.ErrNoLocaleFiles)
	})
}

func TestAutoExportWritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := newTestService(t, func(d *translations.Deps) {
		d.Files = localefiles.New(dir, testLocales)
		d.AutoExport = true
	})

	res, err := s.Create(context.Background(), &domain.Record{Key: "a", Translations: map[string]string{"en": "Hello"}})
	require.NoError(t, err)
	require.NoError(t, res.ExportErr)

	data, err := os.ReadFile(filepath.Join(dir, "en.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": "Hello"}`, string(data))
}
