package translations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokali/domain"
)

func TestStatistics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty collection reports zero percent, no division by zero", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)

		stats, err := s.Statistics(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		for _, locale := range testLocales {
			assert.Zero(t, stats.Locales[locale].Percentage, locale)
			assert.Empty(t, stats.Locales[locale].MissingKeys, locale)
		}
	})

	t.Run("fully translated locale is exactly 100", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		mustCreate(t, s, "a", map[string]string{"en": "Hello", "ar": "مرحبا"})
		mustCreate(t, s, "b", map[string]string{"en": "World", "ar": "عالم"})

		stats, err := s.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 100, stats.Locales["en"].Percentage)
		assert.Equal(t, 100, stats.Locales["ar"].Percentage)
	})

	t.Run("blank and missing values count as untranslated", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		mustCreate(t, s, "a", map[string]string{"en": "Hello", "ar": "مرحبا"})
		mustCreate(t, s, "b", map[string]string{"en": "World", "ar": "   "})
		mustCreate(t, s, "c", map[string]string{"en": "Third"})

		stats, err := s.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 100, stats.Locales["en"].Percentage)

		ar := stats.Locales["ar"]
		assert.Equal(t, 1, ar.Translated)
		assert.Equal(t, 33, ar.Percentage, "round(100*1/3)")
		assert.Equal(t, []string{"b", "c"}, ar.MissingKeys)
	})
}

func TestBackupRestore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trip replaces the whole snapshot", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		mustCreate(t, s, "a", map[string]string{"en": "Hello"})
		mustCreate(t, s, "b", map[string]string{"ar": "مرحبا"})

		data, err := s.Backup(ctx)
		require.NoError(t, err)

		other := newTestService(t, nil)
		mustCreate(t, other, "doomed", nil)

		require.NoError(t, other.Restore(ctx, data))

		page, err := other.List(ctx, domain.Query{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Count, "restore overwrites, it does not merge")
		assert.Equal(t, "a", page.Results[0].Key)
		assert.Equal(t, "b", page.Results[1].Key)
	})

	t.Run("rejects an envelope without a translations array", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		mustCreate(t, s, "keep", nil)

		err := s.Restore(ctx, []byte(`{"version": "1"}`))
		require.ErrorIs(t, err, domain.ErrFormat)

		page, err := s.List(ctx, domain.Query{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Count, "a rejected restore leaves the snapshot alone")
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()
		s := newTestService(t, nil)
		require.ErrorIs(t, s.Restore(ctx, []byte("{oops")), domain.ErrFormat)
	})
}
