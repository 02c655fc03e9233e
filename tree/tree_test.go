package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokali/domain"
	"lokali/tree"
)

func rec(key string, translations map[string]string) *domain.Record {
	return &domain.Record{Key: key, Translations: translations}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("empty list builds empty tree", func(t *testing.T) {
		t.Parallel()
		root, err := tree.Build(nil)
		require.NoError(t, err)
		assert.Empty(t, root)
		assert.Equal(t, 0, tree.Depth(root))
	})

	t.Run("groups records by dotted segments", func(t *testing.T) {
		t.Parallel()
		root, err := tree.Build([]*domain.Record{
			rec("a.b", map[string]string{"en": "Hello"}),
			rec("a.c", map[string]string{"en": "World"}),
		})
		require.NoError(t, err)

		a, ok := root["a"].(tree.Branch)
		require.True(t, ok, "a must be a branch")
		b, ok := a["b"].(tree.Leaf)
		require.True(t, ok, "a.b must be a leaf")
		assert.Equal(t, "Hello", b.Record.Translations["en"])
		c, ok := a["c"].(tree.Leaf)
		require.True(t, ok, "a.c must be a leaf")
		assert.Equal(t, "World", c.Record.Translations["en"])
	})

	t.Run("key without dots is a root-level leaf", func(t *testing.T) {
		t.Parallel()
		root, err := tree.Build([]*domain.Record{rec("title", nil)})
		require.NoError(t, err)
		_, ok := root["title"].(tree.Leaf)
		assert.True(t, ok)
		assert.Equal(t, 1, tree.Depth(root))
	})

	t.Run("rejects a key that is a prefix of another", func(t *testing.T) {
		t.Parallel()
		_, err := tree.Build([]*domain.Record{rec("a", nil), rec("a.b", nil)})
		require.ErrorIs(t, err, domain.ErrKeyConflict)

		_, err = tree.Build([]*domain.Record{rec("a.b", nil), rec("a", nil)})
		require.ErrorIs(t, err, domain.ErrKeyConflict)
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		t.Parallel()
		_, err := tree.Build([]*domain.Record{rec("a..b", nil)})
		require.ErrorIs(t, err, domain.ErrInvalidKey)
	})
}

func TestFlattenRoundTrip(t *testing.T) {
	t.Parallel()

	records := []*domain.Record{
		rec("nav.home", map[string]string{"en": "Home", "ar": "الرئيسية"}),
		rec("nav.about", map[string]string{"en": "About"}),
		rec("footer.copyright", map[string]string{"en": "(c)"}),
		rec("title", map[string]string{"en": "App"}),
	}
	root, err := tree.Build(records)
	require.NoError(t, err)

	flat := tree.Flatten(root)
	require.Len(t, flat, len(records))

	// Flatten sorts by key, so compare as key-indexed sets.
	byKey := map[string]*domain.Record{}
	for _, r := range flat {
		byKey[r.Key] = r
	}
	for _, want := range records {
		got, ok := byKey[want.Key]
		require.True(t, ok, "missing key %q", want.Key)
		assert.Equal(t, want.Translations, got.Translations)
	}

	for i := 1; i < len(flat); i++ {
		assert.Less(t, flat[i-1].Key, flat[i].Key, "flatten output is key-sorted")
	}
}

func TestInsert(t *testing.T) {
	t.Parallel()

	t.Run("does not mutate the input tree", func(t *testing.T) {
		t.Parallel()
		root, err := tree.Build([]*domain.Record{rec("a.b", nil)})
		require.NoError(t, err)

		next, err := tree.Insert(root, rec("a.c", nil))
		require.NoError(t, err)

		assert.Len(t, tree.Flatten(root), 1, "original unchanged")
		assert.Len(t, tree.Flatten(next), 2)
	})

	t.Run("replaces an existing leaf at the same key", func(t *testing.T) {
		t.Parallel()
		root, err := tree.Build([]*domain.Record{rec("a.b", map[string]string{"en": "old"})})
		require.NoError(t, err)

		next, err := tree.Insert(root, rec("a.b", map[string]string{"en": "new"}))
		require.NoError(t, err)

		leaves := tree.Flatten(next)
		require.Len(t, leaves, 1)
		assert.Equal(t, "new", leaves[0].Translations["en"])
	})

	t.Run("rejects prefix conflicts", func(t *testing.T) {
		t.Parallel()
		root, err := tree.Build([]*domain.Record{rec("a.b", nil)})
		require.NoError(t, err)

		_, err = tree.Insert(root, rec("a", nil))
		require.ErrorIs(t, err, domain.ErrKeyConflict)
		_, err = tree.Insert(root, rec("a.b.c", nil))
		require.ErrorIs(t, err, domain.ErrKeyConflict)
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	root, err := tree.Build([]*domain.Record{rec("a.b", nil), rec("a.c", nil), rec("d", nil)})
	require.NoError(t, err)

	t.Run("removes a leaf without mutating the input", func(t *testing.T) {
		t.Parallel()
		next := tree.Remove(root, "a.b")
		assert.Len(t, tree.Flatten(next), 2)
		assert.Len(t, tree.Flatten(root), 3)
	})

	t.Run("prunes branches left empty", func(t *testing.T) {
		t.Parallel()
		next := tree.Remove(tree.Remove(root, "a.b"), "a.c")
		assert.False(t, tree.Has(next, "a"))
		assert.True(t, tree.Has(next, "d"))
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		t.Parallel()
		next := tree.Remove(root, "x.y")
		assert.Len(t, tree.Flatten(next), 3)
	})
}

func TestQueries(t *testing.T) {
	t.Parallel()

	root, err := tree.Build([]*domain.Record{
		rec("nav.home", nil),
		rec("nav.menu.file", nil),
		rec("nav.menu.edit", nil),
		rec("footer.note", nil),
	})
	require.NoError(t, err)

	t.Run("child keys", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"footer", "nav"}, tree.ChildKeys(root, ""))
		assert.Equal(t, []string{"home", "menu"}, tree.ChildKeys(root, "nav"))
		assert.Nil(t, tree.ChildKeys(root, "nav.home"), "a leaf has no children")
		assert.Nil(t, tree.ChildKeys(root, "missing"))
	})

	t.Run("descendant leaves", func(t *testing.T) {
		t.Parallel()
		leaves := tree.Leaves(root, "nav")
		require.Len(t, leaves, 3)
		assert.Equal(t, "nav.home", leaves[0].Key)
		assert.Equal(t, "nav.menu.edit", leaves[1].Key)
		assert.Equal(t, "nav.menu.file", leaves[2].Key)
	})

	t.Run("path existence", func(t *testing.T) {
		t.Parallel()
		assert.True(t, tree.Has(root, "nav.menu"))
		assert.True(t, tree.Has(root, "nav.menu.file"))
		assert.False(t, tree.Has(root, "nav.menu.view"))
	})

	t.Run("depth", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 3, tree.Depth(root))
	})
}

func TestLocaleTree(t *testing.T) {
	t.Parallel()

	t.Run("projects one locale into a nested string tree", func(t *testing.T) {
		t.Parallel()
		records := []*domain.Record{
			rec("a.b", map[string]string{"en": "Hello"}),
			rec("a.c", map[string]string{"en": "World"}),
		}
		got := tree.LocaleTree(records, "en")
		assert.Equal(t, map[string]any{"a": map[string]any{"b": "Hello", "c": "World"}}, got)
	})

	t.Run("omits blank values", func(t *testing.T) {
		t.Parallel()
		records := []*domain.Record{
			rec("a.b", map[string]string{"en": "Hello", "ar": ""}),
			rec("a.c", map[string]string{"ar": "   "}),
		}
		assert.Empty(t, tree.LocaleTree(records, "ar"))
	})
}
