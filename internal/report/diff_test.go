package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intlscan/intlscan/internal/catalog"
	"github.com/intlscan/intlscan/internal/scan"
)

func indexOf(t *testing.T, trees ...catalog.Tree) *catalog.Index {
	t.Helper()
	ix := catalog.NewIndex()
	for _, tree := range trees {
		ix.AddLocale(tree)
	}
	return ix
}

func usage(keys ...string) map[string][]scan.Location {
	m := make(map[string][]scan.Location, len(keys))
	for i, k := range keys {
		m[k] = []scan.Location{{File: "app.tsx", Line: i + 1, Column: 1}}
	}
	return m
}

func TestDiffExactMatch(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"Header": map[string]interface{}{"title": "Welcome"}})

	analysis, entries := Diff(usage("Header.title"), ix, nil)

	assert.Empty(t, analysis.MissingKeys)
	assert.Empty(t, analysis.UnusedKeys)
	assert.Empty(t, analysis.MisuseKeys)
	assert.Empty(t, entries)
}

func TestDiffMissingKey(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"Header": map[string]interface{}{"title": "Welcome"}})

	analysis, _ := Diff(usage("Header.subtitle"), ix, nil)

	assert.Equal(t, []string{"Header.subtitle"}, analysis.MissingKeys)
}

// An un-namespaced short key with exactly one catalog path ending in it is
// found through the fallback, not reported missing.
func TestDiffUnambiguousFallback(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"Checkout": map[string]interface{}{"shortKey": "Value"}})

	analysis, entries := Diff(usage("shortKey"), ix, nil)

	assert.Empty(t, analysis.MissingKeys)
	assert.Empty(t, entries)
}

func TestDiffAmbiguousFallback(t *testing.T) {
	ix := indexOf(t, catalog.Tree{
		"a": map[string]interface{}{"title": "A"},
		"b": map[string]interface{}{"title": "B"},
	})

	t.Run("missing without allow list", func(t *testing.T) {
		analysis, entries := Diff(usage("title"), ix, nil)
		assert.Equal(t, []string{"title"}, analysis.MissingKeys)
		assert.Empty(t, entries)
	})

	t.Run("accepted via allow list with warning", func(t *testing.T) {
		analysis, entries := Diff(usage("title"), ix, []string{"title"})
		assert.Empty(t, analysis.MissingKeys)
		require.Len(t, entries, 1)
		assert.Equal(t, scan.ErrorTypeWarning, entries[0].Type)
		assert.Equal(t, "app.tsx", entries[0].File)
	})
}

// Misuse wins over missing: a key naming a namespace object is never
// counted missing.
func TestDiffMisuseOverMissing(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"nav": map[string]interface{}{"home": "Home"}})

	analysis, entries := Diff(usage("nav"), ix, nil)

	assert.Equal(t, []string{"nav"}, analysis.MisuseKeys)
	assert.Empty(t, analysis.MissingKeys)
	require.Len(t, entries, 1)
	assert.Equal(t, scan.ErrorTypeMisuse, entries[0].Type)
}

func TestDiffMisusePerLocation(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"nav": map[string]interface{}{"home": "Home"}})

	usages := map[string][]scan.Location{
		"nav": {
			{File: "a.tsx", Line: 3, Column: 5},
			{File: "b.tsx", Line: 8, Column: 1},
		},
	}
	analysis, entries := Diff(usages, ix, nil)

	assert.Equal(t, []string{"nav"}, analysis.MisuseKeys)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.tsx", entries[0].File)
	assert.Equal(t, "b.tsx", entries[1].File)
}

func TestDiffMisuseSyntheticEntry(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"nav": map[string]interface{}{"home": "Home"}})

	usages := map[string][]scan.Location{"nav": nil}
	_, entries := Diff(usages, ix, nil)

	require.Len(t, entries, 1)
	assert.Equal(t, scan.ErrorTypeMisuse, entries[0].Type)
	assert.Empty(t, entries[0].File)
}

// Unused matching is exact only: a leaf found through fallback in the
// missing direction still counts as unused here.
func TestDiffUnusedIsExactOnly(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"Checkout": map[string]interface{}{"shortKey": "Value"}})

	analysis, _ := Diff(usage("shortKey"), ix, nil)

	assert.Empty(t, analysis.MissingKeys)
	assert.Equal(t, []string{"Checkout.shortKey"}, analysis.UnusedKeys)
}

// Scenario: catalog {Header: {title}}, code calls only t('Header'):
// Header is misused and Header.title is unused.
func TestDiffMisuseAndUnusedTogether(t *testing.T) {
	ix := indexOf(t, catalog.Tree{"Header": map[string]interface{}{"title": "Welcome"}})

	analysis, _ := Diff(usage("Header"), ix, nil)

	assert.Equal(t, []string{"Header"}, analysis.MisuseKeys)
	assert.Equal(t, []string{"Header.title"}, analysis.UnusedKeys)
	assert.Empty(t, analysis.MissingKeys)
}

func TestDiffDeterminism(t *testing.T) {
	ix := indexOf(t, catalog.Tree{
		"a": map[string]interface{}{"one": "1", "two": "2"},
		"b": map[string]interface{}{"three": "3"},
	})
	usages := usage("a.one", "b.missing", "zz.gone", "a")

	first, firstEntries := Diff(usages, ix, []string{"x"})
	second, secondEntries := Diff(usages, ix, []string{"x"})

	assert.Equal(t, first, second)
	assert.Equal(t, firstEntries, secondEntries)
	assert.Equal(t, []string{"b.missing", "zz.gone"}, first.MissingKeys)
	assert.Equal(t, []string{"a.two", "b.three"}, first.UnusedKeys)
}
