package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intlscan/intlscan/internal/catalog"
	"github.com/intlscan/intlscan/internal/scan"
)

// runPipeline performs a full scan → index → assemble pass over in-memory
// fixtures.
func runPipeline(t *testing.T, sources map[string]string, locales []catalog.Tree, allowList []string) *Report {
	t.Helper()

	dir := t.TempDir()
	var paths []string
	for name, src := range sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0644))
		paths = append(paths, path)
	}

	res := scan.New(scan.Options{Workers: 1}).ScanFiles(context.Background(), paths)

	ix := catalog.NewIndex()
	for _, tree := range locales {
		ix.AddLocale(tree)
	}
	return Assemble(res, ix, allowList)
}

var headerCatalog = catalog.Tree{"Header": map[string]interface{}{"title": "Welcome"}}

// Catalog {Header: {title}}, source resolves t('title') under the Header
// namespace: zero missing, zero unused.
func TestAssembleCleanRun(t *testing.T) {
	rep := runPipeline(t, map[string]string{
		"header.tsx": `
const t = useTranslations('Header');
export const Header = () => <h1>{t('title')}</h1>;
`,
	}, []catalog.Tree{headerCatalog}, nil)

	assert.Equal(t, []string{"Header.title"}, rep.TranslationKeys)
	assert.Empty(t, rep.Analysis.MissingKeys)
	assert.Empty(t, rep.Analysis.UnusedKeys)
	assert.Empty(t, rep.Analysis.MisuseKeys)
	assert.Equal(t, 1, rep.Summary.TotalKeys)
	assert.Equal(t, 1, rep.Summary.UniqueKeys)
	assert.True(t, rep.Clean())
}

// Same catalog, but the code looks up the namespace node itself: Header is
// a misuse and Header.title goes unused.
func TestAssembleMisuseRun(t *testing.T) {
	rep := runPipeline(t, map[string]string{
		"header.tsx": `
const t = useTranslations('Header');
t('Header');
`,
	}, []catalog.Tree{headerCatalog}, nil)

	assert.Equal(t, []string{"Header"}, rep.Analysis.MisuseKeys)
	assert.Equal(t, []string{"Header.title"}, rep.Analysis.UnusedKeys)
	assert.Empty(t, rep.Analysis.MissingKeys)
	assert.Equal(t, 1, rep.Summary.MisuseKeys)
	assert.False(t, rep.Clean())
}

func TestAssembleCountsParseErrors(t *testing.T) {
	rep := runPipeline(t, map[string]string{
		"broken.ts": `const t = useTranslations('A'; t('x');`,
	}, []catalog.Tree{headerCatalog}, nil)

	assert.Equal(t, 1, rep.Summary.TotalFiles)
	assert.Equal(t, 0, rep.Summary.ScannedFiles)
	assert.Equal(t, 1, rep.Summary.ErrorCount)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, scan.ErrorTypeParse, rep.Errors[0].Type)
	assert.False(t, rep.Clean())
}

// Re-running on an unchanged file/catalog set yields a byte-identical
// report.
func TestReportIdempotence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.tsx")
	require.NoError(t, os.WriteFile(path, []byte(`
const t = useTranslations('Header');
t('title');
t('gone');
`), 0644))

	run := func() []byte {
		res := scan.New(scan.Options{}).ScanFiles(context.Background(), []string{path})
		ix := catalog.NewIndex()
		ix.AddLocale(headerCatalog)
		data, err := Assemble(res, ix, nil).JSON(true)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(run()), string(run()))
}

func TestReportJSONShape(t *testing.T) {
	rep := runPipeline(t, map[string]string{
		"a.tsx": `const t = useTranslations('Header'); t('title');`,
	}, []catalog.Tree{headerCatalog}, nil)

	data, err := rep.JSON(false)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"summary"`)
	assert.Contains(t, s, `"translationKeys"`)
	assert.Contains(t, s, `"keyUsages"`)
	assert.Contains(t, s, `"analysis"`)
	assert.Contains(t, s, `"errors"`)
	// Empty lists marshal as [], never null.
	assert.NotContains(t, s, `null`)
}

func TestCleanIgnoresWarningsAndUnused(t *testing.T) {
	rep := runPipeline(t, map[string]string{
		"a.tsx": `const t = useTranslations('Header'); t('title');`,
	}, []catalog.Tree{
		headerCatalog,
		{"Header": map[string]interface{}{"subtitle": "Hi"}},
	}, nil)

	assert.Equal(t, []string{"Header.subtitle"}, rep.Analysis.UnusedKeys)
	assert.True(t, rep.Clean())
}
