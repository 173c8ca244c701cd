package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"t", "useTranslations", "getTranslations"}, cfg.TranslationFunctionNames)
	assert.Equal(t, []string{"useTranslations", "getTranslations"}, cfg.NamespaceHooks)
	assert.Empty(t, cfg.AllowMultiNamespaceKeys)
	assert.Equal(t, []string{"en"}, cfg.Locales)
	assert.Equal(t, []string{".js", ".jsx", ".ts", ".tsx"}, cfg.SourceExtensions)
	assert.Equal(t, "messages", cfg.CatalogDir)
	assert.Equal(t, 0, cfg.Workers)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intlscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
locales: [en, de, fr-CA]
source_dirs: [app, components]
catalog_dir: locales
allow_multi_namespace_keys: [title]
workers: 4
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "de", "fr-CA"}, cfg.Locales)
	assert.Equal(t, []string{"app", "components"}, cfg.SourceDirs)
	assert.Equal(t, "locales", cfg.CatalogDir)
	assert.Equal(t, []string{"title"}, cfg.AllowMultiNamespaceKeys)
	assert.Equal(t, 4, cfg.Workers)
	// Unset fields keep their defaults.
	assert.Equal(t, []string{"t", "useTranslations", "getTranslations"}, cfg.TranslationFunctionNames)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TranslationFunctionNames: []string{"t"},
			Locales:                  []string{"en"},
			SourceDirs:               []string{"src"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no locales", func(c *Config) { c.Locales = nil }, "locale"},
		{"bad locale tag", func(c *Config) { c.Locales = []string{"not a tag"} }, "invalid locale"},
		{"no source dirs", func(c *Config) { c.SourceDirs = nil }, "source directory"},
		{"no function names", func(c *Config) { c.TranslationFunctionNames = nil }, "function name"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
