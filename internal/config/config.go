// Package config loads analyzer configuration from .intlscan.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config is the analyzer's run configuration.
type Config struct {
	// TranslationFunctionNames are identifiers recognized as key lookups.
	TranslationFunctionNames []string `mapstructure:"translation_function_names"`
	// NamespaceHooks are callee names whose calls establish a namespace.
	NamespaceHooks []string `mapstructure:"namespace_hooks"`
	// AllowMultiNamespaceKeys lists short keys accepted even when their
	// fallback match against the catalogs is ambiguous.
	AllowMultiNamespaceKeys []string `mapstructure:"allow_multi_namespace_keys"`
	// Locales are the catalog locales to index, as BCP 47 tags.
	Locales []string `mapstructure:"locales"`

	SourceDirs       []string `mapstructure:"source_dirs"`
	SourceExtensions []string `mapstructure:"source_extensions"`
	CatalogDir       string   `mapstructure:"catalog_dir"`
	ReportPath       string   `mapstructure:"report_path"`
	// Workers bounds the parallel per-file scan; 0 means one per CPU.
	Workers int `mapstructure:"workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("translation_function_names", []string{"t", "useTranslations", "getTranslations"})
	v.SetDefault("namespace_hooks", []string{"useTranslations", "getTranslations"})
	v.SetDefault("allow_multi_namespace_keys", []string{})
	v.SetDefault("locales", []string{"en"})
	v.SetDefault("source_dirs", []string{"src"})
	v.SetDefault("source_extensions", []string{".js", ".jsx", ".ts", ".tsx"})
	v.SetDefault("catalog_dir", "messages")
	v.SetDefault("report_path", "intlscan-report.json")
	v.SetDefault("workers", 0)
}

// Load reads configuration from the given file, or from .intlscan.yaml in
// the working directory when path is empty. A missing config file is not an
// error; defaults and INTLSCAN_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".intlscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("INTLSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the analyzer cannot act on.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		return fmt.Errorf("at least one locale must be configured")
	}
	for _, loc := range c.Locales {
		if _, err := language.Parse(loc); err != nil {
			return fmt.Errorf("invalid locale %q: %w", loc, err)
		}
	}
	if len(c.SourceDirs) == 0 {
		return fmt.Errorf("at least one source directory must be configured")
	}
	if len(c.TranslationFunctionNames) == 0 {
		return fmt.Errorf("at least one translation function name must be configured")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}
