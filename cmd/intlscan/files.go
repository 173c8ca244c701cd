package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/intlscan/intlscan/internal/config"
)

// discoverSources walks the configured source directories collecting files
// with a configured extension, skipping node_modules and dot directories.
// Paths are returned sorted so scan output is deterministic.
func discoverSources(cfg *config.Config) ([]string, error) {
	exts := make(map[string]bool, len(cfg.SourceExtensions))
	for _, e := range cfg.SourceExtensions {
		exts[strings.ToLower(e)] = true
	}

	var paths []string
	for _, dir := range cfg.SourceDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				name := info.Name()
				if name == "node_modules" || (strings.HasPrefix(name, ".") && path != dir) {
					return filepath.SkipDir
				}
				return nil
			}
			if exts[strings.ToLower(filepath.Ext(path))] {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// discoverCatalogs finds the catalog partitions for one locale: a flat
// <dir>/<locale>.json|yaml|yml file, plus everything under <dir>/<locale>/.
func discoverCatalogs(dir, locale string) ([]string, error) {
	var paths []string

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		flat := filepath.Join(dir, locale+ext)
		if info, err := os.Stat(flat); err == nil && !info.IsDir() {
			paths = append(paths, flat)
		}
	}

	localeDir := filepath.Join(dir, locale)
	if info, err := os.Stat(localeDir); err == nil && info.IsDir() {
		err := filepath.Walk(localeDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".json", ".yaml", ".yml":
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)
	return paths, nil
}
