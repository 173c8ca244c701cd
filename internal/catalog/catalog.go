// Package catalog loads per-locale translation catalogs and flattens them
// into the key sets the diff engine consumes.
//
// A locale's catalog may be split across several JSON or YAML partitions;
// partitions are merged recursively, with non-object values overwriting on
// conflict. The merged tree is then indexed into dotted leaf keys (values
// that are directly translatable) and object paths (namespace boundaries).
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tree is one locale's nested key→value catalog.
type Tree map[string]interface{}

// LoadLocale reads and merges every partition of one locale's catalog, in
// the order given. Later partitions win on conflicting non-object values.
func LoadLocale(paths []string) (Tree, error) {
	merged := make(Tree)
	for _, path := range paths {
		part, err := loadPartition(path)
		if err != nil {
			return nil, err
		}
		Merge(merged, part)
	}
	return merged, nil
}

func loadPartition(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var tree Tree
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tree)
	default:
		err = json.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return tree, nil
}

// Merge recursively merges src into dst. Two objects merge key by key;
// anything else overwrites.
func Merge(dst, src Tree) {
	for key, value := range src {
		if dstMap, ok := asTree(dst[key]); ok {
			if srcMap, ok := asTree(value); ok {
				Merge(dstMap, srcMap)
				dst[key] = dstMap
				continue
			}
		}
		dst[key] = value
	}
}

func asTree(v interface{}) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]interface{}:
		return Tree(m), true
	}
	return nil, false
}

// Index is the union, across all loaded locales, of dotted catalog paths.
// A key counts as known if any locale carries it.
type Index struct {
	leafKeys    map[string]bool
	objectPaths map[string]bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		leafKeys:    make(map[string]bool),
		objectPaths: make(map[string]bool),
	}
}

// AddLocale folds one locale's merged tree into the index.
func (ix *Index) AddLocale(tree Tree) {
	ix.addLevel(tree, "")
}

func (ix *Index) addLevel(tree Tree, prefix string) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := asTree(value); ok {
			ix.objectPaths[path] = true
			ix.addLevel(sub, path)
		} else {
			ix.leafKeys[path] = true
		}
	}
}

// HasLeaf reports whether key is a leaf in any locale.
func (ix *Index) HasLeaf(key string) bool { return ix.leafKeys[key] }

// HasObjectPath reports whether key names a namespace object in any locale.
func (ix *Index) HasObjectPath(key string) bool { return ix.objectPaths[key] }

// LeafKeys returns every known leaf key, sorted.
func (ix *Index) LeafKeys() []string {
	keys := make([]string, 0, len(ix.leafKeys))
	for k := range ix.leafKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SuffixMatches returns the leaf keys that equal key or end in ".key",
// sorted. The diff engine uses this for fallback matching of bare,
// un-namespaced short keys.
func (ix *Index) SuffixMatches(key string) []string {
	var matches []string
	suffix := "." + key
	for leaf := range ix.leafKeys {
		if leaf == key || strings.HasSuffix(leaf, suffix) {
			matches = append(matches, leaf)
		}
	}
	sort.Strings(matches)
	return matches
}
