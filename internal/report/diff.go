package report

import (
	"fmt"
	"sort"

	"github.com/intlscan/intlscan/internal/catalog"
	"github.com/intlscan/intlscan/internal/scan"
)

// Analysis is the outcome of diffing extracted keys against the catalogs.
type Analysis struct {
	MissingKeys []string `json:"missingKeys"`
	UnusedKeys  []string `json:"unusedKeys"`
	MisuseKeys  []string `json:"misuseKeys"`
}

// Entry is one taxonomy record in the report's error list.
type Entry struct {
	File  string `json:"file"`
	Error string `json:"error"`
	Type  string `json:"type"`
}

// Diff compares extracted key usages against the catalog index. Pure set
// algebra over frozen inputs: identical inputs produce identical output,
// including ordering.
//
// A key is missing unless it is a known leaf, resolves through exactly one
// suffix fallback match, or is allow-listed when several fallback matches
// are ambiguous. A catalog leaf is unused when no extracted key matches it
// exactly; fallback matching never applies in that direction. A key that
// names a namespace object rather than a leaf is a misuse, reported once
// per usage location, and wins over missing.
func Diff(usages map[string][]scan.Location, index *catalog.Index, allowList []string) (Analysis, []Entry) {
	allowed := make(map[string]bool, len(allowList))
	for _, k := range allowList {
		allowed[k] = true
	}

	keys := make([]string, 0, len(usages))
	for k := range usages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	analysis := Analysis{
		MissingKeys: []string{},
		UnusedKeys:  []string{},
		MisuseKeys:  []string{},
	}
	var entries []Entry

	for _, key := range keys {
		switch {
		case index.HasLeaf(key):
			// Known key.

		case index.HasObjectPath(key):
			analysis.MisuseKeys = append(analysis.MisuseKeys, key)
			entries = append(entries, misuseEntries(key, usages[key])...)

		default:
			matches := index.SuffixMatches(key)
			switch {
			case len(matches) == 1:
				// Unambiguous fallback match.
			case len(matches) > 1 && allowed[key]:
				entries = append(entries, Entry{
					File:  firstFile(usages[key]),
					Error: fmt.Sprintf("key %q has %d fallback matches; accepted via allow list", key, len(matches)),
					Type:  scan.ErrorTypeWarning,
				})
			default:
				analysis.MissingKeys = append(analysis.MissingKeys, key)
			}
		}
	}

	used := make(map[string]bool, len(usages))
	for k := range usages {
		used[k] = true
	}
	for _, leaf := range index.LeafKeys() {
		if !used[leaf] {
			analysis.UnusedKeys = append(analysis.UnusedKeys, leaf)
		}
	}

	return analysis, entries
}

// misuseEntries reports each usage location of a misused key individually;
// a key with no recorded location still yields one synthetic entry.
func misuseEntries(key string, locs []scan.Location) []Entry {
	if len(locs) == 0 {
		return []Entry{{
			Error: fmt.Sprintf("key %q resolves to a namespace object, not a translatable value", key),
			Type:  scan.ErrorTypeMisuse,
		}}
	}
	entries := make([]Entry, 0, len(locs))
	for _, loc := range locs {
		entries = append(entries, Entry{
			File:  loc.File,
			Error: fmt.Sprintf("line %d: key %q resolves to a namespace object, not a translatable value", loc.Line, key),
			Type:  scan.ErrorTypeMisuse,
		})
	}
	return entries
}

func firstFile(locs []scan.Location) string {
	if len(locs) == 0 {
		return ""
	}
	return locs[0].File
}
