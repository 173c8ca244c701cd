// Package report turns scan results and catalog indices into the analyzer's
// serializable output: the usage diff plus summary counts and the error
// taxonomy. Persistence and presentation belong to the caller; exit-code
// policy belongs to the CLI.
package report

import (
	"encoding/json"
	"sort"

	"github.com/intlscan/intlscan/internal/catalog"
	"github.com/intlscan/intlscan/internal/scan"
)

// Summary is the report's headline counts.
type Summary struct {
	TotalFiles   int `json:"totalFiles"`
	ScannedFiles int `json:"scannedFiles"`
	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
	TotalKeys    int `json:"totalKeys"`
	UniqueKeys   int `json:"uniqueKeys"`
	MissingKeys  int `json:"missingKeys"`
	UnusedKeys   int `json:"unusedKeys"`
	MisuseKeys   int `json:"misuseKeys"`
}

// Report is the full analysis output. Marshalling is deterministic: key
// lists are sorted, usage locations keep discovery order, and map keys are
// ordered by encoding/json. Re-running on unchanged inputs yields
// byte-identical JSON.
type Report struct {
	Summary         Summary                    `json:"summary"`
	TranslationKeys []string                   `json:"translationKeys"`
	KeyUsages       map[string][]scan.Location `json:"keyUsages"`
	Analysis        Analysis                   `json:"analysis"`
	Errors          []Entry                    `json:"errors"`
}

// Assemble combines a scan result and a catalog index into a Report.
func Assemble(res *scan.Result, index *catalog.Index, allowList []string) *Report {
	analysis, diffEntries := Diff(res.Usages, index, allowList)

	errors := make([]Entry, 0, len(res.Errors)+len(diffEntries))
	for _, fe := range res.Errors {
		errors = append(errors, Entry{File: fe.File, Error: fe.Message, Type: fe.Type})
	}
	errors = append(errors, diffEntries...)

	keys := make([]string, 0, len(res.Usages))
	for k := range res.Usages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	usages := res.Usages
	if usages == nil {
		usages = map[string][]scan.Location{}
	}

	errorCount, warningCount := 0, 0
	for _, e := range errors {
		if e.Type == scan.ErrorTypeWarning {
			warningCount++
		} else {
			errorCount++
		}
	}

	return &Report{
		Summary: Summary{
			TotalFiles:   res.TotalFiles,
			ScannedFiles: res.ScannedFiles,
			ErrorCount:   errorCount,
			WarningCount: warningCount,
			TotalKeys:    len(res.CallSites),
			UniqueKeys:   len(res.Usages),
			MissingKeys:  len(analysis.MissingKeys),
			UnusedKeys:   len(analysis.UnusedKeys),
			MisuseKeys:   len(analysis.MisuseKeys),
		},
		TranslationKeys: keys,
		KeyUsages:       usages,
		Analysis:        analysis,
		Errors:          errors,
	}
}

// Clean reports whether the run should be considered passing: no taxonomy
// errors and no missing keys. Warnings and unused keys do not fail a run.
func (r *Report) Clean() bool {
	return r.Summary.ErrorCount == 0 && r.Summary.MissingKeys == 0
}

// JSON marshals the report, optionally indented.
func (r *Report) JSON(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}
