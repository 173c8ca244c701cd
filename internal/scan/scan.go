// Package scan discovers translation-key call sites in JS/TS/JSX/TSX
// sources and resolves each one to a fully qualified catalog key.
//
// Resolution is static. For every file the scanner builds a scope tree,
// seeds bindings with the namespaces produced by translation hooks, follows
// aliases and wrapper functions, and extracts key-lookup calls against
// those bindings. Namespaces threaded into child components through JSX
// props are resolved afterwards by a worklist that runs to fixed point over
// all files, so producers defined lexically after their consumers still
// resolve.
package scan

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/intlscan/intlscan/internal/source"
)

// Error taxonomy carried in scan results and, downstream, in the report.
const (
	ErrorTypeParse   = "parse_error"
	ErrorTypeMisuse  = "object_key_misuse"
	ErrorTypeWarning = "warning"
)

// Default function names recognized when Options leaves them unset.
var (
	DefaultTranslationFunctionNames = []string{"t", "useTranslations", "getTranslations"}
	DefaultNamespaceHooks           = []string{"useTranslations", "getTranslations"}
)

// CalleeKind tags the shape of a call site's callee.
type CalleeKind int

const (
	// CalleeIdentifier is a bare call such as t("key").
	CalleeIdentifier CalleeKind = iota
	// CalleeMember is a member call such as t.rich("key").
	CalleeMember
)

func (k CalleeKind) String() string {
	switch k {
	case CalleeIdentifier:
		return "identifier"
	case CalleeMember:
		return "member"
	default:
		return fmt.Sprintf("CalleeKind(%d)", int(k))
	}
}

// Location is one source position, 1-based.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// CallSite is one discovered key lookup. ResolvedKey is filled in during
// the merge phase, after deferred JSX resolution has run, because the
// binding's namespace may only become known then.
type CallSite struct {
	Kind        CalleeKind
	RawKey      string
	ResolvedKey string
	Location    Location

	bind *binding
	// configured marks a callee that is itself a configured translation
	// function name; such sites survive even without a namespace binding.
	configured bool
}

// FileError is a per-file taxonomy entry. Parse failures and unresolved
// prop-forwarding warnings end up here; the scan itself never fails.
type FileError struct {
	File    string `json:"file"`
	Message string `json:"error"`
	Type    string `json:"type"`
}

// Result is the accumulated outcome of scanning a set of files.
type Result struct {
	TotalFiles   int
	ScannedFiles int
	CallSites    []*CallSite
	// Usages maps each resolved key to its usage locations in discovery
	// order: file order first, then source order within a file.
	Usages map[string][]Location
	Errors []FileError
}

// Options configures a Scanner.
type Options struct {
	// TranslationFunctionNames are identifiers treated as key lookups even
	// without a namespace binding (default: t, useTranslations,
	// getTranslations).
	TranslationFunctionNames []string
	// NamespaceHooks are callee names whose calls produce a namespace, via
	// a single string-literal argument or an object argument with a literal
	// namespace property (default: useTranslations, getTranslations).
	NamespaceHooks []string
	// Workers bounds the per-file parse/extract fan-out. Zero means
	// runtime.NumCPU().
	Workers int
}

// Scanner extracts translation-key usages from source files. It is safe
// for concurrent use; all mutable state lives in per-call values.
type Scanner struct {
	lookupNames map[string]bool
	hookNames   map[string]bool
	workers     int
}

// New builds a Scanner, applying defaults for unset options.
func New(opts Options) *Scanner {
	names := opts.TranslationFunctionNames
	if len(names) == 0 {
		names = DefaultTranslationFunctionNames
	}
	hooks := opts.NamespaceHooks
	if len(hooks) == 0 {
		hooks = DefaultNamespaceHooks
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	s := &Scanner{
		lookupNames: make(map[string]bool, len(names)),
		hookNames:   make(map[string]bool, len(hooks)),
		workers:     workers,
	}
	for _, n := range names {
		s.lookupNames[n] = true
	}
	for _, h := range hooks {
		s.hookNames[h] = true
	}
	return s
}

// fileResult is one worker's private output for one file. Nothing in it is
// shared until the single-writer merge.
type fileResult struct {
	path  string
	err   error
	calls []*CallSite
	tasks []*deferredTask
}

// ScanFiles parses and extracts every file, resolves deferred JSX tasks to
// fixed point, and returns the merged result. A file that fails to parse
// contributes a parse_error entry and is otherwise skipped; the remaining
// files are still processed.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) *Result {
	results := make([]*fileResult, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.scanPath(ctx, paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return s.merge(results)
}

func (s *Scanner) scanPath(ctx context.Context, path string) *fileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return &fileResult{path: path, err: err}
	}
	return s.scanSource(ctx, path, content)
}

// merge is the single-writer accumulation phase: call sites, deferred
// tasks, and errors from each private fileResult are combined in file
// order, the deferred worklist is drained, and resolved keys finalized.
func (s *Scanner) merge(results []*fileResult) *Result {
	res := &Result{
		TotalFiles: len(results),
		Usages:     make(map[string][]Location),
	}

	var tasks []*deferredTask
	for _, fr := range results {
		if fr == nil {
			continue
		}
		if fr.err != nil {
			res.Errors = append(res.Errors, FileError{
				File:    fr.path,
				Message: fr.err.Error(),
				Type:    ErrorTypeParse,
			})
			continue
		}
		res.ScannedFiles++
		res.CallSites = append(res.CallSites, fr.calls...)
		tasks = append(tasks, fr.tasks...)
	}

	for _, t := range resolveDeferred(tasks) {
		if !t.plausible(s.lookupNames) {
			continue
		}
		res.Errors = append(res.Errors, FileError{
			File:    t.loc.File,
			Message: t.warning(),
			Type:    ErrorTypeWarning,
		})
	}

	// Finalize: provisional sites that never gained a namespace were not
	// translation calls after all; everything else resolves now.
	kept := res.CallSites[:0]
	for _, c := range res.CallSites {
		ns := ""
		if c.bind != nil {
			ns = c.bind.namespace()
		}
		if !c.configured && ns == "" {
			continue
		}
		c.ResolvedKey = ResolveKeyWithNamespace(c.RawKey, ns)
		res.Usages[c.ResolvedKey] = append(res.Usages[c.ResolvedKey], c.Location)
		kept = append(kept, c)
	}
	res.CallSites = kept

	return res
}

// ResolveKeyWithNamespace qualifies rawKey with namespace. A key that
// already equals the namespace or carries it as a dotted prefix is returned
// unchanged, so resolution never double-prefixes.
func ResolveKeyWithNamespace(rawKey, namespace string) string {
	if namespace == "" {
		return rawKey
	}
	if rawKey == namespace || strings.HasPrefix(rawKey, namespace+".") {
		return rawKey
	}
	return namespace + "." + rawKey
}

// scanSource runs parse plus the per-file walk. Any panic from an
// unexpected syntax shape is confined here and converted to a parse_error
// entry so one malformed file cannot halt the batch.
func (s *Scanner) scanSource(ctx context.Context, path string, content []byte) (fr *fileResult) {
	fr = &fileResult{path: path}
	defer func() {
		if r := recover(); r != nil {
			fr.calls = nil
			fr.tasks = nil
			fr.err = fmt.Errorf("unexpected syntax shape: %v", r)
		}
	}()

	f, err := source.Parse(ctx, path, content)
	if err != nil {
		fr.err = err
		return fr
	}
	defer f.Close()

	w := &fileWalker{scanner: s, file: f, out: fr}
	w.walk(f.Root(), newScope(nil))
	return fr
}
