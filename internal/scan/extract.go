package scan

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// callExpression records a key-lookup call site when the call matches one
// of the two callee shapes:
//
//   - a bare identifier that is a configured translation-function name or
//     any identifier whose binding has a resolved namespace
//   - a member expression whose object has a resolved namespace
//     (t.rich("key"), t.raw("key"))
//
// The first argument must be a string literal; dynamic keys are out of
// scope and skipped. Namespace-hook calls are producers, not lookups, so
// useTranslations("Header") never records "Header" as a key.
func (w *fileWalker) callExpression(call *sitter.Node, sc *scope) {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return
	}

	arg := firstNamedArgument(call)
	if arg == nil || arg.Type() != "string" {
		return
	}
	rawKey := w.stringValue(arg)
	if rawKey == "" {
		return
	}

	switch callee.Type() {
	case "identifier":
		name := w.text(callee)
		if w.scanner.hookNames[name] {
			return
		}
		b := sc.lookup(name)
		if b == nil && !w.scanner.lookupNames[name] {
			return
		}
		// A call through a binding with no namespace yet is recorded
		// provisionally: deferred JSX resolution may still unlock it.
		w.record(CalleeIdentifier, rawKey, b, w.scanner.lookupNames[name], call)

	case "member_expression":
		obj := callee.ChildByFieldName("object")
		if obj == nil || obj.Type() != "identifier" {
			return
		}
		b := sc.lookup(w.text(obj))
		if b == nil {
			return
		}
		w.record(CalleeMember, rawKey, b, false, call)
	}
}

// record appends a call site to the file's private output. The resolved
// key is computed later, once deferred JSX resolution can no longer change
// the binding's namespace.
func (w *fileWalker) record(kind CalleeKind, rawKey string, b *binding, configured bool, call *sitter.Node) {
	w.out.calls = append(w.out.calls, &CallSite{
		Kind:       kind,
		RawKey:     rawKey,
		Location:   w.location(call),
		bind:       b,
		configured: configured,
	})
}
