package scan

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/intlscan/intlscan/internal/source"
)

// fileWalker performs the single per-file traversal that both seeds
// namespace bindings and extracts key-lookup call sites. All of its state
// is private to one file.
type fileWalker struct {
	scanner *Scanner
	file    *source.File
	out     *fileResult
}

func (w *fileWalker) text(n *sitter.Node) string {
	return n.Content(w.file.Content)
}

func (w *fileWalker) location(n *sitter.Node) Location {
	p := n.StartPoint()
	return Location{
		File:   w.file.Path,
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
	}
}

// walk visits n and its children, threading the current scope. Function
// expressions appear as "function" or "function_expression" depending on
// grammar version; both are handled throughout.
func (w *fileWalker) walk(n *sitter.Node, sc *scope) {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if d := n.NamedChild(i); d.Type() == "variable_declarator" {
				w.declarator(d, sc)
			}
		}
		return

	case "function_declaration":
		var b *binding
		if name := n.ChildByFieldName("name"); name != nil {
			b = sc.declare(w.text(name))
		}
		w.function(n, b, sc)
		return

	case "arrow_function", "function", "function_expression", "method_definition":
		// Anonymous function in expression position, or a class method.
		w.function(n, nil, sc)
		return

	case "assignment_expression":
		w.assignment(n, sc)

	case "call_expression":
		w.callExpression(n, sc)

	case "jsx_opening_element", "jsx_self_closing_element":
		w.jsxElement(n, sc)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i), sc)
	}
}

// declarator handles one `name = value` declaration, seeding the new
// binding's namespace from whatever the value turns out to be.
func (w *fileWalker) declarator(d *sitter.Node, sc *scope) {
	name := d.ChildByFieldName("name")
	value := d.ChildByFieldName("value")
	if name == nil {
		return
	}

	if name.Type() != "identifier" {
		w.declarePattern(name, sc, nil)
		if value != nil {
			w.walk(value, sc)
		}
		return
	}

	b := sc.declare(w.text(name))
	if value == nil {
		return
	}
	w.bindValue(b, value, sc)
}

// bindValue seeds binding b from its initializer and keeps walking into it.
// Recognized namespace-producing shapes, in the order tried:
//
//   - a hook call: useTranslations("NS") or getTranslations({namespace: "NS"})
//   - a call to a local wrapper function that carries a namespace
//   - a direct identifier alias: const t2 = t1
//   - a function whose body ends in a return of a namespace-producing call,
//     after unwrapping a single optional await
func (w *fileWalker) bindValue(b *binding, value *sitter.Node, sc *scope) {
	switch value.Type() {
	case "identifier":
		if src := sc.lookup(w.text(value)); src != nil && src.hasNamespace() {
			b.setNamespace(src.namespace())
		}

	case "call_expression", "await_expression":
		call := unwrapAwait(value)
		if call != nil && call.Type() == "call_expression" {
			if ns, ok := w.callNamespace(call, sc); ok {
				b.setNamespace(ns)
			}
		}
		w.walk(value, sc)

	case "arrow_function", "function", "function_expression":
		w.function(value, b, sc)

	default:
		w.walk(value, sc)
	}
}

// assignment extends binding resolution to plain assignments; the first
// namespace detected for a binding still wins.
func (w *fileWalker) assignment(n *sitter.Node, sc *scope) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" {
		return
	}
	b := sc.lookup(w.text(left))
	if b == nil {
		return
	}
	switch right.Type() {
	case "identifier":
		if src := sc.lookup(w.text(right)); src != nil && src.hasNamespace() {
			b.setNamespace(src.namespace())
		}
	case "call_expression", "await_expression":
		call := unwrapAwait(right)
		if call != nil && call.Type() == "call_expression" {
			if ns, ok := w.callNamespace(call, sc); ok {
				b.setNamespace(ns)
			}
		}
	}
}

// function enters fn's scope, declares its parameters, and walks the body.
// When the function is bound to a name, the binding remembers the scope so
// deferred JSX resolution can reach the parameters later, and inherits the
// namespace of a wrapper-shaped body.
func (w *fileWalker) function(fn *sitter.Node, b *binding, outer *scope) {
	fnScope := newScope(outer)
	if b != nil {
		b.fnScope = fnScope
		if ns, ok := w.returnNamespace(fn, outer); ok {
			b.setNamespace(ns)
		}
	}

	if params := fn.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			w.declareParameter(params.NamedChild(i), fnScope)
		}
	} else if p := fn.ChildByFieldName("parameter"); p != nil {
		// Arrow function with a single unparenthesized parameter.
		w.declareParameter(p, fnScope)
	}

	if body := fn.ChildByFieldName("body"); body != nil {
		w.walk(body, fnScope)
	}
}

// declareParameter unwraps the TypeScript grammar's parameter nodes down to
// the identifier or destructuring pattern they carry.
func (w *fileWalker) declareParameter(p *sitter.Node, fnScope *scope) {
	switch p.Type() {
	case "identifier":
		fnScope.declare(w.text(p))
	case "required_parameter", "optional_parameter":
		if pat := p.ChildByFieldName("pattern"); pat != nil {
			w.declareParameter(pat, fnScope)
		}
	case "object_pattern", "array_pattern":
		w.declarePattern(p, fnScope, fnScope)
	case "rest_pattern", "assignment_pattern":
		for i := 0; i < int(p.NamedChildCount()); i++ {
			w.declareParameter(p.NamedChild(i), fnScope)
		}
	}
}

// declarePattern declares every identifier bound by a destructuring
// pattern. When propScope is non-nil the pattern belongs to a function
// parameter list, and each binding is additionally registered under its
// property key so prop forwarding can find it.
func (w *fileWalker) declarePattern(pat *sitter.Node, sc *scope, propScope *scope) {
	for i := 0; i < int(pat.NamedChildCount()); i++ {
		c := pat.NamedChild(i)
		switch c.Type() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier", "identifier":
			name := w.text(c)
			b := sc.declare(name)
			if propScope != nil {
				propScope.declareProp(name, b)
			}
		case "pair_pattern":
			key := c.ChildByFieldName("key")
			val := c.ChildByFieldName("value")
			if val == nil {
				continue
			}
			if val.Type() == "identifier" {
				b := sc.declare(w.text(val))
				if propScope != nil && key != nil {
					propScope.declareProp(w.propertyName(key), b)
				}
			} else {
				w.declarePattern(val, sc, nil)
			}
		case "object_assignment_pattern":
			// Destructured parameter with a default: {t = fallback}.
			left := c.ChildByFieldName("left")
			if left == nil {
				continue
			}
			switch left.Type() {
			case "shorthand_property_identifier_pattern", "identifier":
				name := w.text(left)
				b := sc.declare(name)
				if propScope != nil {
					propScope.declareProp(name, b)
				}
			default:
				w.declarePattern(left, sc, nil)
			}
		case "object_pattern", "array_pattern":
			w.declarePattern(c, sc, nil)
		case "rest_pattern":
			w.declarePattern(c, sc, nil)
		}
	}
}

// callNamespace reports the namespace a call expression produces, if any.
func (w *fileWalker) callNamespace(call *sitter.Node, sc *scope) (string, bool) {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "identifier" {
		return "", false
	}
	name := w.text(callee)

	if w.scanner.hookNames[name] {
		arg := firstNamedArgument(call)
		if arg == nil {
			return "", false
		}
		switch arg.Type() {
		case "string":
			if ns := w.stringValue(arg); ns != "" {
				return ns, true
			}
		case "object":
			if ns, ok := w.objectNamespace(arg); ok {
				return ns, true
			}
		}
		return "", false
	}

	// A call to a wrapper carrying a namespace: const t = useT().
	if b := sc.lookup(name); b != nil && b.fnScope != nil && b.hasNamespace() {
		return b.namespace(), true
	}
	return "", false
}

// objectNamespace finds a literal `namespace` property in an object
// argument, the shape getTranslations({locale, namespace: "NS"}) uses.
func (w *fileWalker) objectNamespace(obj *sitter.Node) (string, bool) {
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		val := pair.ChildByFieldName("value")
		if key == nil || val == nil || w.propertyName(key) != "namespace" {
			continue
		}
		if val.Type() == "string" {
			if ns := w.stringValue(val); ns != "" {
				return ns, true
			}
		}
		return "", false
	}
	return "", false
}

// returnNamespace inspects a function body for the wrapper shape: the body
// is, or ends in a return of, a namespace-producing call, optionally behind
// a single await.
func (w *fileWalker) returnNamespace(fn *sitter.Node, sc *scope) (string, bool) {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return "", false
	}

	expr := body
	if body.Type() == "statement_block" {
		last := lastNamedChild(body)
		if last == nil || last.Type() != "return_statement" {
			return "", false
		}
		if last.NamedChildCount() == 0 {
			return "", false
		}
		expr = last.NamedChild(0)
	}

	expr = unwrapAwait(expr)
	if expr == nil || expr.Type() != "call_expression" {
		return "", false
	}
	return w.callNamespace(expr, sc)
}

// unwrapAwait strips at most one await wrapper.
func unwrapAwait(n *sitter.Node) *sitter.Node {
	if n != nil && n.Type() == "await_expression" && n.NamedChildCount() > 0 {
		return n.NamedChild(0)
	}
	return n
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

func firstNamedArgument(call *sitter.Node) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	return args.NamedChild(0)
}

// stringValue returns the contents of a string literal without quotes,
// with backslash escapes reduced so 'can\'t' yields can't.
func (w *fileWalker) stringValue(n *sitter.Node) string {
	s := w.text(n)
	if len(s) < 2 {
		return ""
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// propertyName returns the text of a property key, unquoting string keys.
func (w *fileWalker) propertyName(key *sitter.Node) string {
	if key.Type() == "string" {
		return w.stringValue(key)
	}
	return w.text(key)
}
