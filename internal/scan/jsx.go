package scan

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// deferredTask is one pending namespace propagation through a JSX prop:
// <Child t={t}/> seen while the producer identifier's namespace (or the
// component's definition) is not yet known. Tasks hold only scopes and
// names, never syntax nodes, so the file's tree can be released before the
// worklist drains.
type deferredTask struct {
	scope     *scope
	component string
	prop      string
	producer  string
	loc       Location
}

// jsxElement queues a deferred task for every attribute whose value is a
// bare identifier. Producers with no namespace yet still queue: a chain hop
// under a custom prop name only becomes resolvable once an earlier task
// seeds its producer, so filtering here would drop it. Lowercase tags are
// host elements and take no translator props.
func (w *fileWalker) jsxElement(el *sitter.Node, sc *scope) {
	name := el.ChildByFieldName("name")
	if name == nil {
		return
	}
	component := w.text(name)
	if component == "" || !isUpper(component[0]) {
		return
	}

	for i := 0; i < int(el.NamedChildCount()); i++ {
		attr := el.NamedChild(i)
		if attr.Type() != "jsx_attribute" {
			continue
		}
		prop, producer := w.attributeIdentifier(attr)
		if producer == "" {
			continue
		}

		w.out.tasks = append(w.out.tasks, &deferredTask{
			scope:     sc,
			component: component,
			prop:      prop,
			producer:  producer,
			loc:       w.location(attr),
		})
	}
}

// attributeIdentifier returns the attribute's name and, when its value is a
// braced bare identifier, that identifier's name.
func (w *fileWalker) attributeIdentifier(attr *sitter.Node) (prop, producer string) {
	count := int(attr.NamedChildCount())
	if count < 2 {
		return "", ""
	}
	prop = w.text(attr.NamedChild(0))

	value := attr.NamedChild(count - 1)
	if value.Type() != "jsx_expression" || value.NamedChildCount() != 1 {
		return prop, ""
	}
	inner := value.NamedChild(0)
	if inner.Type() != "identifier" {
		return prop, ""
	}
	return prop, w.text(inner)
}

// resolve attempts one propagation: if the producer's namespace is now
// known, find the component's function binding in the scope chain at the
// JSX element, match the forwarded prop to a parameter in the component's
// own scope, and seed that parameter's namespace. Reports whether the task
// completed.
func (t *deferredTask) resolve() bool {
	producer := t.scope.lookup(t.producer)
	if producer == nil || !producer.hasNamespace() {
		return false
	}
	component := t.scope.lookup(t.component)
	if component == nil || component.fnScope == nil {
		return false
	}
	param := component.fnScope.propBinding(t.prop)
	if param == nil {
		return false
	}
	param.setNamespace(producer.namespace())
	return true
}

// plausible reports whether an unresolved task looked like translator
// forwarding: its producer carries a namespace, or the producer or prop uses
// a configured translation-function name. Only plausible leftovers emit
// warnings; ordinary identifier props (className={style}) stay silent.
func (t *deferredTask) plausible(lookupNames map[string]bool) bool {
	if src := t.scope.lookup(t.producer); src != nil && src.hasNamespace() {
		return true
	}
	return lookupNames[t.producer] || lookupNames[t.prop]
}

func (t *deferredTask) warning() string {
	return fmt.Sprintf("line %d: namespace forwarded through prop %q of <%s> (value %q) could not be resolved",
		t.loc.Line, t.prop, t.component, t.producer)
}

// resolveDeferred drains the task list to fixed point. Each full pass
// retries every remaining task; a pass that resolves nothing ends the loop,
// so termination is guaranteed even with circular forwarding. Tasks left
// over are returned for warning emission. A linear forwarding chain of n
// tasks needs at most n passes.
func resolveDeferred(tasks []*deferredTask) []*deferredTask {
	queue := tasks
	for len(queue) > 0 {
		progress := false
		remaining := queue[:0]
		for _, t := range queue {
			if t.resolve() {
				progress = true
			} else {
				remaining = append(remaining, t)
			}
		}
		queue = remaining
		if !progress {
			break
		}
	}
	return queue
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
