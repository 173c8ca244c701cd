package scan

// binding ties one declared identifier to what the analyzer knows about it:
// the translation namespace it carries, and, when the identifier names a
// function, that function's own scope. Bindings are per-file and never
// shared across files.
type binding struct {
	name    string
	ns      string
	fnScope *scope
}

// setNamespace records the namespace for a binding. The first successful
// detection wins: later conflicting assignments are ignored, so resolution
// is idempotent but order-sensitive within a file.
func (b *binding) setNamespace(ns string) {
	if b.ns != "" || ns == "" {
		return
	}
	b.ns = ns
}

func (b *binding) namespace() string { return b.ns }

func (b *binding) hasNamespace() bool { return b.ns != "" }

// scope is one lexical scope. Scopes form a chain from the innermost
// function out to the file's program scope; lookups walk the chain outward.
type scope struct {
	parent *scope
	names  map[string]*binding

	// props maps destructured parameter keys to their bindings, so a
	// forwarded JSX prop can be matched by prop name even when the
	// component renames it ({t: translate}).
	props map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]*binding)}
}

// declare adds a binding for name in this scope. Redeclaring returns the
// existing binding so a namespace seeded earlier is not lost.
func (s *scope) declare(name string) *binding {
	if b, ok := s.names[name]; ok {
		return b
	}
	b := &binding{name: name}
	s.names[name] = b
	return b
}

// lookup resolves name through the scope chain, innermost first.
func (s *scope) lookup(name string) *binding {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.names[name]; ok {
			return b
		}
	}
	return nil
}

// declareProp registers a destructured parameter under its property key.
func (s *scope) declareProp(key string, b *binding) {
	if s.props == nil {
		s.props = make(map[string]*binding)
	}
	if _, ok := s.props[key]; !ok {
		s.props[key] = b
	}
}

// propBinding finds the parameter binding for a forwarded prop, by property
// key first and by plain parameter name as a fallback. Only this scope is
// consulted: props belong to the function itself, not to enclosing scopes.
func (s *scope) propBinding(key string) *binding {
	if b, ok := s.props[key]; ok {
		return b
	}
	if b, ok := s.names[key]; ok {
		return b
	}
	return nil
}
