package resolver

import "github.com/hexaengine/hxslc/pkg/symbol"

// lookupFullyQualified resolves a dotted, assembly-qualified name: the
// primitive assembly first, then the target assembly's own table, then
// every referenced assembly in order. Built-ins sit unqualified at the
// primitive table's root, so `HXSL.Core.float` is not found.
func (r *Resolver) lookupFullyQualified(name string) (symbol.Handle, bool) {
	if h := symbol.Core().Table.Root().FindFullPath(name); h.Valid() {
		return h, true
	}
	if h := r.target.Table.Root().FindFullPath(name); h.Valid() {
		return h, true
	}
	for _, ref := range r.references {
		if h := ref.Table.Root().FindFullPath(name); h.Valid() {
			return h, true
		}
	}
	return symbol.Handle{}, false
}

// lookupThis resolves the bare `this` keyword to the innermost enclosing
// struct/class.
func (r *Resolver) lookupThis() (symbol.Handle, bool) {
	if !r.currentType.Valid() {
		return symbol.Handle{}, false
	}
	return r.currentType, true
}

// lookupName resolves a bare (non-fully-qualified) identifier: the
// process-wide primitive table first, then the innermost-to-outermost scope
// stack (function-local parameters, enclosing type, enclosing namespace),
// then the target assembly's own table root (for a top-level declaration
// with no enclosing scope at all), then every referenced assembly.
func (r *Resolver) lookupName(name string) (symbol.Handle, bool) {
	if name == "this" {
		return r.lookupThis()
	}

	if h := symbol.Core().Table.Root().FindFullPath(name); h.Valid() {
		return h, true
	}

	for i := len(r.scopes) - 1; i >= 0; i-- {
		if !r.scopes[i].handle.Valid() {
			continue
		}
		if h := r.scopes[i].handle.FindFullPath(name); h.Valid() {
			return h, true
		}
	}

	if h := r.target.Table.Root().FindFullPath(name); h.Valid() {
		return h, true
	}

	for _, ref := range r.references {
		if h := ref.Table.Root().FindFullPath(name); h.Valid() {
			return h, true
		}
	}

	return symbol.Handle{}, false
}

func (r *Resolver) lookup(name string, fullyQualified bool) (symbol.Handle, bool) {
	if fullyQualified {
		return r.lookupFullyQualified(name)
	}
	return r.lookupName(name)
}
