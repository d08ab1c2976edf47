package preprocessor

import "github.com/hexaengine/hxslc/pkg/token"

// Macro is a single #define entry: an object-like macro has no parameters,
// a function-like macro requires a parenthesized argument list at each use.
type Macro struct {
	Name       string
	Params     []string
	paramIndex map[string]int
	Body       []token.Token
}

func newMacro(name string) *Macro {
	return &Macro{Name: name, paramIndex: make(map[string]int)}
}

// AddParam records a formal parameter name for a function-like macro.
func (m *Macro) AddParam(name string) {
	m.paramIndex[name] = len(m.Params)
	m.Params = append(m.Params, name)
}

// IsFunctionLike reports whether this macro takes an argument list.
func (m *Macro) IsFunctionLike() bool {
	return len(m.Params) > 0
}

// Table is the preprocessor's symbol table of defined macros.
type Table struct {
	macros map[string]*Macro
}

func newTable() *Table {
	return &Table{macros: make(map[string]*Macro)}
}

// Define installs (or replaces) a macro definition.
func (t *Table) Define(m *Macro) {
	t.macros[m.Name] = m
}

// Lookup returns the macro named name, if defined.
func (t *Table) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Defined reports whether name has an active #define, the operand of the
// built-in defined(X) pseudo-macro.
func (t *Table) Defined(name string) bool {
	_, ok := t.macros[name]
	return ok
}
