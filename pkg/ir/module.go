package ir

// TypeInfo records one type's wire id and fully-qualified name; Module.Types
// is indexed by TypeInfo.ID. Only a name is carried — this IR does not model
// concrete field offsets/struct layout, deferring that to a future backend,
// so "layout" here means identity, not byte size.
type TypeInfo struct {
	ID   uint32
	Name string
}

// Module owns every lowered function plus the IL metadata tables spec.md's
// Data Model describes: type metadata, the persistent-variable table, the
// temporary (SSA-value) table, and function-call metadata.
type Module struct {
	Functions   []*Function
	Types       []TypeInfo
	Variables   []VariableInfo
	Temporaries []VariableInfo
	Calls       []CallInfo

	typeIDs map[string]uint32
}

// NewModule returns an empty module ready for the builder to populate.
func NewModule() *Module {
	return &Module{typeIDs: make(map[string]uint32)}
}

// TypeID returns the wire id for name, assigning a fresh one the first time
// name is seen (type metadata is built incrementally as lowering encounters
// types, rather than precomputed, since a function body may never mention
// most of the symbol table).
func (m *Module) TypeID(name string) uint32 {
	if id, ok := m.typeIDs[name]; ok {
		return id
	}
	id := uint32(len(m.Types))
	m.typeIDs[name] = id
	m.Types = append(m.Types, TypeInfo{ID: id, Name: name})
	return id
}

// AddFunction appends fn to the module.
func (m *Module) AddFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
}

// AddVariable records a persistent variable's metadata.
func (m *Module) AddVariable(info VariableInfo) {
	m.Variables = append(m.Variables, info)
}

// AddTemporary records an SSA temporary's metadata.
func (m *Module) AddTemporary(info VariableInfo) {
	m.Temporaries = append(m.Temporaries, info)
}

// AddCall records a call site's metadata and returns its id.
func (m *Module) AddCall(callee string, paramTypeIDs []uint32, returnTypeID uint32) uint32 {
	id := uint32(len(m.Calls))
	m.Calls = append(m.Calls, CallInfo{ID: id, Callee: callee, ParamTypeIDs: paramTypeIDs, ReturnTypeID: returnTypeID})
	return id
}
