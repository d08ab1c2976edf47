package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/source"
)

func TestReadSourcesReadsEveryFileInOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.hlsl")
	b := filepath.Join(dir, "b.hlsl")
	require.NoError(t, os.WriteFile(a, []byte("struct A {}"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("struct B {}"), 0o644))

	sources, err := readSources([]string{a, b})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, a, sources[0].Name)
	assert.Equal(t, "struct A {}", string(sources[0].Contents))
	assert.Equal(t, b, sources[1].Name)
}

func TestReadSourcesReportsMissingFile(t *testing.T) {
	_, err := readSources([]string{filepath.Join(t.TempDir(), "missing.hlsl")})
	assert.Error(t, err)
}

func TestPrintDiagnosticsCountsErrorsAndWorse(t *testing.T) {
	messages := []diag.Diagnostic{
		{Code: diag.NewCode(diag.SeverityWarning, 1), Span: source.NewSpan(0, 0, 1, 1, 1), Text: "a warning"},
		{Code: diag.NewCode(diag.SeverityError, 2), Span: source.NewSpan(0, 0, 1, 1, 1), Text: "an error"},
		{Code: diag.NewCode(diag.SeverityCritical, 3), Span: source.NewSpan(0, 0, 1, 1, 1), Text: "a critical error"},
	}

	assert.Equal(t, 2, printDiagnostics(messages))
}

func TestIRFormatRejectsUnknownValue(t *testing.T) {
	var f irFormat
	assert.NoError(t, f.Set("text"))
	assert.Equal(t, "text", f.String())
	assert.Error(t, f.Set("xml"))
}

func TestDumpNodeWritesOneLinePerNode(t *testing.T) {
	arena := ast.NewArena()
	ref := ast.NewSymbolRef(source.NewSpan(0, 0, 1, 1, 1), "float", ast.RefType, false)
	decl := ast.NewParameterDecl(arena, source.NewSpan(0, 0, 1, 1, 1), "x", ref, true, false)

	var buf bytes.Buffer
	dumpNode(&buf, decl, 0)

	assert.Contains(t, buf.String(), "Parameter")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestFormatOperandRendersEachKind(t *testing.T) {
	assert.Equal(t, "_", formatOperand(ir.Operand{Kind: ir.OperandNone}))
	assert.Equal(t, "v1.0", formatOperand(ir.VarOperand(ir.NewVarID(1))))
	assert.Equal(t, "block2", formatOperand(ir.LabelOperand(2)))
	assert.Equal(t, "field(1,2)", formatOperand(ir.FieldOperand(1, 2)))
}
