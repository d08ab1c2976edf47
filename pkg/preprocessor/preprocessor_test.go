package preprocessor_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/preprocessor"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, *diag.Logger) {
	t.Helper()

	mgr := source.NewManager()
	id := mgr.Add("t.hlsl", []byte(src))
	logger := diag.NewLogger(diag.DefaultLocale())

	out, _ := preprocessor.New(logger).Process(mgr.Get(id))

	return string(out), logger
}

func TestObjectLikeMacroSubstitution(t *testing.T) {
	out, logger := run(t, "#define VALUE 42\nint x = VALUE;")
	assert.Empty(t, logger.Messages())
	assert.Contains(t, out, "int x = 42;")
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	out, _ := run(t, "#define DOUBLE(x) ((x)+(x))\nint y = DOUBLE(3);")
	assert.Contains(t, out, "int y = ((3)+(3));")
}

func TestMacroArgCountMismatchStillExpands(t *testing.T) {
	out, logger := run(t, "#define ADD(a,b) (a+b)\nint z = ADD(1);")
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.MacroArgCountMismatch, logger.Messages()[0].Code)
	assert.Contains(t, out, "int z =")
}

func TestIfdefTakesDefinedBranch(t *testing.T) {
	out, _ := run(t, "#define FOO\n#ifdef FOO\nint a;\n#else\nint b;\n#endif\n")
	assert.Contains(t, out, "int a;")
	assert.NotContains(t, out, "int b;")
}

func TestIfndefSkipsDefinedBranch(t *testing.T) {
	out, _ := run(t, "#define FOO\n#ifndef FOO\nint a;\n#else\nint b;\n#endif\n")
	assert.NotContains(t, out, "int a;")
	assert.Contains(t, out, "int b;")
}

func TestIfElifElseCascadeTakesOneArm(t *testing.T) {
	out, _ := run(t, "#if 0\nint a;\n#elif 1\nint b;\n#else\nint c;\n#endif\n")
	assert.NotContains(t, out, "int a;")
	assert.Contains(t, out, "int b;")
	assert.NotContains(t, out, "int c;")
}

func TestNestedIfWithinSkippedBlockStaysSkipped(t *testing.T) {
	out, _ := run(t, "#if 0\n#if 1\nint a;\n#endif\nint b;\n#endif\nint c;\n")
	assert.NotContains(t, out, "int a;")
	assert.NotContains(t, out, "int b;")
	assert.Contains(t, out, "int c;")
}

func TestDefinedPseudoMacroUndefinedYieldsZero(t *testing.T) {
	out, _ := run(t, "#if defined(FOO)\nint a;\n#else\nint b;\n#endif\n")
	assert.NotContains(t, out, "int a;")
	assert.Contains(t, out, "int b;")
}

func TestMissingEndifIsDiagnosed(t *testing.T) {
	_, logger := run(t, "#if 1\nint a;\n")
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.MissingEndif, logger.Messages()[len(logger.Messages())-1].Code)
}

func TestElifWithoutIfIsDiagnosed(t *testing.T) {
	_, logger := run(t, "#elif 1\nint a;\n")
	require.NotEmpty(t, logger.Messages())
	assert.Equal(t, diag.PrepMissingIf, logger.Messages()[0].Code)
}

func TestPragmaWarningDirectiveProducesNoSpuriousDiagnostics(t *testing.T) {
	out, logger := run(t, "#pragma warning disable FOO\nbad\n#pragma warning restore FOO\n")
	assert.Empty(t, logger.Messages())
	assert.Contains(t, out, "bad")
}

func TestMacroFreeInputPassesThroughUnchanged(t *testing.T) {
	out, _ := run(t, "int x = 1;\nint y = 2;")
	assert.Equal(t, "int x = 1;\nint y = 2;", out)
}
