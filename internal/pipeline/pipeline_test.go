package pipeline_test

import (
	"testing"

	"github.com/hexaengine/hxslc/internal/pipeline"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFunction(m *ir.Module, name string) *ir.Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestCompileLowersSingleFile(t *testing.T) {
	src := `
		struct Particle {
			float lifetime;

			float Doubled() {
				return lifetime + lifetime;
			}
		}
	`

	result := pipeline.Compile([]pipeline.Source{{Name: "t.hlsl", Contents: []byte(src)}}, pipeline.Options{})
	require.Empty(t, result.Diagnostics)
	require.NotNil(t, result.Module)
	require.NotNil(t, result.Assembly)

	fn := findFunction(result.Module, "Particle.Doubled")
	require.NotNil(t, fn)

	entry := fn.Entry()
	require.NotEmpty(t, entry.Instructions)
}

func TestCompileMergesMultipleFilesIntoOneModule(t *testing.T) {
	a := `
		struct A {
			float F() { return 1.0; }
		}
	`
	b := `
		struct B {
			float G() { return 2.0; }
		}
	`

	result := pipeline.Compile([]pipeline.Source{
		{Name: "a.hlsl", Contents: []byte(a)},
		{Name: "b.hlsl", Contents: []byte(b)},
	}, pipeline.Options{})
	require.Empty(t, result.Diagnostics)
	require.NotNil(t, result.Module)

	assert.NotNil(t, findFunction(result.Module, "A.F"))
	assert.NotNil(t, findFunction(result.Module, "B.G"))
}

func TestCompileReportsParseErrorsWithoutPanicking(t *testing.T) {
	result := pipeline.Compile([]pipeline.Source{
		{Name: "bad.hlsl", Contents: []byte("struct {")},
	}, pipeline.Options{})

	assert.NotEmpty(t, result.Diagnostics)
}

func TestCompileSkipOptimizeLeavesAlgebraicRedundancyIntact(t *testing.T) {
	src := `
		struct C {
			float H(float x) { return x - x; }
		}
	`

	optimized := pipeline.Compile([]pipeline.Source{{Name: "t.hlsl", Contents: []byte(src)}}, pipeline.Options{})
	unoptimized := pipeline.Compile([]pipeline.Source{{Name: "t.hlsl", Contents: []byte(src)}}, pipeline.Options{SkipOptimize: true})

	optFn := findFunction(optimized.Module, "C.H")
	rawFn := findFunction(unoptimized.Module, "C.H")
	require.NotNil(t, optFn)
	require.NotNil(t, rawFn)

	var optHasSubtract, rawHasSubtract bool
	for _, in := range optFn.Entry().Instructions {
		if in.OpCode == ir.OpSubtract {
			optHasSubtract = true
		}
	}
	for _, in := range rawFn.Entry().Instructions {
		if in.OpCode == ir.OpSubtract {
			rawHasSubtract = true
		}
	}

	assert.False(t, optHasSubtract, "algebraic simplifier should fold x - x away")
	assert.True(t, rawHasSubtract, "SkipOptimize should leave x - x untouched")
}
