// Package pipeline glues every compiler stage — preprocess, lex, parse,
// collect, resolve, type-check, lower, analyze, optimize — into the single
// entry point a driver (cmd/hxslc, or a test) calls to go from source text
// to a finished IR module. It is the ambient stage-timing layer: each stage
// logs its own elapsed time and running diagnostic count, in the style
// go-corset's pkg/util/perfstats.go times and logs a compiler pass.
package pipeline

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/cfg"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/optimizer"
	"github.com/hexaengine/hxslc/pkg/parser"
	"github.com/hexaengine/hxslc/pkg/preprocessor"
	"github.com/hexaengine/hxslc/pkg/resolver"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/symbol"
	"github.com/hexaengine/hxslc/pkg/types"
)

// Source is one input file handed to Compile.
type Source struct {
	Name     string
	Contents []byte
}

// Options controls pipeline behavior beyond the defaults Compile assumes.
type Options struct {
	// AssemblyName names the symbol.Assembly built for these sources,
	// reported in diagnostics and available to a future multi-assembly
	// `References` wiring. Defaults to "main" when empty.
	AssemblyName string
	// Locale selects the diagnostic message table; the zero value resolves
	// to diag.DefaultLocale(). Chosen once at pipeline entry and threaded
	// through, never mutated globally afterward (spec.md §6's set_locale).
	Locale diag.Locale
	// References are other, already-built assemblies this compilation may
	// resolve symbols against (a `using` of an external assembly), beyond
	// the process-wide HXSL.Core primitive assembly every compilation
	// searches implicitly.
	References []*symbol.Assembly
	// SkipOptimize disables the algebraic simplifier pass, for a caller
	// that wants the CFG exactly as lowering produced it (e.g. `hxslc ir
	// --no-optimize`).
	SkipOptimize bool
}

// Result is everything Compile produces: the lowered module (nil if a
// critical diagnostic aborted the pipeline before lowering), the assembly
// its symbols were collected into (needed alongside Module to write a
// module file — see pkg/modfile.Write), and every diagnostic raised.
type Result struct {
	Module      *ir.Module
	Assembly    *symbol.Assembly
	Diagnostics []diag.Diagnostic
}

// Compile runs every stage over sources and returns the finished module,
// its assembly, and every diagnostic raised along the way. A nil
// Result.Module accompanies a critical diagnostic (diag.Logger.Critical());
// callers should check that before trusting a non-nil but possibly
// incomplete module on plain accumulated errors.
func Compile(sources []Source, opts Options) Result {
	name := opts.AssemblyName
	if name == "" {
		name = "main"
	}
	locale := opts.Locale
	if locale.Name() == "" {
		locale = diag.DefaultLocale()
	}

	logger := diag.NewLogger(locale)
	mgr := source.NewManager()
	arena := ast.NewArena()
	assembly := symbol.NewAssembly(name)

	units := stage(logger, "parse", func() []*ast.CompilationUnit {
		return parseAll(sources, mgr, arena, logger)
	})
	if logger.Critical() {
		return Result{Assembly: assembly, Diagnostics: logger.Messages()}
	}

	stage0(logger, "collect", func() {
		collector := resolver.NewCollector(assembly, logger)
		for _, unit := range units {
			collector.Collect(unit)
		}
	})
	if logger.Critical() {
		return Result{Assembly: assembly, Diagnostics: logger.Messages()}
	}

	stage0(logger, "resolve", func() {
		res := resolver.New(assembly, opts.References, arena, logger)
		for _, unit := range units {
			res.Resolve(unit)
		}
	})
	if logger.Critical() {
		return Result{Assembly: assembly, Diagnostics: logger.Messages()}
	}

	checker := types.New(assembly, arena, logger)
	stage0(logger, "typecheck", func() {
		for _, unit := range units {
			checker.Check(unit)
		}
	})
	if logger.Critical() {
		return Result{Assembly: assembly, Diagnostics: logger.Messages()}
	}

	module := stage(logger, "lower", func() *ir.Module {
		return ir.Build(mergeUnits(arena, units), checker)
	})

	stage0(logger, "analyze", func() {
		cfg.Analyze(module, logger)
	})

	if !opts.SkipOptimize {
		stage0(logger, "optimize", func() {
			for _, fn := range module.Functions {
				optimizer.Run(fn)
			}
		})
	}

	return Result{Module: module, Assembly: assembly, Diagnostics: logger.Messages()}
}

// parseAll preprocesses and parses every source in order, returning one
// compilation unit per input file. A preprocessing or parse failure on one
// file doesn't stop the others from being attempted, matching the
// accumulate-and-report-everything posture diag.Logger is built around.
func parseAll(sources []Source, mgr *source.Manager, arena *ast.Arena, logger *diag.Logger) []*ast.CompilationUnit {
	units := make([]*ast.CompilationUnit, 0, len(sources))

	for _, src := range sources {
		id := mgr.Add(src.Name, src.Contents)

		pp := preprocessor.New(logger)
		cleaned, _ := pp.Process(mgr.Get(id))
		mgr.SetContents(id, cleaned)

		toks := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()

		p := parser.New(id, toks, arena, logger)
		units = append(units, p.ParseCompilationUnit())

		if logger.Critical() {
			break
		}
	}

	return units
}

// mergeUnits folds every per-file compilation unit's top-level declarations
// into one synthetic unit so ir.Build runs once across the whole assembly
// and hands out a single, collision-free set of type/variable/temporary ids
// — Build allocates those ids fresh per call, so lowering one unit per file
// and concatenating the results would double-assign them whenever more than
// one source file declares a function or type.
func mergeUnits(arena *ast.Arena, units []*ast.CompilationUnit) *ast.CompilationUnit {
	var fileID source.ID
	if len(units) > 0 {
		fileID = units[0].FileID
	}

	merged := ast.NewCompilationUnit(arena, source.Span{}, fileID)
	for _, unit := range units {
		for _, d := range unit.Declarations {
			merged.AddDeclaration(d)
		}
	}
	return merged
}

// stage runs fn, logging its elapsed time and the logger's running error
// count once it returns.
func stage[T any](logger *diag.Logger, name string, fn func() T) T {
	start := time.Now()
	result := fn()
	logStage(logger, name, start)
	return result
}

// stage0 is stage for a side-effecting pass with no return value.
func stage0(logger *diag.Logger, name string, fn func()) {
	start := time.Now()
	fn()
	logStage(logger, name, start)
}

func logStage(logger *diag.Logger, name string, start time.Time) {
	log.WithFields(log.Fields{
		"stage":   name,
		"elapsed": time.Since(start),
		"errors":  logger.ErrorCount(),
	}).Debug("pipeline stage complete")
}
